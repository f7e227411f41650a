package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/foodwaste/internal/model"
	"github.com/hitoshi/foodwaste/internal/validation"
)

// maxPasswordLength はパスワード強度APIで受け付ける最大長。
const maxPasswordLength = 256

// passwordStrengthRequest はパスワード強度APIのリクエストボディ。
type passwordStrengthRequest struct {
	Password string `json:"password"`
}

// passwordStrengthResponse はパスワード強度APIのレスポンスボディ。
type passwordStrengthResponse struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// PasswordStrength はパスワードの強度（0〜4）とラベルを返す。
// サインアップ画面とパスワード変更画面の強度メーターから呼び出す。
// POST /api/password-strength
func PasswordStrength(w http.ResponseWriter, r *http.Request) {
	var req passwordStrengthRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		handleServiceError(w, model.NewInvalidRequestError())
		return
	}
	if len(req.Password) > maxPasswordLength {
		handleServiceError(w, model.NewValidationError(model.FieldErrors{
			"password": "Password is too long.",
		}))
		return
	}

	score := validation.PasswordStrength(req.Password)
	writeJSON(w, http.StatusOK, passwordStrengthResponse{
		Score: score,
		Label: validation.StrengthLabel(score),
	})
}

// Pinger はDB接続の疎通確認に必要なインターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// healthResponse はヘルスチェックのレスポンスボディ。
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// NewHealthHandler はDBの疎通を確認するヘルスチェックハンドラーを返す。
// GET /health
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Database: "down"})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "up"})
	}
}
