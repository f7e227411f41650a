package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/foodwaste/internal/identity"
	"github.com/hitoshi/foodwaste/internal/middleware"
	"github.com/hitoshi/foodwaste/internal/model"
	"github.com/hitoshi/foodwaste/internal/web"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// handleServiceError はサービス層から返されたエラーをJSONエラーレスポンスに変換する。
// /api配下のエンドポイントで使用する。
func handleServiceError(w http.ResponseWriter, err error) {
	if apiErr := toAPIError(err); apiErr != nil {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// toAPIError はエラーをAPIErrorに変換する。変換できない場合はnilを返す。
func toAPIError(err error) *model.APIError {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var providerErr *identity.ProviderError
	if errors.As(err, &providerErr) {
		return model.NewIdentityRejectedError(providerErr.Message)
	}
	if errors.Is(err, identity.ErrUnavailable) {
		return model.NewIdentityUnavailableError()
	}
	return nil
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation, model.ErrCodeIdentityRejected:
		return http.StatusUnprocessableEntity
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeProfileNotFound:
		return http.StatusNotFound
	case model.ErrCodeIdentityFailed:
		return http.StatusBadGateway
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// errorToast はエラーをユーザー向けのトーストに変換する。
// IdPが拒否した場合はIdPのメッセージをそのまま表示し、それ以外はfallbackを使う。
func errorToast(title string, err error, fallback string) web.Toast {
	description := fallback
	var providerErr *identity.ProviderError
	if errors.As(err, &providerErr) && providerErr.Message != "" {
		description = providerErr.Message
	}
	return web.Toast{Title: title, Description: description, Variant: web.ToastDestructive}
}
