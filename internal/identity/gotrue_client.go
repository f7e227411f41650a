package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize はIdPレスポンスの最大読み取りサイズ。
const maxResponseSize = 1 << 20

// GoTrueClient はGoTrue互換HTTP APIのクライアント。
// すべてのリクエストにapikeyヘッダーを付与する。
type GoTrueClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	apiKey     string
	observe    func(operation string, d time.Duration)
}

// NewGoTrueClient はGoTrueClientを生成する。
// baseURLはIdPのルートURL（例: "https://xyz.supabase.co"）を指定する。
func NewGoTrueClient(httpClient *http.Client, logger *slog.Logger, baseURL, apiKey string) *GoTrueClient {
	return &GoTrueClient{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// WithLatencyObserver はIdP呼び出しの所要時間を通知する関数を設定する。
func (c *GoTrueClient) WithLatencyObserver(fn func(operation string, d time.Duration)) *GoTrueClient {
	c.observe = fn
	return c
}

type signUpBody struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Data     Metadata `json:"data"`
}

type passwordGrantBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp はユーザーを登録する。
// メール確認が有効な場合、IdPはユーザーのみを返すためAccessTokenは空になる。
func (c *GoTrueClient) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	body := signUpBody{Email: req.Email, Password: req.Password, Data: req.Metadata}
	raw, err := c.do(ctx, "signup", http.MethodPost, "/auth/v1/signup", "", body)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode signup response: %w", err)
	}
	if session.AccessToken == "" {
		// セッションなしの場合はユーザーオブジェクトが直接返る
		var user User
		if err := json.Unmarshal(raw, &user); err != nil {
			return nil, fmt.Errorf("failed to decode signup user: %w", err)
		}
		session.User = user
	}
	return &session, nil
}

// SignIn はメールアドレスとパスワードで認証する。
func (c *GoTrueClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	raw, err := c.do(ctx, "signin", http.MethodPost, "/auth/v1/token?grant_type=password", "",
		passwordGrantBody{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("token response did not contain an access token")
	}
	return &session, nil
}

// SignOut はアクセストークンを失効させる。
func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, "signout", http.MethodPost, "/auth/v1/logout", accessToken, nil)
	return err
}

// GetUser はアクセストークンに対応するユーザーを返す。
func (c *GoTrueClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	raw, err := c.do(ctx, "get_user", http.MethodGet, "/auth/v1/user", accessToken, nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return &user, nil
}

// UpdatePassword はアクセストークンのユーザーのパスワードを変更する。
func (c *GoTrueClient) UpdatePassword(ctx context.Context, accessToken, password string) error {
	_, err := c.do(ctx, "update_password", http.MethodPut, "/auth/v1/user", accessToken,
		map[string]string{"password": password})
	return err
}

// do はIdPへリクエストを送信し、2xxの場合にレスポンスボディを返す。
// 4xxはProviderError、接続失敗と5xxはErrUnavailableでラップして返す。
func (c *GoTrueClient) do(ctx context.Context, operation, method, path, accessToken string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", operation, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.observe != nil {
		c.observe(operation, time.Since(start))
	}
	if err != nil {
		c.logger.Error("identity provider request failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", operation, err)
	}

	switch {
	case resp.StatusCode >= 500:
		c.logger.Error("identity provider returned server error",
			slog.String("operation", operation),
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnavailable, operation, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: extractMessage(body, resp.StatusCode)}
	}

	return body, nil
}

// errorBody はGoTrueが返すエラーレスポンスの各形式を表す。
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
}

// extractMessage はエラーレスポンスからユーザー向けメッセージを取り出す。
func extractMessage(body []byte, status int) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		for _, m := range []string{eb.Msg, eb.Message, eb.ErrorDescription, eb.Error} {
			if m != "" {
				return m
			}
		}
	}
	return http.StatusText(status)
}

// compile-time interface check
var _ Provider = (*GoTrueClient)(nil)
