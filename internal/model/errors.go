// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, identity, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation       = "VALIDATION_FAILED"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeProfileNotFound  = "PROFILE_NOT_FOUND"
	ErrCodeIdentityRejected = "IDENTITY_REJECTED"
	ErrCodeIdentityFailed   = "IDENTITY_UNAVAILABLE"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// NewValidationError はフォームのバリデーションエラーを生成する。
func NewValidationError(fields FieldErrors) *APIError {
	msg := "Some fields are invalid."
	for field, m := range fields {
		msg = fmt.Sprintf("%s: %s", field, m)
		break
	}
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  msg,
		Category: "validation",
		Action:   "Please correct the highlighted fields and try again.",
	}
}

// NewInvalidRequestError はリクエストの解析に失敗した場合のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "The request body could not be parsed.",
		Category: "validation",
		Action:   "Send a valid JSON request body.",
	}
}

// NewUnauthorizedError は未認証のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "You need to sign in to do that.",
		Category: "auth",
		Action:   "Please sign in and try again.",
	}
}

// NewProfileNotFoundError はプロフィールが見つからない場合のエラーを生成する。
func NewProfileNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  fmt.Sprintf("Profile not found: %s", userID),
		Category: "auth",
		Action:   "Please sign in again.",
	}
}

// NewIdentityRejectedError はIdPがリクエストを拒否した場合のエラーを生成する。
// メッセージにはIdPのメッセージをそのまま使用する。
func NewIdentityRejectedError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeIdentityRejected,
		Message:  message,
		Category: "identity",
		Action:   "Please check your details and try again.",
	}
}

// NewIdentityUnavailableError はIdPに到達できない場合のエラーを生成する。
func NewIdentityUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeIdentityFailed,
		Message:  "The sign-in service is currently unavailable.",
		Category: "identity",
		Action:   "Please wait a moment and try again.",
	}
}

// NewRateLimitedError はレート制限を超過した場合のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Please wait and retry after the specified time.",
	}
}
