package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken はアクセストークンの検証に失敗した場合のエラー。
var ErrInvalidToken = errors.New("invalid access token")

// TokenVerifier はIdPが発行したHS256アクセストークンを検証する。
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier はTokenVerifierを生成する。
// secretが空の場合はnilを返し、呼び出し側は検証をスキップする。
func NewTokenVerifier(secret string) *TokenVerifier {
	if secret == "" {
		return nil
	}
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify はトークンの署名と有効期限を検証し、subject（ユーザーID）を返す。
func (v *TokenVerifier) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
