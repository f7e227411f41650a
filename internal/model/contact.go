package model

import "time"

// ContactSubmission はお問い合わせフォームの送信内容を表す。
type ContactSubmission struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

// FieldErrors はフォーム項目ごとのバリデーションエラーを表す。
// キーはフォームのname属性、値はユーザー向けメッセージ。
type FieldErrors map[string]string

// Add は項目にエラーを追加する。既にエラーがある項目は上書きしない。
func (fe FieldErrors) Add(field, message string) {
	if _, exists := fe[field]; exists {
		return
	}
	fe[field] = message
}

// Has は指定項目にエラーがあるかを返す。
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Get は指定項目のエラーメッセージを返す。
func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

// Valid はエラーが1件もないかを返す。
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}
