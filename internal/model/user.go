// Package model はドメインモデルを定義する。
package model

import "time"

// Role はダッシュボードの表示を切り替えるための組織種別を表す。
// 任意の文字列を受け付け、既知の値以外はそのまま保持する。
type Role string

const (
	// RoleRestaurant は食品を寄付するレストラン。
	RoleRestaurant Role = "restaurant"
	// RoleCharity は食品を受け取るチャリティ団体。
	RoleCharity Role = "charity"
	// RoleAdmin は管理者向けナビゲーションを表す。
	RoleAdmin Role = "admin"
)

// IsKnown はロールがrestaurantまたはcharityのいずれかであるかを返す。
func (r Role) IsKnown() bool {
	return r == RoleRestaurant || r == RoleCharity
}

// String はロールの文字列表現を返す。
func (r Role) String() string {
	return string(r)
}

// Title は画面表示用の先頭大文字のロール名を返す。
func (r Role) Title() string {
	switch r {
	case RoleRestaurant:
		return "Restaurant"
	case RoleCharity:
		return "Charity"
	case RoleAdmin:
		return "Admin"
	}
	if r == "" {
		return ""
	}
	s := string(r)
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// NotificationSettings は通知チャネルごとのON/OFFを表す。
type NotificationSettings struct {
	Email bool
	Push  bool
	SMS   bool
}

// PickupHours は受け取り可能時間帯（HH:MM）を表す。
type PickupHours struct {
	Start string
	End   string
}

// UserProfile はIdPのユーザーメタデータと対になる組織プロフィール。
// IDはIdPが発行したユーザーIDと同一。
type UserProfile struct {
	ID               string
	Email            string
	OrganizationName string
	ContactName      string
	Role             Role
	Phone            string
	Address          string
	Bio              string
	Notifications    NotificationSettings
	PickupHours      PickupHours
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Session はユーザーのログインセッションを表す。
// AccessTokenはIdPが発行したトークンで、サインアウトやパスワード変更時に使用する。
type Session struct {
	ID          string
	UserID      string
	AccessToken string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
