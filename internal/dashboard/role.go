// Package dashboard はロール別ダッシュボードの表示ロジックを提供する。
// ロール解決、ナビゲーション、スケジュールのフィルタ、ロール別の文言を扱う。
package dashboard

import (
	"net/url"
	"strings"

	"github.com/hitoshi/foodwaste/internal/model"
)

// ResolveRole は表示に使うロールを決定する。
// サインイン中のプロフィールのロール、クエリパラメータroleの順に参照し、
// どちらもなければrestaurantを返す。未知の文字列もそのまま受け付ける。
func ResolveRole(profile *model.UserProfile, query string) model.Role {
	if profile != nil && profile.Role != "" {
		return profile.Role
	}
	if q := strings.TrimSpace(query); q != "" {
		return model.Role(q)
	}
	return model.RoleRestaurant
}

// WithRole はパスにroleクエリを付与する。
// ナビゲーション間でロールの切り替えを維持するために使用する。
func WithRole(path string, role model.Role) string {
	if role == "" {
		return path
	}
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	q.Set("role", role.String())
	u.RawQuery = q.Encode()
	return u.String()
}
