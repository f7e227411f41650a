package dashboard

import (
	"net/url"
	"strconv"

	"github.com/hitoshi/foodwaste/internal/model"
)

// NavItem はサイドバーのナビゲーション項目。
type NavItem struct {
	Label  string
	Path   string
	Icon   string
	Active bool
}

// NavigationFor はロールに応じたナビゲーション項目を返す。
// 共通項目に加え、restaurantはDonations、charityはRestaurants、
// それ以外のロールはUsersを末尾に追加する。
func NavigationFor(role model.Role) []NavItem {
	items := []NavItem{
		{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
		{Label: "Schedule", Path: "/dashboard/schedule", Icon: "calendar"},
		{Label: "Analytics", Path: "/dashboard/analytics", Icon: "bar-chart"},
		{Label: "Settings", Path: "/dashboard/settings", Icon: "settings"},
	}

	switch role {
	case model.RoleRestaurant:
		items = append(items, NavItem{Label: "Donations", Path: "/dashboard/donations", Icon: "utensils"})
	case model.RoleCharity:
		items = append(items, NavItem{Label: "Restaurants", Path: "/dashboard/restaurants", Icon: "building"})
	default:
		items = append(items, NavItem{Label: "Users", Path: "/dashboard/users", Icon: "user"})
	}
	return items
}

// NavigationVariant はナビゲーションの種類（restaurant/charity/admin）を返す。
func NavigationVariant(role model.Role) model.Role {
	if role.IsKnown() {
		return role
	}
	return model.RoleAdmin
}

// BuildNavigation はロールと現在のパスからリンク付きのナビゲーションを組み立てる。
// 各リンクにはroleクエリを付与し、現在のパスと一致する項目をActiveにする。
func BuildNavigation(role model.Role, currentPath string) []NavItem {
	items := NavigationFor(role)
	for i := range items {
		items[i].Active = items[i].Path == currentPath
		items[i].Path = WithRole(items[i].Path, role)
	}
	return items
}

// ShellState はダッシュボードのレイアウト状態を表す。
// サイドバーの折りたたみとモバイルメニューの開閉の組み合わせで、永続化はしない。
type ShellState struct {
	Collapsed      bool
	MobileMenuOpen bool
}

// ShellStateFromQuery はクエリパラメータ（collapsed=1, menu=open）から状態を復元する。
func ShellStateFromQuery(q url.Values) ShellState {
	collapsed, _ := strconv.ParseBool(q.Get("collapsed"))
	return ShellState{
		Collapsed:      collapsed,
		MobileMenuOpen: q.Get("menu") == "open",
	}
}

// ToggleCollapsed はサイドバーの折りたたみを反転した状態を返す。
func (s ShellState) ToggleCollapsed() ShellState {
	s.Collapsed = !s.Collapsed
	return s
}

// ToggleMobileMenu はモバイルメニューの開閉を反転した状態を返す。
func (s ShellState) ToggleMobileMenu() ShellState {
	s.MobileMenuOpen = !s.MobileMenuOpen
	return s
}

// Query は状態をクエリパラメータとして付与したURLを返す。
// ロールやタブなど既存のクエリは保持する。
func (s ShellState) Query(current url.Values, path string) string {
	q := url.Values{}
	for k, v := range current {
		q[k] = append([]string(nil), v...)
	}
	q.Del("collapsed")
	q.Del("menu")
	if s.Collapsed {
		q.Set("collapsed", "1")
	}
	if s.MobileMenuOpen {
		q.Set("menu", "open")
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
