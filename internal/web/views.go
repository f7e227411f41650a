package web

import (
	"github.com/hitoshi/foodwaste/internal/dashboard"
	"github.com/hitoshi/foodwaste/internal/model"
)

// TabLink は画面内タブのリンク。
type TabLink struct {
	Key    string
	Label  string
	URL    string
	Active bool
}

// HomeView はトップページの表示内容。
type HomeView struct {
	Statistics []dashboard.Statistic
}

// DonationsView は寄付一覧画面の表示内容。
type DonationsView struct {
	Donations []model.DonationRecord
}

// RestaurantsView は提携レストラン画面の表示内容。
type RestaurantsView struct {
	Query       string
	Restaurants []model.PartnerRestaurant
}

// ScheduleView はスケジュール画面の表示内容。
type ScheduleView struct {
	*dashboard.ScheduleView
	PreviousURL string
	NextURL     string
	TodayURL    string
}

// AnalyticsView は分析画面の表示内容。
type AnalyticsView struct {
	Tab       string
	Tabs      []TabLink
	Analytics *dashboard.Analytics
}

// SettingsView は設定画面の表示内容。
// SignedInがfalseの場合はサンプルのプロフィールを表示し、保存できない。
type SettingsView struct {
	Tab        string
	Tabs       []TabLink
	Profile    model.UserProfile
	SignedIn   bool
	ShowPickup bool
	Form       Form
}
