package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hitoshi/foodwaste/internal/dashboard"
	"github.com/hitoshi/foodwaste/internal/model"
	"github.com/hitoshi/foodwaste/internal/web"
)

// DashboardHandler はダッシュボード各画面のHTTPハンドラー。
// ページの閲覧にログインは不要で、ロールはプロフィールまたはroleクエリから決まる。
type DashboardHandler struct {
	*pages
	service DashboardServiceInterface
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(renderer *web.Renderer, flash *web.FlashStore, authService AuthServiceInterface, service DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{
		pages:   &pages{renderer: renderer, flash: flash, auth: authService},
		service: service,
	}
}

// dashboardPage はダッシュボード共通のページデータを組み立てる。
func (p *pages) dashboardPage(w http.ResponseWriter, r *http.Request, title string, data any) (web.PageData, model.Role) {
	user := p.currentUser(r)
	role := dashboard.ResolveRole(user, r.URL.Query().Get("role"))

	page := p.pageData(w, r, title, user, data)
	page.Dashboard = newChrome(r, role)
	return page, role
}

// newChrome はサイドバーとヘッダーの表示内容を組み立てる。
func newChrome(r *http.Request, role model.Role) *web.DashboardChrome {
	q := r.URL.Query()
	shell := dashboard.ShellStateFromQuery(q)
	return &web.DashboardChrome{
		Role:               role,
		Variant:            dashboard.NavigationVariant(role),
		Nav:                dashboard.BuildNavigation(role, r.URL.Path),
		Shell:              shell,
		ToggleCollapsedURL: shell.ToggleCollapsed().Query(q, r.URL.Path),
		ToggleMenuURL:      shell.ToggleMobileMenu().Query(q, r.URL.Path),
		Copy:               dashboard.CopyFor(role),
	}
}

// Home はロールに応じたダッシュボードのトップを表示する。
// GET /dashboard
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, _ := h.dashboardPage(w, r, "Dashboard", nil)
	h.render(w, http.StatusOK, "dashboard-home", page)
}

// Donations はレストラン向けの寄付一覧を表示する。
// GET /dashboard/donations
func (h *DashboardHandler) Donations(w http.ResponseWriter, r *http.Request) {
	donations, err := h.service.Donations(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	page, _ := h.dashboardPage(w, r, "Donations", web.DonationsView{Donations: donations})
	h.render(w, http.StatusOK, "dashboard-donations", page)
}

// Restaurants はチャリティ向けの提携レストランを検索語で絞り込んで表示する。
// GET /dashboard/restaurants?q=
func (h *DashboardHandler) Restaurants(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	restaurants, err := h.service.Restaurants(r.Context(), query)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	page, _ := h.dashboardPage(w, r, "Restaurants", web.RestaurantsView{
		Query:       query,
		Restaurants: restaurants,
	})
	h.render(w, http.StatusOK, "dashboard-restaurants", page)
}

// Schedule は選択日の受け取り予定を表示する。
// GET /dashboard/schedule?date=YYYY-MM-DD
func (h *DashboardHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Schedule(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	page, role := h.dashboardPage(w, r, "Schedule", nil)
	page.Data = web.ScheduleView{
		ScheduleView: view,
		PreviousURL:  scheduleURL(dashboard.FormatDateParam(view.Previous), role),
		NextURL:      scheduleURL(dashboard.FormatDateParam(view.Next), role),
		TodayURL:     dashboard.WithRole("/dashboard/schedule", role),
	}
	h.render(w, http.StatusOK, "dashboard-schedule", page)
}

// Analytics はロールに応じた分析データを表示する。
// GET /dashboard/analytics?tab=monthly|weekly|yearly
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	tab := dashboard.ParseTab(r.URL.Query().Get("tab"))

	page, role := h.dashboardPage(w, r, "Analytics", nil)
	analytics, err := h.service.Analytics(r.Context(), role)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	page.Data = web.AnalyticsView{
		Tab:       tab,
		Tabs:      tabLinks("/dashboard/analytics", role, tab, analyticsTabs),
		Analytics: analytics,
	}
	h.render(w, http.StatusOK, "dashboard-analytics", page)
}

// serverError はデータ取得の失敗をログに記録し、500を返す。
func (p *pages) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("failed to load page data",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

var analyticsTabs = []web.TabLink{
	{Key: dashboard.TabMonthly, Label: "Monthly"},
	{Key: dashboard.TabWeekly, Label: "Weekly"},
	{Key: dashboard.TabYearly, Label: "Yearly"},
}

// tabLinks はroleクエリを保持したタブのリンクを組み立てる。
func tabLinks(path string, role model.Role, active string, tabs []web.TabLink) []web.TabLink {
	links := make([]web.TabLink, len(tabs))
	for i, t := range tabs {
		t.URL = dashboard.WithRole(path+"?tab="+url.QueryEscape(t.Key), role)
		t.Active = t.Key == active
		links[i] = t
	}
	return links
}

func scheduleURL(date string, role model.Role) string {
	return dashboard.WithRole("/dashboard/schedule?date="+date, role)
}
