package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/foodwaste/internal/auth"
	"github.com/hitoshi/foodwaste/internal/dashboard"
	"github.com/hitoshi/foodwaste/internal/middleware"
	"github.com/hitoshi/foodwaste/internal/model"
	"github.com/hitoshi/foodwaste/internal/security"
	"github.com/hitoshi/foodwaste/internal/validation"
	"github.com/hitoshi/foodwaste/internal/web"
)

// --- モック定義 ---

type mockAuthService struct {
	signUpFn         func(ctx context.Context, in auth.SignUpInput) (*auth.Result, error)
	signInFn         func(ctx context.Context, email, password string) (*auth.Result, error)
	signOutFn        func(ctx context.Context, sessionID string) error
	currentUserFn    func(ctx context.Context, sessionID string) (*model.UserProfile, error)
	updatePasswordFn func(ctx context.Context, sessionID, newPassword string) error
}

func (m *mockAuthService) SignUp(ctx context.Context, in auth.SignUpInput) (*auth.Result, error) {
	if m.signUpFn != nil {
		return m.signUpFn(ctx, in)
	}
	return nil, nil
}

func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (*auth.Result, error) {
	if m.signInFn != nil {
		return m.signInFn(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthService) SignOut(ctx context.Context, sessionID string) error {
	if m.signOutFn != nil {
		return m.signOutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) CurrentUser(ctx context.Context, sessionID string) (*model.UserProfile, error) {
	if m.currentUserFn != nil {
		return m.currentUserFn(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockAuthService) UpdatePassword(ctx context.Context, sessionID, newPassword string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, sessionID, newPassword)
	}
	return nil
}

type mockContactService struct {
	submitFn func(ctx context.Context, form validation.ContactForm) (model.FieldErrors, error)
}

func (m *mockContactService) Submit(ctx context.Context, form validation.ContactForm) (model.FieldErrors, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, form)
	}
	return nil, nil
}

type mockDashboardService struct {
	scheduleFn    func(ctx context.Context, dateParam string) (*dashboard.ScheduleView, error)
	donationsFn   func(ctx context.Context) ([]model.DonationRecord, error)
	restaurantsFn func(ctx context.Context, query string) ([]model.PartnerRestaurant, error)
	analyticsFn   func(ctx context.Context, role model.Role) (*dashboard.Analytics, error)
}

func (m *mockDashboardService) Schedule(ctx context.Context, dateParam string) (*dashboard.ScheduleView, error) {
	if m.scheduleFn != nil {
		return m.scheduleFn(ctx, dateParam)
	}
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &dashboard.ScheduleView{Selected: day, Previous: day.AddDate(0, 0, -1), Next: day.AddDate(0, 0, 1)}, nil
}

func (m *mockDashboardService) Donations(ctx context.Context) ([]model.DonationRecord, error) {
	if m.donationsFn != nil {
		return m.donationsFn(ctx)
	}
	return nil, nil
}

func (m *mockDashboardService) Restaurants(ctx context.Context, query string) ([]model.PartnerRestaurant, error) {
	if m.restaurantsFn != nil {
		return m.restaurantsFn(ctx, query)
	}
	return nil, nil
}

func (m *mockDashboardService) Analytics(ctx context.Context, role model.Role) (*dashboard.Analytics, error) {
	if m.analyticsFn != nil {
		return m.analyticsFn(ctx, role)
	}
	return dashboard.StaticAnalytics{}.Analytics(ctx, role)
}

type mockProfileUpdater struct {
	updateProfileFn       func(ctx context.Context, profile *model.UserProfile) error
	updateNotificationsFn func(ctx context.Context, userID string, s model.NotificationSettings) error
	updatePickupHoursFn   func(ctx context.Context, userID string, h model.PickupHours) error
}

func (m *mockProfileUpdater) UpdateProfile(ctx context.Context, profile *model.UserProfile) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, profile)
	}
	return nil
}

func (m *mockProfileUpdater) UpdateNotifications(ctx context.Context, userID string, s model.NotificationSettings) error {
	if m.updateNotificationsFn != nil {
		return m.updateNotificationsFn(ctx, userID, s)
	}
	return nil
}

func (m *mockProfileUpdater) UpdatePickupHours(ctx context.Context, userID string, h model.PickupHours) error {
	if m.updatePickupHoursFn != nil {
		return m.updatePickupHoursFn(ctx, userID, h)
	}
	return nil
}

type mockSessionFinder struct {
	sessions map[string]*model.Session
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.sessions[id], nil
}

type mockNotFoundRecorder struct {
	count int
}

func (m *mockNotFoundRecorder) RecordNotFound() {
	m.count++
}

type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.err
}

// --- テストヘルパー ---

const (
	testSessionID = "sess-1"
	testCSRFToken = "csrf-test-token"
)

// testEnv はテスト用のルーターと差し替え可能な依存関係。
type testEnv struct {
	auth      *mockAuthService
	contact   *mockContactService
	dashboard *mockDashboardService
	profiles  *mockProfileUpdater
	notFound  *mockNotFoundRecorder
	db        *mockPinger
	router    http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer returned error: %v", err)
	}

	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		FormsRate:       middleware.PerMinute(600),
		FormsBurst:      100,
		AuthRate:        middleware.PerMinute(600),
		AuthBurst:       100,
		CleanupInterval: time.Minute,
	}, nil)
	t.Cleanup(rl.Stop)

	env := &testEnv{
		auth:      &mockAuthService{},
		contact:   &mockContactService{},
		dashboard: &mockDashboardService{},
		profiles:  &mockProfileUpdater{},
		notFound:  &mockNotFoundRecorder{},
		db:        &mockPinger{},
	}
	env.router = NewRouter(&RouterDeps{
		SessionFinder: &mockSessionFinder{sessions: map[string]*model.Session{
			testSessionID: {ID: testSessionID, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)},
		}},
		RateLimiter:      rl,
		Renderer:         renderer,
		Flash:            web.NewFlashStore("test-secret", false, ""),
		AuthService:      env.auth,
		Cookies:          CookieConfig{MaxAge: 3600},
		ContactService:   env.contact,
		DashboardService: env.dashboard,
		Profiles:         env.profiles,
		Sanitizer:        security.NewTextSanitizer(),
		NotFound:         env.notFound,
		DB:               env.db,
	})
	return env
}

// signIn はCurrentUserが指定プロフィールを返すようにする。
func (e *testEnv) signIn(profile *model.UserProfile) {
	e.auth.currentUserFn = func(ctx context.Context, sessionID string) (*model.UserProfile, error) {
		if sessionID == testSessionID {
			return profile, nil
		}
		return nil, nil
	}
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// postForm はCSRFトークン付きでフォームを送信する。
func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set(middleware.CSRFFieldName, testCSRFToken)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: testCSRFToken})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func sessionCookie() *http.Cookie {
	return &http.Cookie{Name: middleware.SessionCookieName, Value: testSessionID}
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// followToasts はリダイレクト先を取得し、トーストが描画された本文を返す。
func (e *testEnv) followToasts(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	loc := w.Header().Get("Location")
	if loc == "" {
		t.Fatal("expected Location header")
	}
	next := e.get(loc, w.Result().Cookies()...)
	return next.Body.String()
}

func containsText(body, want string) bool {
	return strings.Contains(body, want)
}

func assertContains(t *testing.T, body, want string) {
	t.Helper()
	if !containsText(body, want) {
		t.Errorf("body does not contain %q", want)
	}
}
