package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/foodwaste/internal/dashboard"
	"github.com/hitoshi/foodwaste/internal/web"
)

// PageHandler はマーケティングページと404ページのHTTPハンドラー。
type PageHandler struct {
	*pages
	notFound NotFoundRecorder
}

// NewPageHandler はPageHandlerを生成する。notFoundはnilでもよい。
func NewPageHandler(renderer *web.Renderer, flash *web.FlashStore, authService AuthServiceInterface, notFound NotFoundRecorder) *PageHandler {
	return &PageHandler{
		pages:    &pages{renderer: renderer, flash: flash, auth: authService},
		notFound: notFound,
	}
}

// Home はトップページを表示する。
// GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r, "", h.currentUser(r), web.HomeView{
		Statistics: dashboard.HomeStatistics(),
	})
	h.render(w, http.StatusOK, "home", data)
}

// About は団体紹介ページを表示する。
// GET /about
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "about", h.pageData(w, r, "About", h.currentUser(r), nil))
}

// HowItWorks は利用の流れを表示する。
// GET /how-it-works
func (h *PageHandler) HowItWorks(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "how-it-works", h.pageData(w, r, "How It Works", h.currentUser(r), nil))
}

// NotFound は存在しないパスへのアクセスを記録し、404ページを表示する。
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	slog.Warn("404 Error: User attempted to access non-existent route",
		slog.String("path", r.URL.Path),
	)
	if h.notFound != nil {
		h.notFound.RecordNotFound()
	}
	h.render(w, http.StatusNotFound, "not-found", h.pageData(w, r, "Page Not Found", nil, nil))
}
