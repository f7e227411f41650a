package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/foodwaste/internal/validation"
	"github.com/hitoshi/foodwaste/internal/web"
)

// ContactHandler はお問い合わせページのHTTPハンドラー。
type ContactHandler struct {
	*pages
	service ContactServiceInterface
}

// NewContactHandler はContactHandlerを生成する。
func NewContactHandler(renderer *web.Renderer, flash *web.FlashStore, authService AuthServiceInterface, service ContactServiceInterface) *ContactHandler {
	return &ContactHandler{
		pages:   &pages{renderer: renderer, flash: flash, auth: authService},
		service: service,
	}
}

// Show はお問い合わせフォームを表示する。
// GET /contact
func (h *ContactHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "contact", h.pageData(w, r, "Contact", h.currentUser(r), web.NewForm()))
}

// Submit はお問い合わせを保存し、完了トーストを表示する。
// 入力エラーの場合は入力値を保持したままフォームを再表示する。
// POST /contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	input := validation.ContactForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}
	form := web.Form{Values: formValues(r, "name", "email", "subject", "message")}

	fieldErrs, err := h.service.Submit(r.Context(), input)
	if err != nil {
		slog.Error("failed to submit contact form", slog.String("error", err.Error()))
		form.Errors = nil
		data := h.pageData(w, r, "Contact", h.currentUser(r), form)
		data.Toasts = append(data.Toasts, web.Toast{
			Title:       "Something went wrong",
			Description: "We couldn't send your message. Please try again later.",
			Variant:     web.ToastDestructive,
		})
		h.render(w, http.StatusInternalServerError, "contact", data)
		return
	}
	if !fieldErrs.Valid() {
		form.Errors = fieldErrs
		h.render(w, http.StatusUnprocessableEntity, "contact", h.pageData(w, r, "Contact", h.currentUser(r), form))
		return
	}

	h.redirectWithToast(w, r, "/contact", web.Toast{
		Title:       "Message Sent!",
		Description: "Thank you for reaching out. We'll get back to you soon!",
	})
}
