package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/foodwaste/internal/auth"
	"github.com/hitoshi/foodwaste/internal/dashboard"
	"github.com/hitoshi/foodwaste/internal/middleware"
	"github.com/hitoshi/foodwaste/internal/model"
	"github.com/hitoshi/foodwaste/internal/security"
	"github.com/hitoshi/foodwaste/internal/validation"
	"github.com/hitoshi/foodwaste/internal/web"
)

// 設定画面のタブ
const (
	settingsTabProfile       = "profile"
	settingsTabNotifications = "notifications"
	settingsTabPassword      = "password"
	settingsTabPickup        = "pickup"
)

// SettingsHandler は設定画面のHTTPハンドラー。
// 閲覧は未ログインでも可能だが、保存はログイン必須。
type SettingsHandler struct {
	*pages
	profiles  ProfileUpdater
	sanitizer security.TextSanitizer
}

// NewSettingsHandler はSettingsHandlerを生成する。
func NewSettingsHandler(
	renderer *web.Renderer,
	flash *web.FlashStore,
	authService AuthServiceInterface,
	profiles ProfileUpdater,
	sanitizer security.TextSanitizer,
) *SettingsHandler {
	return &SettingsHandler{
		pages:     &pages{renderer: renderer, flash: flash, auth: authService},
		profiles:  profiles,
		sanitizer: sanitizer,
	}
}

// Show は設定画面を表示する。
// GET /dashboard/settings?tab=profile|notifications|password|pickup
func (h *SettingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.renderSettings(w, r, http.StatusOK, r.URL.Query().Get("tab"), web.NewForm())
}

// UpdateProfile はプロフィール項目を更新する。
// POST /dashboard/settings/profile
func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	input := validation.ProfileForm{
		OrganizationName: h.sanitizer.Sanitize(r.PostFormValue("organization_name")),
		ContactName:      h.sanitizer.Sanitize(r.PostFormValue("contact_name")),
		Phone:            h.sanitizer.Sanitize(r.PostFormValue("phone")),
		Address:          h.sanitizer.Sanitize(r.PostFormValue("address")),
		Bio:              h.sanitizer.Sanitize(r.PostFormValue("bio")),
	}
	if errs := validation.ValidateProfile(input); !errs.Valid() {
		form := web.Form{
			Values: formValues(r, "organization_name", "contact_name", "phone", "address", "bio"),
			Errors: errs,
		}
		h.renderSettings(w, r, http.StatusUnprocessableEntity, settingsTabProfile, form)
		return
	}

	updated := *user
	updated.OrganizationName = input.OrganizationName
	updated.ContactName = input.ContactName
	updated.Phone = input.Phone
	updated.Address = input.Address
	updated.Bio = input.Bio
	if err := h.profiles.UpdateProfile(r.Context(), &updated); err != nil {
		h.saveFailed(w, r, settingsTabProfile, user.Role, err)
		return
	}

	slog.Info("profile updated", slog.String("user_id", user.ID))
	h.redirectWithToast(w, r, settingsURL(settingsTabProfile, user.Role), web.Toast{
		Title:       "Profile updated",
		Description: "Your profile information has been updated successfully.",
	})
}

// UpdateNotifications は通知設定を更新する。
// POST /dashboard/settings/notifications
func (h *SettingsHandler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	settings := model.NotificationSettings{
		Email: r.PostFormValue("notify_email") == "on",
		Push:  r.PostFormValue("notify_push") == "on",
		SMS:   r.PostFormValue("notify_sms") == "on",
	}
	if err := h.profiles.UpdateNotifications(r.Context(), user.ID, settings); err != nil {
		h.saveFailed(w, r, settingsTabNotifications, user.Role, err)
		return
	}

	h.redirectWithToast(w, r, settingsURL(settingsTabNotifications, user.Role), web.Toast{
		Title:       "Notification preferences updated",
		Description: "Your notification settings have been saved.",
	})
}

// UpdatePassword はIdPのパスワードを変更する。
// POST /dashboard/settings/password
func (h *SettingsHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	input := validation.PasswordChangeForm{
		NewPassword:     r.PostFormValue("new_password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	if errs := validation.ValidatePasswordChange(input); !errs.Valid() {
		h.renderSettings(w, r, http.StatusUnprocessableEntity, settingsTabPassword, web.Form{Errors: errs})
		return
	}

	err := h.auth.UpdatePassword(r.Context(), middleware.SessionIDFromContext(r.Context()), input.NewPassword)
	if errors.Is(err, auth.ErrNotSignedIn) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Warn("password update failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		h.redirectWithToast(w, r, settingsURL(settingsTabPassword, user.Role),
			errorToast("Password not updated", err, "We couldn't update your password. Please try again."))
		return
	}

	h.redirectWithToast(w, r, settingsURL(settingsTabPassword, user.Role), web.Toast{
		Title:       "Password updated",
		Description: "Your password has been changed successfully.",
	})
}

// UpdatePickupHours は受け取り可能時間帯を更新する。レストランのみ利用できる。
// POST /dashboard/settings/pickup
func (h *SettingsHandler) UpdatePickupHours(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	if user.Role != model.RoleRestaurant {
		h.redirectWithToast(w, r, settingsURL(settingsTabProfile, user.Role), web.Toast{
			Title:       "Not available",
			Description: "Pickup hours can only be set by restaurants.",
			Variant:     web.ToastDestructive,
		})
		return
	}

	hours := model.PickupHours{
		Start: r.PostFormValue("pickup_start"),
		End:   r.PostFormValue("pickup_end"),
	}
	if errs := validation.ValidatePickupHours(hours.Start, hours.End); !errs.Valid() {
		form := web.Form{Values: formValues(r, "pickup_start", "pickup_end"), Errors: errs}
		h.renderSettings(w, r, http.StatusUnprocessableEntity, settingsTabPickup, form)
		return
	}

	if err := h.profiles.UpdatePickupHours(r.Context(), user.ID, hours); err != nil {
		h.saveFailed(w, r, settingsTabPickup, user.Role, err)
		return
	}

	h.redirectWithToast(w, r, settingsURL(settingsTabPickup, user.Role), web.Toast{
		Title:       "Pickup hours updated",
		Description: "Charities will see your new pickup window.",
	})
}

// renderSettings は設定画面を描画する。
// 未ログインの場合はロールに応じたサンプルのプロフィールを表示する。
func (h *SettingsHandler) renderSettings(w http.ResponseWriter, r *http.Request, status int, tab string, form web.Form) {
	page, role := h.dashboardPage(w, r, "Settings", nil)

	view := web.SettingsView{
		ShowPickup: role == model.RoleRestaurant,
		Form:       form,
	}
	if page.User != nil {
		view.Profile = *page.User
		view.SignedIn = true
	} else {
		view.Profile = dashboard.SampleProfile(role)
	}

	view.Tab = parseSettingsTab(tab, view.ShowPickup)
	tabs := []web.TabLink{
		{Key: settingsTabProfile, Label: "Profile"},
		{Key: settingsTabNotifications, Label: "Notifications"},
		{Key: settingsTabPassword, Label: "Password"},
	}
	if view.ShowPickup {
		tabs = append(tabs, web.TabLink{Key: settingsTabPickup, Label: "Pickup Hours"})
	}
	view.Tabs = tabLinks("/dashboard/settings", role, view.Tab, tabs)

	page.Data = view
	h.render(w, status, "dashboard-settings", page)
}

// requireUser はログイン中のユーザーを返す。
// セッションのトークンが無効になっている場合はログイン画面へリダイレクトしてnilを返す。
func (h *SettingsHandler) requireUser(w http.ResponseWriter, r *http.Request) *model.UserProfile {
	user := h.currentUser(r)
	if user == nil {
		h.redirectWithToast(w, r, "/login", web.Toast{
			Title:       "Session expired",
			Description: "Please log in again to save your settings.",
			Variant:     web.ToastDestructive,
		})
	}
	return user
}

func (h *SettingsHandler) saveFailed(w http.ResponseWriter, r *http.Request, tab string, role model.Role, err error) {
	slog.Error("failed to save settings",
		slog.String("tab", tab),
		slog.String("error", err.Error()),
	)
	h.redirectWithToast(w, r, settingsURL(tab, role), web.Toast{
		Title:       "Something went wrong",
		Description: "Your changes could not be saved. Please try again.",
		Variant:     web.ToastDestructive,
	})
}

// parseSettingsTab はtabクエリを解釈する。未知の値と利用できないタブはprofileとして扱う。
func parseSettingsTab(tab string, showPickup bool) string {
	switch tab {
	case settingsTabNotifications, settingsTabPassword:
		return tab
	case settingsTabPickup:
		if showPickup {
			return tab
		}
	}
	return settingsTabProfile
}

func settingsURL(tab string, role model.Role) string {
	return dashboard.WithRole("/dashboard/settings?tab="+tab, role)
}
