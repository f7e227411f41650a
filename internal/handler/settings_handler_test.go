package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/hitoshi/foodwaste/internal/auth"
	"github.com/hitoshi/foodwaste/internal/model"
)

func restaurantUser() *model.UserProfile {
	return &model.UserProfile{
		ID:               "user-1",
		Email:            "owner@fresh.example",
		OrganizationName: "Fresh Eats",
		ContactName:      "Sam Lee",
		Role:             model.RoleRestaurant,
		PickupHours:      model.PickupHours{Start: "10:00", End: "18:00"},
	}
}

func TestSettingsHandler_ShowAnonymousSample(t *testing.T) {
	tests := []struct {
		role     string
		wantOrg  string
		pickupOK bool
	}{
		{"restaurant", "Fresh Eats Restaurant", true},
		{"charity", "Hope Community Kitchen", false},
	}

	env := newTestEnv(t)
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			w := env.get("/dashboard/settings?role=" + tt.role)
			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			body := w.Body.String()
			assertContains(t, body, tt.wantOrg)
			assertContains(t, body, "You are viewing sample settings.")
			assertContains(t, body, " disabled>Save Changes")
			hasPickup := containsText(body, "Pickup Hours")
			if hasPickup != tt.pickupOK {
				t.Errorf("pickup tab shown = %v, want %v", hasPickup, tt.pickupOK)
			}
		})
	}
}

func TestSettingsHandler_ShowSignedIn(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(restaurantUser())

	w := env.get("/dashboard/settings?tab=pickup", sessionCookie())

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	assertContains(t, body, `value="10:00"`)
	if containsText(body, "You are viewing sample settings.") {
		t.Error("signed-in user should not see the sample notice")
	}
}

func TestSettingsHandler_SaveRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	called := false
	env.profiles.updateProfileFn = func(ctx context.Context, profile *model.UserProfile) error {
		called = true
		return nil
	}

	w := env.postForm("/dashboard/settings/profile", url.Values{"organization_name": {"Fresh Eats"}})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
	if called {
		t.Error("UpdateProfile should not be called without a session")
	}
}

func TestSettingsHandler_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(restaurantUser())
	var saved *model.UserProfile
	env.profiles.updateProfileFn = func(ctx context.Context, profile *model.UserProfile) error {
		saved = profile
		return nil
	}

	w := env.postForm("/dashboard/settings/profile", url.Values{
		"organization_name": {"Fresh Eats Downtown"},
		"contact_name":      {"Sam Lee"},
		"phone":             {"555-0100"},
		"address":           {"1 Market St"},
		"bio":               {"<b>Local</b> food<script>alert(1)</script>"},
	}, sessionCookie())

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", w.Code)
	}
	if saved == nil {
		t.Fatal("expected UpdateProfile to be called")
	}
	if saved.ID != "user-1" || saved.OrganizationName != "Fresh Eats Downtown" {
		t.Errorf("unexpected saved profile: %+v", saved)
	}
	if saved.Bio != "Local food" {
		t.Errorf("expected sanitized bio %q, got %q", "Local food", saved.Bio)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard/settings?role=restaurant&tab=profile" {
		t.Errorf("unexpected redirect %q", loc)
	}
}

func TestSettingsHandler_UpdateProfileValidationError(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(restaurantUser())

	w := env.postForm("/dashboard/settings/profile", url.Values{
		"organization_name": {"F"},
		"contact_name":      {"Sam Lee"},
	}, sessionCookie())

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}
	assertContains(t, w.Body.String(), "Organization name must be at least 2 characters.")
}

func TestSettingsHandler_UpdateProfileStoreError(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(restaurantUser())
	env.profiles.updateProfileFn = func(ctx context.Context, profile *model.UserProfile) error {
		return errors.New("db down")
	}

	w := env.postForm("/dashboard/settings/profile", url.Values{
		"organization_name": {"Fresh Eats"},
		"contact_name":      {"Sam Lee"},
	}, sessionCookie())

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", w.Code)
	}
	assertContains(t, env.followToasts(t, w), "Something went wrong")
}

func TestSettingsHandler_UpdateNotifications(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(restaurantUser())
	var got model.NotificationSettings
	env.profiles.updateNotificationsFn = func(ctx context.Context, userID string, s model.NotificationSettings) error {
		got = s
		return nil
	}

	w := env.postForm("/dashboard/settings/notifications", url.Values{
		"notify_email": {"on"},
		"notify_sms":   {"on"},
	}, sessionCookie())

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", w.Code)
	}
	want := model.NotificationSettings{Email: true, Push: false, SMS: true}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSettingsHandler_UpdatePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(restaurantUser())
		var gotSession, gotPassword string
		env.auth.updatePasswordFn = func(ctx context.Context, sessionID, newPassword string) error {
			gotSession, gotPassword = sessionID, newPassword
			return nil
		}

		w := env.postForm("/dashboard/settings/password", url.Values{
			"new_password":     {"NewPassword1"},
			"confirm_password": {"NewPassword1"},
		}, sessionCookie())

		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected status 303, got %d", w.Code)
		}
		if gotSession != testSessionID || gotPassword != "NewPassword1" {
			t.Errorf("unexpected UpdatePassword args: %q, %q", gotSession, gotPassword)
		}
		assertContains(t, env.followToasts(t, w), "Password updated")
	})

	t.Run("mismatch", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(restaurantUser())

		w := env.postForm("/dashboard/settings/password", url.Values{
			"new_password":     {"NewPassword1"},
			"confirm_password": {"NewPassword2"},
		}, sessionCookie())

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", w.Code)
		}
	})

	t.Run("token no longer valid", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(restaurantUser())
		env.auth.updatePasswordFn = func(ctx context.Context, sessionID, newPassword string) error {
			return auth.ErrNotSignedIn
		}

		w := env.postForm("/dashboard/settings/password", url.Values{
			"new_password":     {"NewPassword1"},
			"confirm_password": {"NewPassword1"},
		}, sessionCookie())

		if loc := w.Header().Get("Location"); loc != "/login" {
			t.Errorf("expected redirect to /login, got %q", loc)
		}
	})
}

func TestSettingsHandler_UpdatePickupHours(t *testing.T) {
	t.Run("restaurant", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(restaurantUser())
		var got model.PickupHours
		env.profiles.updatePickupHoursFn = func(ctx context.Context, userID string, h model.PickupHours) error {
			got = h
			return nil
		}

		w := env.postForm("/dashboard/settings/pickup", url.Values{
			"pickup_start": {"08:30"},
			"pickup_end":   {"16:00"},
		}, sessionCookie())

		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected status 303, got %d", w.Code)
		}
		if got != (model.PickupHours{Start: "08:30", End: "16:00"}) {
			t.Errorf("unexpected pickup hours: %+v", got)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(restaurantUser())

		w := env.postForm("/dashboard/settings/pickup", url.Values{
			"pickup_start": {"16:00"},
			"pickup_end":   {"08:30"},
		}, sessionCookie())

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", w.Code)
		}
		assertContains(t, w.Body.String(), "End time must be after start time.")
	})

	t.Run("charity is refused", func(t *testing.T) {
		env := newTestEnv(t)
		charity := restaurantUser()
		charity.Role = model.RoleCharity
		env.signIn(charity)
		called := false
		env.profiles.updatePickupHoursFn = func(ctx context.Context, userID string, h model.PickupHours) error {
			called = true
			return nil
		}

		w := env.postForm("/dashboard/settings/pickup", url.Values{
			"pickup_start": {"08:30"},
			"pickup_end":   {"16:00"},
		}, sessionCookie())

		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected status 303, got %d", w.Code)
		}
		if called {
			t.Error("UpdatePickupHours should not be called for a charity")
		}
		assertContains(t, env.followToasts(t, w), "Pickup hours can only be set by restaurants.")
	})
}
