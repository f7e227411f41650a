package validation

import (
	"testing"
)

func validSignup() SignupForm {
	return SignupForm{
		OrganizationName: "Fresh Eats",
		ContactName:      "Ann Lee",
		Email:            "ann@fresheats.example",
		Password:         "Secret123",
		ConfirmPassword:  "Secret123",
		Role:             "restaurant",
	}
}

func TestValidateSignup_Valid(t *testing.T) {
	if errs := ValidateSignup(validSignup()); !errs.Valid() {
		t.Errorf("expected valid form, got %v", errs)
	}
}

func TestValidateSignup_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignupForm)
		field  string
		want   string
	}{
		{"組織名が短い", func(f *SignupForm) { f.OrganizationName = "A" }, "organization_name", "Organization name must be at least 2 characters."},
		{"担当者名が空白のみ", func(f *SignupForm) { f.ContactName = "   " }, "contact_name", "Contact name must be at least 2 characters."},
		{"メール形式不正", func(f *SignupForm) { f.Email = "not-an-email" }, "email", msgEmail},
		{"パスワードが短い", func(f *SignupForm) { f.Password, f.ConfirmPassword = "Ab1", "Ab1" }, "password", msgPasswordLength},
		{"大文字なし", func(f *SignupForm) { f.Password, f.ConfirmPassword = "secret123", "secret123" }, "password", msgPasswordUpper},
		{"数字なし", func(f *SignupForm) { f.Password, f.ConfirmPassword = "SecretPass", "SecretPass" }, "password", msgPasswordDigit},
		{"確認用パスワード不一致", func(f *SignupForm) { f.ConfirmPassword = "Secret124" }, "confirm_password", msgPasswordMismatch},
		{"ロール不正", func(f *SignupForm) { f.Role = "admin" }, "role", msgRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validSignup()
			tt.mutate(&f)
			errs := ValidateSignup(f)
			if got := errs.Get(tt.field); got != tt.want {
				t.Errorf("errs[%s] = %q, want %q (all: %v)", tt.field, got, tt.want, errs)
			}
			if len(errs) != 1 {
				t.Errorf("expected exactly 1 error, got %v", errs)
			}
		})
	}
}

func TestValidateContact(t *testing.T) {
	ok := ContactForm{
		Name:    "John Doe",
		Email:   "john@example.com",
		Subject: "Test subject line",
		Message: "This is a sufficiently long test message.",
	}
	if errs := ValidateContact(ok); !errs.Valid() {
		t.Fatalf("expected valid form, got %v", errs)
	}

	missing := ok
	missing.Message = ""
	errs := ValidateContact(missing)
	if !errs.Has("message") || len(errs) != 1 {
		t.Errorf("expected only message error, got %v", errs)
	}

	short := ContactForm{Name: "J", Email: "john@", Subject: "Hi", Message: "short"}
	errs = ValidateContact(short)
	for _, f := range []string{"name", "email", "subject", "message"} {
		if !errs.Has(f) {
			t.Errorf("expected error for %s", f)
		}
	}
}

func TestValidateLogin(t *testing.T) {
	if errs := ValidateLogin("a@example.com", "x"); !errs.Valid() {
		t.Errorf("expected valid, got %v", errs)
	}
	errs := ValidateLogin("", "")
	if !errs.Has("email") || !errs.Has("password") {
		t.Errorf("expected email and password errors, got %v", errs)
	}
}

func TestValidateProfile(t *testing.T) {
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	errs := ValidateProfile(ProfileForm{OrganizationName: "Fresh Eats", ContactName: "A", Bio: string(long)})
	if !errs.Has("contact_name") || !errs.Has("bio") || errs.Has("organization_name") {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidatePasswordChange(t *testing.T) {
	if errs := ValidatePasswordChange(PasswordChangeForm{NewPassword: "NewPass123", ConfirmPassword: "NewPass123"}); !errs.Valid() {
		t.Errorf("expected valid, got %v", errs)
	}
	errs := ValidatePasswordChange(PasswordChangeForm{NewPassword: "NewPass123", ConfirmPassword: "other"})
	if errs.Get("confirm_password") != msgPasswordMismatch {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidatePickupHours(t *testing.T) {
	tests := []struct {
		start, end string
		wantField  string
	}{
		{"09:00", "17:00", ""},
		{"9:00", "17:00", "pickup_start"},
		{"09:00", "24:00", "pickup_end"},
		{"17:00", "09:00", "pickup_end"},
		{"09:00", "09:00", "pickup_end"},
	}
	for _, tt := range tests {
		errs := ValidatePickupHours(tt.start, tt.end)
		if tt.wantField == "" {
			if !errs.Valid() {
				t.Errorf("%s-%s: expected valid, got %v", tt.start, tt.end, errs)
			}
			continue
		}
		if !errs.Has(tt.wantField) {
			t.Errorf("%s-%s: expected error on %s, got %v", tt.start, tt.end, tt.wantField, errs)
		}
	}
}

func TestValidateSignup_TrimsTextFields(t *testing.T) {
	f := validSignup()
	f.OrganizationName = "   A   "
	f.Email = "  ann@fresheats.example  "
	errs := ValidateSignup(f)
	if !errs.Has("organization_name") {
		t.Errorf("expected organization_name error for padded single character, got %v", errs)
	}
	if errs.Has("email") {
		t.Errorf("padded email should be accepted, got %v", errs)
	}
}

func TestValidatePasswordChange_ReportsFirstFailingRule(t *testing.T) {
	errs := ValidatePasswordChange(PasswordChangeForm{NewPassword: "short", ConfirmPassword: "short"})
	if got := errs.Get("new_password"); got != msgPasswordLength {
		t.Errorf("new_password = %q, want %q", got, msgPasswordLength)
	}
	if errs.Has("confirm_password") {
		t.Errorf("matching confirmation should not error, got %v", errs)
	}
}
