// Package validation はフォーム入力のバリデーションを提供する。
// 各関数はフォーム項目名をキーとしたmodel.FieldErrorsを返し、空であれば有効。
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hitoshi/foodwaste/internal/model"
)

var (
	// emailPattern はメールアドレスの形式（local@domain.tld）を判定する。
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// clockPattern は"HH:MM"形式の24時間表記を判定する。
	clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// ユーザー向けメッセージ
const (
	msgEmail            = "Please enter a valid email address."
	msgPasswordLength   = "Password must be at least 8 characters."
	msgPasswordUpper    = "Password must contain at least one uppercase letter."
	msgPasswordDigit    = "Password must contain at least one number."
	msgPasswordMismatch = "Passwords don't match."
	msgRole             = "Please choose restaurant or charity."
	msgRequired         = "This field is required."
	msgClock            = "Please enter a time in HH:MM format."
)

// SignupForm はサインアップフォームの入力値。
type SignupForm struct {
	OrganizationName string
	ContactName      string
	Email            string
	Password         string
	ConfirmPassword  string
	Role             string
}

// ContactForm はお問い合わせフォームの入力値。
type ContactForm struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ProfileForm は設定画面のプロフィールフォームの入力値。
type ProfileForm struct {
	OrganizationName string
	ContactName      string
	Phone            string
	Address          string
	Bio              string
}

// PasswordChangeForm はパスワード変更フォームの入力値。
type PasswordChangeForm struct {
	NewPassword     string
	ConfirmPassword string
}

// ValidateSignup はサインアップフォームを検証する。
func ValidateSignup(f SignupForm) model.FieldErrors {
	return toFieldErrors(ozzo.Errors{
		"organization_name": minLength(f.OrganizationName, 2, "Organization name must be at least 2 characters."),
		"contact_name":      minLength(f.ContactName, 2, "Contact name must be at least 2 characters."),
		"email":             email(f.Email),
		"password":          password(f.Password),
		"confirm_password":  ozzo.Validate(f.ConfirmPassword, equals(f.Password)),
		"role": ozzo.Validate(f.Role,
			ozzo.Required.Error(msgRole),
			ozzo.In(model.RoleRestaurant.String(), model.RoleCharity.String()).Error(msgRole),
		),
	})
}

// ValidateLogin はログインフォームを検証する。
// パスワードの構成規則は適用しない。
func ValidateLogin(emailAddr, pw string) model.FieldErrors {
	return toFieldErrors(ozzo.Errors{
		"email":    email(emailAddr),
		"password": ozzo.Validate(pw, ozzo.Required.Error(msgRequired)),
	})
}

// ValidateContact はお問い合わせフォームを検証する。
func ValidateContact(f ContactForm) model.FieldErrors {
	return toFieldErrors(ozzo.Errors{
		"name":    minLength(f.Name, 2, "Name must be at least 2 characters."),
		"email":   email(f.Email),
		"subject": minLength(f.Subject, 5, "Subject must be at least 5 characters."),
		"message": minLength(f.Message, 10, "Message must be at least 10 characters."),
	})
}

// ValidateProfile は設定画面のプロフィールフォームを検証する。
func ValidateProfile(f ProfileForm) model.FieldErrors {
	return toFieldErrors(ozzo.Errors{
		"organization_name": minLength(f.OrganizationName, 2, "Organization name must be at least 2 characters."),
		"contact_name":      minLength(f.ContactName, 2, "Contact name must be at least 2 characters."),
		"bio":               ozzo.Validate(f.Bio, ozzo.RuneLength(0, 500).Error("Bio must be 500 characters or fewer.")),
	})
}

// ValidatePasswordChange はパスワード変更フォームを検証する。
func ValidatePasswordChange(f PasswordChangeForm) model.FieldErrors {
	return toFieldErrors(ozzo.Errors{
		"new_password":     password(f.NewPassword),
		"confirm_password": ozzo.Validate(f.ConfirmPassword, equals(f.NewPassword)),
	})
}

// ValidatePickupHours は受け取り可能時間帯（HH:MM）を検証する。
// 終了時刻は開始時刻より後でなければならない。
func ValidatePickupHours(start, end string) model.FieldErrors {
	errs := toFieldErrors(ozzo.Errors{
		"pickup_start": clock(start),
		"pickup_end":   clock(end),
	})
	if errs.Valid() && end <= start {
		errs.Add("pickup_end", "End time must be after start time.")
	}
	return errs
}

// toFieldErrors はozzo-validationのエラーをフォーム項目ごとのメッセージに変換する。
func toFieldErrors(errs ozzo.Errors) model.FieldErrors {
	fe := model.FieldErrors{}
	for field, err := range errs {
		if err != nil {
			fe.Add(field, err.Error())
		}
	}
	return fe
}

// minLength は前後の空白を除いた文字数がn以上かを検証する。
func minLength(value string, n int, msg string) error {
	return ozzo.Validate(strings.TrimSpace(value),
		ozzo.Required.Error(msg),
		ozzo.RuneLength(n, 0).Error(msg),
	)
}

func email(value string) error {
	return ozzo.Validate(strings.TrimSpace(value),
		ozzo.Required.Error(msgEmail),
		ozzo.Match(emailPattern).Error(msgEmail),
	)
}

func password(pw string) error {
	return ozzo.Validate(pw,
		ozzo.Required.Error(msgPasswordLength),
		ozzo.RuneLength(8, 0).Error(msgPasswordLength),
		contains(unicode.IsUpper, msgPasswordUpper),
		contains(unicode.IsDigit, msgPasswordDigit),
	)
}

func clock(value string) error {
	return ozzo.Validate(value,
		ozzo.Required.Error(msgClock),
		ozzo.Match(clockPattern).Error(msgClock),
	)
}

// contains は文字列にfを満たす文字が含まれることを要求するルールを返す。
func contains(f func(rune) bool, msg string) ozzo.Rule {
	return ozzo.By(func(value interface{}) error {
		s, _ := value.(string)
		if !strings.ContainsFunc(s, f) {
			return errors.New(msg)
		}
		return nil
	})
}

// equals は確認用入力が元の値と一致することを要求するルールを返す。
func equals(original string) ozzo.Rule {
	return ozzo.By(func(value interface{}) error {
		s, _ := value.(string)
		if s != original {
			return errors.New(msgPasswordMismatch)
		}
		return nil
	})
}
