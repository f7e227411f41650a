package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func csrfCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == csrfCookieName {
			return c
		}
	}
	return nil
}

// GETリクエストでCookieが発行され、同じトークンがコンテキストに入る
func TestCSRFMiddleware_GET_IssuesCookieAndContextToken(t *testing.T) {
	var ctxToken string
	handler := NewCSRFMiddleware(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxToken = CSRFTokenFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contact", nil))

	cookie := csrfCookieFrom(t, w)
	if cookie == nil {
		t.Fatal("expected csrf cookie to be set")
	}
	if len(cookie.Value) != 64 {
		t.Errorf("token length = %d, want 64", len(cookie.Value))
	}
	if !cookie.HttpOnly {
		t.Error("csrf cookie should be HttpOnly")
	}
	if ctxToken != cookie.Value {
		t.Errorf("context token = %q, want cookie value %q", ctxToken, cookie.Value)
	}
}

// 既存のCookieがある場合は再発行しない
func TestCSRFMiddleware_GET_ReusesExistingCookie(t *testing.T) {
	var ctxToken string
	handler := NewCSRFMiddleware(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxToken = CSRFTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if csrfCookieFrom(t, w) != nil {
		t.Error("cookie should not be re-issued")
	}
	if ctxToken != "existing" {
		t.Errorf("context token = %q, want existing", ctxToken)
	}
}

func TestCSRFMiddleware_POST(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		header     string
		formValue  string
		wantStatus int
	}{
		{name: "form field matches", cookie: "tok", formValue: "tok", wantStatus: http.StatusOK},
		{name: "header matches", cookie: "tok", header: "tok", wantStatus: http.StatusOK},
		{name: "missing cookie", formValue: "tok", wantStatus: http.StatusForbidden},
		{name: "missing submitted token", cookie: "tok", wantStatus: http.StatusForbidden},
		{name: "mismatch", cookie: "tok", formValue: "other", wantStatus: http.StatusForbidden},
		{name: "header mismatch", cookie: "tok", header: "other", formValue: "tok", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCSRFMiddleware(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if CSRFTokenFromContext(r.Context()) != tt.cookie {
					t.Error("context token should equal the cookie token")
				}
				w.WriteHeader(http.StatusOK)
			}))

			form := url.Values{}
			if tt.formValue != "" {
				form.Set(CSRFFieldName, tt.formValue)
			}
			req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrfHeaderName, tt.header)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestIsSafeMethod(t *testing.T) {
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		if !isSafeMethod(m) {
			t.Errorf("%s should be safe", m)
		}
	}
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		if isSafeMethod(m) {
			t.Errorf("%s should not be safe", m)
		}
	}
}
