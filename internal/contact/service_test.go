package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/foodwaste/internal/model"
	"github.com/hitoshi/foodwaste/internal/security"
	"github.com/hitoshi/foodwaste/internal/validation"
)

// --- モック定義 ---

type mockContactRepo struct {
	createFn func(ctx context.Context, s *model.ContactSubmission) error
	calls    int
}

func (m *mockContactRepo) Create(ctx context.Context, s *model.ContactSubmission) error {
	m.calls++
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	return nil
}

func (m *mockContactRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type mockMetrics struct {
	results []string
}

func (m *mockMetrics) RecordContactSubmission(result string)       { m.results = append(m.results, result) }
func (m *mockMetrics) RecordAuthEvent(string)                      {}
func (m *mockMetrics) RecordNotFound()                             {}
func (m *mockMetrics) RecordRateLimited(string)                    {}
func (m *mockMetrics) RecordHTTPStatus(int)                        {}
func (m *mockMetrics) RecordIdentityLatency(string, time.Duration) {}
func (m *mockMetrics) RecordCleanup(string, int64)                 {}

func validForm() validation.ContactForm {
	return validation.ContactForm{
		Name:    "John Doe",
		Email:   "john@example.com",
		Subject: "Test subject line",
		Message: "This is a sufficiently long test message.",
	}
}

func TestSubmit_Success(t *testing.T) {
	var saved *model.ContactSubmission
	repo := &mockContactRepo{createFn: func(_ context.Context, s *model.ContactSubmission) error {
		saved = s
		return nil
	}}
	m := &mockMetrics{}
	svc := NewService(repo, security.NewTextSanitizer(), m)

	errs, err := svc.Submit(context.Background(), validForm())
	if err != nil || errs != nil {
		t.Fatalf("Submit = %v, %v", errs, err)
	}
	if saved == nil || saved.ID == "" || saved.Name != "John Doe" {
		t.Errorf("saved = %+v", saved)
	}
	if len(m.results) != 1 || m.results[0] != ResultAccepted {
		t.Errorf("metrics = %v", m.results)
	}
}

// メッセージ未入力の場合はリポジトリを呼び出さない
func TestSubmit_MissingMessageSkipsRepository(t *testing.T) {
	repo := &mockContactRepo{}
	m := &mockMetrics{}
	svc := NewService(repo, security.NewTextSanitizer(), m)

	form := validForm()
	form.Message = ""
	errs, err := svc.Submit(context.Background(), form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errs.Has("message") {
		t.Errorf("expected message error, got %v", errs)
	}
	if repo.calls != 0 {
		t.Errorf("repository called %d times, want 0", repo.calls)
	}
	if len(m.results) != 1 || m.results[0] != ResultInvalid {
		t.Errorf("metrics = %v", m.results)
	}
}

// HTMLのみのメッセージはサニタイズ後に再検証で弾かれる
func TestSubmit_MarkupOnlyMessageRejected(t *testing.T) {
	repo := &mockContactRepo{}
	svc := NewService(repo, security.NewTextSanitizer(), nil)

	form := validForm()
	form.Message = "<script>alert('sufficiently long')</script>"
	errs, err := svc.Submit(context.Background(), form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errs.Has("message") || repo.calls != 0 {
		t.Errorf("errs = %v, calls = %d", errs, repo.calls)
	}
}

func TestSubmit_RepositoryError(t *testing.T) {
	repo := &mockContactRepo{createFn: func(context.Context, *model.ContactSubmission) error {
		return errors.New("connection refused")
	}}
	m := &mockMetrics{}
	svc := NewService(repo, security.NewTextSanitizer(), m)

	if _, err := svc.Submit(context.Background(), validForm()); err == nil {
		t.Fatal("expected error")
	}
	if len(m.results) != 1 || m.results[0] != ResultFailed {
		t.Errorf("metrics = %v", m.results)
	}
}
