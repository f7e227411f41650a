// Package contact はお問い合わせフォームの受付を提供する。
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/foodwaste/internal/metrics"
	"github.com/hitoshi/foodwaste/internal/model"
	"github.com/hitoshi/foodwaste/internal/repository"
	"github.com/hitoshi/foodwaste/internal/security"
	"github.com/hitoshi/foodwaste/internal/validation"
)

// 送信結果のメトリクスラベル
const (
	ResultAccepted = "accepted"
	ResultInvalid  = "invalid"
	ResultFailed   = "failed"
)

// Service はお問い合わせの検証と保存を行う。
type Service struct {
	repo      repository.ContactRepository
	sanitizer security.TextSanitizer
	metrics   metrics.MetricsCollector
	now       func() time.Time
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(repo repository.ContactRepository, sanitizer security.TextSanitizer, m metrics.MetricsCollector) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   m,
		now:       time.Now,
	}
}

// Submit はフォームを検証し、有効であればサニタイズして保存する。
// 検証エラーがある場合はリポジトリを呼び出さずにFieldErrorsを返す。
func (s *Service) Submit(ctx context.Context, form validation.ContactForm) (model.FieldErrors, error) {
	if errs := validation.ValidateContact(form); !errs.Valid() {
		s.record(ResultInvalid)
		return errs, nil
	}

	submission := &model.ContactSubmission{
		ID:        uuid.New().String(),
		Name:      s.sanitizer.Sanitize(form.Name),
		Email:     strings.TrimSpace(form.Email),
		Subject:   s.sanitizer.Sanitize(form.Subject),
		Message:   s.sanitizer.Sanitize(form.Message),
		CreatedAt: s.now(),
	}

	// サニタイズで内容が失われた場合は再検証する
	sanitized := validation.ContactForm{
		Name:    submission.Name,
		Email:   submission.Email,
		Subject: submission.Subject,
		Message: submission.Message,
	}
	if errs := validation.ValidateContact(sanitized); !errs.Valid() {
		s.record(ResultInvalid)
		return errs, nil
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		s.record(ResultFailed)
		return nil, fmt.Errorf("failed to save contact submission: %w", err)
	}

	s.record(ResultAccepted)
	slog.Info("contact submission received",
		slog.String("submission_id", submission.ID),
		slog.Int("message_length", len(submission.Message)),
	)
	return nil, nil
}

func (s *Service) record(result string) {
	if s.metrics != nil {
		s.metrics.RecordContactSubmission(result)
	}
}
