// Package cleanup は期限切れデータの定期削除ジョブを提供する。
// 期限切れのログインセッションと、保持期間（デフォルト365日）を超えた
// お問い合わせ送信内容を対象とする。
package cleanup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// 削除対象。メトリクスのラベルとログに使用する。
const (
	TargetSessions = "sessions"
	TargetContacts = "contact_submissions"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ContactPurger は保持期間を超えたお問い合わせを削除する。
// repository.ContactRepositoryが満たす。
type ContactPurger interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// Recorder は削除件数を記録する。
type Recorder interface {
	RecordCleanup(target string, deleted int64)
}

// CleanupJob は期限切れデータの削除ジョブ。
// 削除は冪等で、対象がない場合もエラーにならない。
type CleanupJob struct {
	db            Executor
	contacts      ContactPurger
	recorder      Recorder
	logger        *slog.Logger
	now           func() time.Time
	RetentionDays int // お問い合わせの保持日数（デフォルト: 365）。0以下なら削除しない
}

// NewCleanupJob は新しいCleanupJobを生成する。
// contactsとrecorderはnilでもよい。
func NewCleanupJob(db Executor, contacts ContactPurger, recorder Recorder, logger *slog.Logger) *CleanupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupJob{
		db:            db,
		contacts:      contacts,
		recorder:      recorder,
		logger:        logger,
		now:           time.Now,
		RetentionDays: 365,
	}
}

// Run はすべての削除対象を処理する。
// 一方が失敗してももう一方は実行し、発生したエラーをまとめて返す。
func (j *CleanupJob) Run(ctx context.Context) error {
	return errors.Join(j.purgeSessions(ctx), j.purgeContacts(ctx))
}

// Start はintervalごとにRunを実行する。起動直後にも1回実行する。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("cleanup scheduler started",
		slog.Duration("interval", interval),
		slog.Int("retention_days", j.RetentionDays),
	)

	j.runLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			j.logger.Info("cleanup scheduler stopped")
			return
		case <-ticker.C:
			j.runLogged(ctx)
		}
	}
}

func (j *CleanupJob) runLogged(ctx context.Context) {
	if err := j.Run(ctx); err != nil {
		j.logger.Error("cleanup cycle failed", slog.String("error", err.Error()))
	}
}

// purgeSessions は期限切れのセッションを削除する。
func (j *CleanupJob) purgeSessions(ctx context.Context) error {
	start := time.Now()

	result, err := j.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, j.now())
	if err != nil {
		j.logger.Error("session cleanup failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	j.record(TargetSessions, deleted, time.Since(start))
	return nil
}

// purgeContacts は保持期間を超えたお問い合わせを削除する。
func (j *CleanupJob) purgeContacts(ctx context.Context) error {
	if j.contacts == nil || j.RetentionDays <= 0 {
		return nil
	}
	start := time.Now()

	before := j.now().AddDate(0, 0, -j.RetentionDays)
	deleted, err := j.contacts.DeleteOlderThan(ctx, before)
	if err != nil {
		j.logger.Error("contact cleanup failed",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return fmt.Errorf("failed to delete old contact submissions: %w", err)
	}

	j.record(TargetContacts, deleted, time.Since(start))
	return nil
}

func (j *CleanupJob) record(target string, deleted int64, duration time.Duration) {
	if j.recorder != nil {
		j.recorder.RecordCleanup(target, deleted)
	}
	j.logger.Info("cleanup completed",
		slog.String("target", target),
		slog.Int64("deleted_count", deleted),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)
}
