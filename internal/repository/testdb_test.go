package repository

import (
	"database/sql"
	"os"
	"testing"

	"github.com/hitoshi/foodwaste/internal/database"
)

// openTestDB はマイグレーション済みのテスト用DBを開く。
// TEST_DATABASE_URLが未設定、または接続できない場合はスキップする。
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	db, err := database.Open(url)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("テスト用データベースに接続できません（スキップ）: %v", err)
	}
	if err := database.RunMigrations(url); err != nil {
		db.Close()
		t.Fatalf("マイグレーション実行に失敗: %v", err)
	}
	return db
}
