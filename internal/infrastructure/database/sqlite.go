package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteClient レビュー・出品詳細用のローカルSQLiteデータベース
type SQLiteClient struct {
	DB *sql.DB
}

// NewSQLiteClient SQLiteファイルを開き、スキーマのマイグレーションを適用する
func NewSQLiteClient(dbPath string) (*SQLiteClient, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("REVIEWS_DB_PATHが設定されていません")
	}

	db, err := openSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("SQLiteのオープンに失敗: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("マイグレーションの適用に失敗: %w", err)
	}

	log.Printf("✅ SQLiteデータベースを開きました: %s", dbPath)
	return &SQLiteClient{DB: db}, nil
}

func openSQLite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("WALモードの有効化に失敗: %w", err)
	}

	// 書き込みは1接続に限定
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("外部キー制約の有効化に失敗: %w", err)
	}

	return db, nil
}

func applyMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("マイグレーションソースの読み込み失敗: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("マイグレーションドライバの作成失敗: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("マイグレーションの初期化失敗: %w", err)
	}

	// m.Close() は db も閉じるため呼ばない
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close データベース接続を閉じる
func (sc *SQLiteClient) Close() error {
	if sc.DB != nil {
		return sc.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (sc *SQLiteClient) HealthCheck() error {
	if sc.DB == nil {
		return fmt.Errorf("SQLiteクライアントが初期化されていません")
	}
	return sc.DB.Ping()
}
