package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

type groq struct {
	BaseURL        string        `mapstructure:"groq_base_url"`
	FixTextAPIKey  string        `mapstructure:"groq_fix_text_api_key"`
	LocationAPIKey string        `mapstructure:"groq_location_api_key"`
	ImageAPIKey    string        `mapstructure:"groq_search_image_api_key"`
	Timeout        time.Duration `mapstructure:"groq_timeout"`
	VisionTimeout  time.Duration `mapstructure:"groq_vision_timeout"`
}

// Config アプリケーション設定（環境変数 + コマンドラインフラグ）
type Config struct {
	HTTPAddr        string `mapstructure:"http_addr"`
	GinMode         string `mapstructure:"gin_mode"`
	CatalogBackend  string `mapstructure:"catalog_backend"`
	SupabaseURL     string `mapstructure:"supabase_url"`
	SupabaseAnonKey string `mapstructure:"supabase_anon_key"`
	DatabaseURL     string `mapstructure:"database_url"`
	ReviewsDBPath   string `mapstructure:"reviews_db_path"`
	Groq            groq   `mapstructure:",squash"`
}

var defaults = map[string]any{
	"http_addr":                 ":8080",
	"gin_mode":                  "release",
	"catalog_backend":           BackendPostgres,
	"supabase_url":              "",
	"supabase_anon_key":         "",
	"database_url":              "",
	"reviews_db_path":           "database.db3",
	"groq_base_url":             "https://api.groq.com/openai/v1",
	"groq_fix_text_api_key":     "",
	"groq_location_api_key":     "",
	"groq_search_image_api_key": "",
	"groq_timeout":              "10s",
	"groq_vision_timeout":       "30s",
}

// Load は .env（任意）・環境変数・コマンドラインフラグの順に設定を読み込む
// args には os.Args[1:] を渡す
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .envファイルが見つかりません。システム環境変数を使用します")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return Config{}, fmt.Errorf("環境変数のバインド失敗 (%s): %w", key, err)
		}
	}

	flags := pflag.NewFlagSet("shoppy", pflag.ContinueOnError)
	flags.String("http-addr", "", "HTTP listen address")
	flags.String("catalog-backend", "", "catalog backend (postgres|supabase)")
	flags.String("reviews-db", "", "SQLite reviews database path")
	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("コマンドライン引数の解析失敗: %w", err)
	}
	for key, name := range map[string]string{
		"http_addr":       "http-addr",
		"catalog_backend": "catalog-backend",
		"reviews_db_path": "reviews-db",
	} {
		// 明示的に指定されたフラグのみ環境変数を上書きする
		if f := flags.Lookup(name); f.Changed {
			v.Set(key, f.Value.String())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("設定の読み込み失敗: %w", err)
	}
	cfg.CatalogBackend = strings.ToLower(strings.TrimSpace(cfg.CatalogBackend))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate はバックエンドごとに必要な設定が揃っているかを検証する
func (c Config) Validate() error {
	var errs []error

	switch c.CatalogBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URLが設定されていません"))
		}
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_URLとSUPABASE_ANON_KEYが設定されていません"))
		}
	default:
		errs = append(errs, fmt.Errorf("不明なCATALOG_BACKEND: %q (postgres または supabase)", c.CatalogBackend))
	}

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP_ADDRが空です"))
	}
	if c.ReviewsDBPath == "" {
		errs = append(errs, errors.New("REVIEWS_DB_PATHが空です"))
	}
	if c.Groq.Timeout <= 0 || c.Groq.VisionTimeout <= 0 {
		errs = append(errs, errors.New("GROQ_TIMEOUTとGROQ_VISION_TIMEOUTは正の値である必要があります"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("設定の検証失敗: %w", errors.Join(errs...))
	}
	return nil
}

// Print は読み込んだ設定を表示する（APIキーは設定有無のみ）
func (c Config) Print() {
	log.Printf("📝 設定: addr=%s backend=%s reviews_db=%s groq=%s timeout=%s/%s keys(fix=%t location=%t image=%t)",
		c.HTTPAddr, c.CatalogBackend, c.ReviewsDBPath, c.Groq.BaseURL,
		c.Groq.Timeout, c.Groq.VisionTimeout,
		c.Groq.FixTextAPIKey != "", c.Groq.LocationAPIKey != "", c.Groq.ImageAPIKey != "",
	)
}
