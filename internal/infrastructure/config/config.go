package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 支援的儲存後端。
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config 儲存 HTTP API、儲存後端與帳本政策的執行設定。
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	DB      DBConfig      `yaml:"db"`
	Journal JournalConfig `yaml:"journal"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type DBConfig struct {
	Backend      string        `yaml:"backend"`
	DSN          string        `yaml:"dsn"`
	Path         string        `yaml:"path"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	MaxIdleTime  time.Duration `yaml:"max_idle_time"`
}

// JournalConfig 帳本政策設定：初始資金、目標利潤公式與週次起點皆可外部調整。
type JournalConfig struct {
	InitialBalance float64 `yaml:"initial_balance"`
	TargetRate     float64 `yaml:"target_rate"`
	// TargetCap 小於等於 0 表示不設上限。
	TargetCap     float64 `yaml:"target_cap"`
	TrackingStart string  `yaml:"tracking_start"`
	Timezone      string  `yaml:"timezone"`
}

// LoadFromFile 從 YAML 組態檔載入設定。
func LoadFromFile(path string) (Config, error) {
	// 嘗試載入 .env 檔案（如果存在）
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg = applyDefaults(cfg)
	cfg = applyEnv(cfg)
	return cfg, nil
}

// Validate 檢查設定完整性；缺少儲存後端時啟動即失敗，
// 引擎不應在沒有資料儲存的情況下可達。
func (c Config) Validate() error {
	switch c.DB.Backend {
	case BackendSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("db.path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("db.dsn is required for the postgres backend")
		}
	case BackendMemory:
	case "":
		return fmt.Errorf("db.backend is not set (sqlite, postgres or memory)")
	default:
		return fmt.Errorf("unsupported db.backend %q", c.DB.Backend)
	}
	if c.Journal.TargetRate <= 0 {
		return fmt.Errorf("journal.target_rate must be positive")
	}
	if _, err := time.LoadLocation(c.Journal.Timezone); err != nil {
		return fmt.Errorf("journal.timezone: %w", err)
	}
	if c.Journal.TrackingStart != "" {
		if _, err := time.Parse("2006-01-02", c.Journal.TrackingStart); err != nil {
			return fmt.Errorf("journal.tracking_start: %w", err)
		}
	}
	return nil
}

// Location 回傳參考時區；Validate 通過後不會失敗。
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Journal.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func applyDefaults(cfg Config) Config {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.DB.MaxOpenConns == 0 {
		cfg.DB.MaxOpenConns = 5
	}
	if cfg.DB.MaxIdleConns == 0 {
		cfg.DB.MaxIdleConns = 2
	}
	if cfg.DB.MaxIdleTime == 0 {
		cfg.DB.MaxIdleTime = 15 * time.Minute
	}
	if cfg.DB.Backend == BackendSQLite && cfg.DB.Path == "" {
		cfg.DB.Path = "trades.db"
	}
	if cfg.Journal.TargetRate == 0 {
		cfg.Journal.TargetRate = 0.066
	}
	if cfg.Journal.TargetCap == 0 {
		cfg.Journal.TargetCap = 1000
	}
	if cfg.Journal.Timezone == "" {
		cfg.Journal.Timezone = "UTC"
	}
	return cfg
}

func applyEnv(cfg Config) Config {
	if val := os.Getenv("HTTP_ADDR"); val != "" {
		cfg.HTTP.Addr = val
	}
	if val := os.Getenv("PORT"); val != "" {
		cfg.HTTP.Addr = ":" + val
	}
	if val := os.Getenv("DB_BACKEND"); val != "" {
		cfg.DB.Backend = val
	}
	if val := os.Getenv("DB_DSN"); val != "" {
		cfg.DB.DSN = val
	}
	if val := os.Getenv("DB_PATH"); val != "" {
		cfg.DB.Path = val
	}
	if val := os.Getenv("INITIAL_BALANCE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Journal.InitialBalance = f
		}
	}
	if val := os.Getenv("TARGET_RATE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Journal.TargetRate = f
		}
	}
	if val := os.Getenv("TARGET_CAP"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Journal.TargetCap = f
		}
	}
	if val := os.Getenv("TRACKING_START"); val != "" {
		cfg.Journal.TrackingStart = val
	}
	if val := os.Getenv("JOURNAL_TZ"); val != "" {
		cfg.Journal.Timezone = val
	}
	return cfg
}
