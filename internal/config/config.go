package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Skotchmaster/product_inventory/internal/catalog"
	"github.com/Skotchmaster/product_inventory/pkg/apiclient"
)

const (
	KeyAPIURL       = "api_url"
	KeyTokenDB      = "token_db"
	KeyTimeout      = "timeout"
	KeyLogLevel     = "log_level"
	KeyHomePageSize = "home_page_size"
	KeyListPageSize = "list_page_size"

	DefaultAPIURL = "http://localhost:5000"
)

type Config struct {
	APIURL       string
	TokenDB      string
	Timeout      time.Duration
	LogLevel     string
	HomePageSize int
	ListPageSize int
}

// New returns a viper instance reading INVENTORY_* variables, with LOG_LEVEL
// also honoured unprefixed.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyLogLevel, "INVENTORY_LOG_LEVEL", "LOG_LEVEL")

	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyTokenDB, defaultTokenDB())
	v.SetDefault(KeyTimeout, apiclient.DefaultTimeout)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyHomePageSize, catalog.HomePageSize)
	v.SetDefault(KeyListPageSize, catalog.ListPageSize)
	return v
}

// LoadDotEnv reads .env when present. Existing variables win.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
}

func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIURL:       strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIURL)), "/"),
		TokenDB:      v.GetString(KeyTokenDB),
		Timeout:      v.GetDuration(KeyTimeout),
		LogLevel:     v.GetString(KeyLogLevel),
		HomePageSize: v.GetInt(KeyHomePageSize),
		ListPageSize: v.GetInt(KeyListPageSize),
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("config: %s is empty", KeyAPIURL)
	}
	if cfg.TokenDB == "" {
		return nil, fmt.Errorf("config: %s is empty", KeyTokenDB)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("config: %s must be positive, got %s", KeyTimeout, cfg.Timeout)
	}
	if cfg.HomePageSize <= 0 || cfg.ListPageSize <= 0 {
		return nil, fmt.Errorf("config: page sizes must be positive")
	}
	return cfg, nil
}

func defaultTokenDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "inventory.db"
	}
	return filepath.Join(dir, "product_inventory", "session.db")
}
