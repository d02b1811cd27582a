package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds client configuration: where the backend services live, where
// local state goes, and the knobs the forms and lists read.
type Config struct {
	AppName     string `mapstructure:"app_name"`
	AppVersion  string `mapstructure:"app_version"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`

	// DataDir holds the local sqlite store (credentials, drafts).
	DataDir string `mapstructure:"data_dir"`

	PreviewAddr string `mapstructure:"preview_addr"`

	HTTPTimeoutSeconds int `mapstructure:"http_timeout_seconds"`
	DefaultPageSize    int `mapstructure:"default_page_size"`
	// SearchDebounceMillis is the quiet period before a typed search term
	// triggers a refetch.
	SearchDebounceMillis int `mapstructure:"search_debounce_millis"`

	Services ServiceConfig `mapstructure:"services"`
}

// ServiceConfig maps each backend service to its base URL.
type ServiceConfig struct {
	BillingURL   string `mapstructure:"billing_url"`
	InventoryURL string `mapstructure:"inventory_url"`
	UserURL      string `mapstructure:"user_url"`
	SysadminURL  string `mapstructure:"sysadmin_url"`
	ReportURL    string `mapstructure:"report_url"`
}

// Holder serves the current config and swaps it atomically on file change.
type Holder struct {
	current atomic.Value // holds Config
}

func (h *Holder) Current() Config {
	return h.current.Load().(Config)
}

// NewHolder loads configuration from ledgerline.yml (config dir, home, or
// cwd), layered under LEDGERLINE_* env overrides, and watches the file for
// hot reload.
func NewHolder() (*Holder, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("ledgerline")
	v.SetConfigType("yml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".ledgerline"))
	}
	v.AddConfigPath("/etc/ledgerline")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEDGERLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// no config file: defaults + env only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	holder := &Holder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var next Config
		if err := v.Unmarshal(&next); err != nil {
			zap.L().Warn("config reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(next)
		zap.L().Info("config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "ledgerline")
	v.SetDefault("app_version", "0.1.0")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("preview_addr", ":7420")
	v.SetDefault("http_timeout_seconds", 12)
	v.SetDefault("default_page_size", 10)
	v.SetDefault("search_debounce_millis", 1000)
	v.SetDefault("services.billing_url", "http://localhost:8081")
	v.SetDefault("services.inventory_url", "http://localhost:8082")
	v.SetDefault("services.user_url", "http://localhost:8083")
	v.SetDefault("services.sysadmin_url", "http://localhost:8084")
	v.SetDefault("services.report_url", "http://localhost:8085")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".ledgerline")
}
