package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// AppConfig is the root configuration for the gateway.
type AppConfig struct {
	App     AppSettings     `mapstructure:"app"`
	Backend BackendSettings `mapstructure:"backend"`
	Session SessionSettings `mapstructure:"session"`
	Credits CreditsSettings `mapstructure:"credits"`
}

type AppSettings struct {
	Name string `mapstructure:"name" validate:"required"`
	Env  string `mapstructure:"env" validate:"oneof=development staging production"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gt=0,lte=65535"`
}

// BackendSettings configures the hosted ClearLeads API connection.
type BackendSettings struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// SessionSettings configures local credential persistence.
type SessionSettings struct {
	TokenFile string `mapstructure:"token_file" validate:"required"`
}

// CreditsSettings configures the local credit mirror.
type CreditsSettings struct {
	ReconcileInterval time.Duration `mapstructure:"reconcile_interval" validate:"gt=0"`
}

// Load reads configuration from CLEARLEADS_* environment variables with
// sensible defaults for local use.
func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("CLEARLEADS")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"backend.base_url",
		"backend.timeout",
		"session.token_file",
		"credits.reconcile_interval",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "clearleads")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("backend.base_url", "https://api.clearleads.io")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("session.token_file", defaultTokenFile())
	v.SetDefault("credits.reconcile_interval", time.Minute)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".clearleads", "token")
	}
	return filepath.Join(home, ".clearleads", "token")
}

// Addr returns the listen address for the HTTP server.
func (a AppSettings) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}
