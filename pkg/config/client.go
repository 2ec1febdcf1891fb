package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// ClientConfig configures depotctl. TokenPath empty means the per-user
// default chosen by the client package.
type ClientConfig struct {
	BaseURL   string `envconfig:"DEPOTVENTE_CLIENT_BASE_URL" default:"http://localhost:8080"`
	TokenPath string `envconfig:"DEPOTVENTE_CLIENT_TOKEN_PATH"`
}

func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing client config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &cfg, nil
}
