package server

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/DjordjeVuckovic/tsp-results/pkg/utils"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string   `envconfig:"PORT" default:"8080"`
	UseHttp2    bool     `envconfig:"USE_HTTP2"`
	CorsOrigins []string `envconfig:"CORS_ORIGINS"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process server environment: %w", err)
	}

	if err := validatePort(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	cfg.CorsOrigins = utils.CompactStrings(cfg.CorsOrigins)
	if len(cfg.CorsOrigins) == 0 {
		cfg.CorsOrigins = []string{"*"}
	}

	return &cfg, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
