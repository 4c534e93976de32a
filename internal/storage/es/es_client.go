package es

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

const defaultMaxRetries = 3

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

func (c ClientConfig) validate() error {
	if len(c.Addresses) == 0 {
		return errors.New("elasticsearch addresses are not set")
	}
	if c.IndexName == "" {
		return errors.New("elasticsearch index name is not set")
	}
	return nil
}

// newClient builds a typed client that retries bulk requests rejected with
// 429 or a gateway error.
func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	cfg := elasticsearch.Config{
		Addresses:     config.Addresses,
		MaxRetries:    defaultMaxRetries,
		RetryOnStatus: []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}
