package main

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/kazz187/novapm/internal/apiclient"
)

const envPrefix = "NOVAPM"

type Config struct {
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8000/api"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
	// Token is the access token sent with every call. `novapm login` prints
	// one to export.
	Token string `envconfig:"TOKEN"`
}

func NewConfig() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	return c, nil
}

func (c *Config) Client() *apiclient.Client {
	return apiclient.New(c.APIBaseURL, apiclient.WithTimeout(c.APITimeout))
}
