package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ErrMissingConfig signals that an endpoint's required configuration is
// absent. Handlers surface it as HTTP 500 before any external call.
var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Dealgate"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	CRM struct {
		BaseURL string `envconfig:"CRM_BASE_URL" default:"https://api.hubapi.com"`
		Token   string `envconfig:"CRM_TOKEN"`
	}

	Portal struct {
		// Secret is the shared secret access tokens are derived from.
		// Unset means token-gated endpoints refuse all access.
		Secret string `envconfig:"PORTAL_SECRET"`
	}

	Notify struct {
		WebhookURL string `envconfig:"NOTIFY_WEBHOOK_URL"`
		AlertURL   string `envconfig:"ALERT_WEBHOOK_URL"`
		// Await controls whether the submission notification is sent
		// before the response is written. Deployments that terminate the
		// process right after responding must leave this on.
		Await bool `envconfig:"NOTIFY_AWAIT" default:"true"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// RequireCRM reports whether the CRM bearer token is configured.
func (c *Config) RequireCRM() error {
	if c.CRM.Token == "" {
		return fmt.Errorf("%w: CRM_TOKEN", ErrMissingConfig)
	}

	return nil
}

// RequireSecret reports whether the portal shared secret is configured.
func (c *Config) RequireSecret() error {
	if c.Portal.Secret == "" {
		return fmt.Errorf("%w: PORTAL_SECRET", ErrMissingConfig)
	}

	return nil
}
