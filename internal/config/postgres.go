package config

import (
	"context"
	"net"
	"net/url"

	"github.com/sethvargo/go-envconfig"
)

// PostgresConfig describes the history database. It is only read when
// TRAYTIMER_HISTORY is "postgres".
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST, default=localhost"`
	Port     string `env:"POSTGRES_PORT, default=5432"`
	Username string `env:"POSTGRES_USERNAME, required"`
	Password string `env:"POSTGRES_PASSWORD, required"`
	Database string `env:"POSTGRES_DATABASE, default=traytimer"`
	SSLMode  string `env:"POSTGRES_SSLMODE, default=disable"`
}

func NewPostgresConfigFromEnv() (*PostgresConfig, error) {
	return newPostgresConfig(envconfig.OsLookuper())
}

func newPostgresConfig(lookuper envconfig.Lookuper) (*PostgresConfig, error) {
	var cfg PostgresConfig
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN renders the config as a postgres:// URL, escaping the credentials.
func (c *PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}
