// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Env holds the settings of the respool command.
type Env struct {
	AppName        string
	LogLevel       string
	PoolName       string
	PoolCapacity   int
	PoolWorkers    int
	PoolHold       time.Duration
	AcquireTimeout time.Duration
	StatsdAddr     string
	DatabaseURL    string
}

// Load reads Env from environment variables, applying defaults for unset ones.
//
//   - APP_NAME (default: respool)
//   - APP_LOG_LEVEL (default: INFO)
//   - POOL_NAME (default: demo)
//   - POOL_CAPACITY (default: 3)
//   - POOL_WORKERS (default: 5)
//   - POOL_HOLD (default: 100ms)
//   - POOL_ACQUIRE_TIMEOUT (default: 1s)
//   - STATSD_ADDR (default: unset, metrics disabled)
//   - DATABASE_URL or PG* variables, see ConnString
func Load() (Env, error) {
	v := newViper()

	env := Env{
		AppName:        v.GetString("APP_NAME"),
		LogLevel:       v.GetString("APP_LOG_LEVEL"),
		PoolName:       v.GetString("POOL_NAME"),
		PoolCapacity:   v.GetInt("POOL_CAPACITY"),
		PoolWorkers:    v.GetInt("POOL_WORKERS"),
		PoolHold:       v.GetDuration("POOL_HOLD"),
		AcquireTimeout: v.GetDuration("POOL_ACQUIRE_TIMEOUT"),
		StatsdAddr:     v.GetString("STATSD_ADDR"),
		DatabaseURL:    connString(v),
	}
	if err := env.Validate(); err != nil {
		return Env{}, fmt.Errorf("invalid environment: %w", err)
	}
	return env, nil
}

func (e Env) Validate() error {
	if e.AppName == "" {
		return fmt.Errorf("APP_NAME cannot be empty")
	}
	if e.PoolCapacity <= 0 {
		return fmt.Errorf("POOL_CAPACITY must be positive: given %d", e.PoolCapacity)
	}
	if e.PoolWorkers <= 0 {
		return fmt.Errorf("POOL_WORKERS must be positive: given %d", e.PoolWorkers)
	}
	if e.PoolHold < 0 {
		return fmt.Errorf("POOL_HOLD cannot be negative: given %s", e.PoolHold)
	}
	if e.AcquireTimeout <= 0 {
		return fmt.Errorf("POOL_ACQUIRE_TIMEOUT must be positive: given %s", e.AcquireTimeout)
	}
	return nil
}

// ConnString returns the PostgreSQL connection string. DATABASE_URL overrides
// the individual PGHOST, PGPORT, PGUSER, PGPASSWORD and PGDATABASE variables.
func ConnString() string {
	return connString(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "respool")
	v.SetDefault("APP_LOG_LEVEL", "INFO")
	v.SetDefault("POOL_NAME", "demo")
	v.SetDefault("POOL_CAPACITY", 3)
	v.SetDefault("POOL_WORKERS", 5)
	v.SetDefault("POOL_HOLD", 100*time.Millisecond)
	v.SetDefault("POOL_ACQUIRE_TIMEOUT", time.Second)

	v.SetDefault("PGHOST", "localhost")
	v.SetDefault("PGPORT", "5432")
	v.SetDefault("PGUSER", "postgres")
	v.SetDefault("PGPASSWORD", "postgres")
	v.SetDefault("PGDATABASE", "postgres")
	return v
}

func connString(v *viper.Viper) string {
	if connStr := v.GetString("DATABASE_URL"); connStr != "" {
		return connStr
	}

	host := v.GetString("PGHOST")
	port := v.GetString("PGPORT")
	user := v.GetString("PGUSER")
	password := v.GetString("PGPASSWORD")
	database := v.GetString("PGDATABASE")

	if password != "" {
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			user, password, host, port, database,
		)
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=disable",
		user, host, port, database,
	)
}
