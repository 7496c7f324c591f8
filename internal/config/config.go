package config

import (
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
)

type Config struct {
	Env            string   `env:"APP_ENV" envDefault:"development"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	Port           string   `env:"PORT" envDefault:"8080"`
	MetricsPort    string   `env:"METRICS_PORT" envDefault:"9090"`
	APIKey         string   `env:"API_KEY"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	Timezone       string   `env:"TIMEZONE" envDefault:"UTC"`
	// TrustProxy takes the client IP from X-Forwarded-For/X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	Database   Database   `envPrefix:"DB_"`
	JWT        JWT        `envPrefix:"JWT_"`
	Storage    Storage    `envPrefix:"MINIO_"`
	Upload     Upload     `envPrefix:"UPLOAD_"`
	Revocation Revocation `envPrefix:"REVOCATION_"`
}

type Database struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            string        `env:"PORT" envDefault:"3306"`
	User            string        `env:"USER" envDefault:"bodymetrics"`
	Password        string        `env:"PASSWORD" envDefault:"bodymetrics_pass"`
	Name            string        `env:"NAME" envDefault:"bodymetrics"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
}

type JWT struct {
	Secret string        `env:"SECRET,required,notEmpty"`
	TTL    time.Duration `env:"TTL" envDefault:"720h"`
}

// Storage holds the object store used for videos and thumbnails.
type Storage struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"bodymetrics-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"bodymetrics-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"media"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

type Upload struct {
	MaxImportBytes int64 `env:"MAX_IMPORT_BYTES" envDefault:"10485760"`
	MaxVideoBytes  int64 `env:"MAX_VIDEO_BYTES" envDefault:"536870912"`
}

type Revocation struct {
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	m := mysql.NewConfig()
	m.User = c.Database.User
	m.Passwd = c.Database.Password
	m.Net = "tcp"
	m.Addr = net.JoinHostPort(c.Database.Host, c.Database.Port)
	m.DBName = c.Database.Name
	m.ParseTime = true
	m.Loc = time.UTC
	m.Params = map[string]string{"charset": "utf8mb4"}
	return m.FormatDSN()
}

// Location resolves the zone used to decide what "today" means.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
