package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

var validDrivers = map[string]bool{
	DriverPostgres: true,
	DriverPgx:      true,
	DriverMySQL:    true,
	DriverMemory:   true,
}

type Config struct {
	ServerPort    string
	AppEnv        string
	LogLevel      string
	APIPrefix     string
	StorageDriver string
	DB            DBConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if !validDrivers[c.StorageDriver] {
		return fmt.Errorf("invalid STORAGE_DRIVER %q: must be one of postgres, pgx, mysql, memory", c.StorageDriver)
	}
	if c.StorageDriver == DriverMemory && c.AppEnv == "prod" {
		return fmt.Errorf("STORAGE_DRIVER=memory must not be used in %s environment", c.AppEnv)
	}
	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("invalid API_PREFIX %q: must start with /", c.APIPrefix)
	}
	if c.StorageDriver != DriverMemory {
		if _, err := strconv.Atoi(c.DB.Port); err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", c.DB.Port, err)
		}
		if c.DB.MaxOpenConns < 1 {
			return fmt.Errorf("invalid DB_MAX_OPEN_CONNS %d: must be positive", c.DB.MaxOpenConns)
		}
	}
	return nil
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
}

// DSN returns the connection string for the given storage driver. postgres
// and pgx share the URL form.
func (d DBConfig) DSN(driver string) string {
	if driver == DriverMySQL {
		return d.mysqlDSN()
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

func (d DBConfig) mysqlDSN() string {
	c := mysql.NewConfig()
	c.User = d.User
	c.Passwd = d.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(d.Host, d.Port)
	c.DBName = d.Name
	c.ParseTime = true
	c.Loc = time.UTC
	// UPDATE reports matched rows, so an unchanged row is not mistaken for a missing one.
	c.ClientFoundRows = true
	switch d.SSLMode {
	case "require":
		c.TLSConfig = "skip-verify"
	case "verify-ca", "verify-full":
		c.TLSConfig = "true"
	}
	return c.FormatDSN()
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none)
// into the process environment. Variables already set win. Missing files
// are ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

func Load() Config {
	driver := strings.ToLower(envOrDefault("STORAGE_DRIVER", DriverPostgres))

	defaultPort := "5432"
	if driver == DriverMySQL {
		defaultPort = "3306"
	}

	return Config{
		ServerPort:    envOrDefault("SERVER_PORT", "8080"),
		AppEnv:        envOrDefault("APP_ENV", "local"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		APIPrefix:     envOrDefault("API_PREFIX", "/api"),
		StorageDriver: driver,
		DB: DBConfig{
			Host:         envOrDefault("DB_HOST", "localhost"),
			Port:         envOrDefault("DB_PORT", defaultPort),
			User:         envOrDefault("DB_USER", "todo"),
			Password:     envOrDefault("DB_PASSWORD", "todo"),
			Name:         envOrDefault("DB_NAME", "todo"),
			SSLMode:      envOrDefault("DB_SSLMODE", "disable"),
			MaxOpenConns: intOrDefault("DB_MAX_OPEN_CONNS", 25),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// intOrDefault returns -1 for an unparsable value so Validate can reject it.
func intOrDefault(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
