package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends selectable through <STORE><BACKEND>.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName     xml.Name         `xml:"API"`
	RequestDump bool             `xml:"REQUEST_DUMP,attr"`
	Context     ContextConfig    `xml:"CONTEXT"`
	Logging     LoggingConfig    `xml:"LOGGING"`
	RateLimit   RateLimitConfig  `xml:"RATE_LIMIT"`
	Pagination  PaginationConfig `xml:"PAGINATION"`
	Store       StoreConfig      `xml:"STORE"`
	DB          DBConfig         `xml:"DB"`
	Redis       RedisConfig      `xml:"REDIS"`
	Mongo       MongoConfig      `xml:"MONGO"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port            int    `xml:"PORT"`
	Host            string `xml:"HOST"`
	Path            string `xml:"PATH"`
	TimeZone        string `xml:"TIME_ZONE"`
	MaxConnections  int    `xml:"MAX_CONNECTIONS"`
	ShutdownTimeout int    `xml:"SHUTDOWN_TIMEOUT"`
}

type LoggingConfig struct {
	Level      string `xml:"LEVEL"`
	Dir        string `xml:"DIR"`
	MaxSizeMB  int    `xml:"MAX_SIZE_MB"`
	MaxBackups int    `xml:"MAX_BACKUPS"`
	MaxAgeDays int    `xml:"MAX_AGE_DAYS"`
	Compress   bool   `xml:"COMPRESS"`
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	Enabled           bool    `xml:"ENABLED,attr"`
	RequestsPerSecond float64 `xml:"REQUESTS_PER_SECOND"`
	Burst             int     `xml:"BURST"`
}

// PaginationConfig holds pagination settings.
type PaginationConfig struct {
	PageSize int `xml:"PAGE_SIZE"`
}

type StoreConfig struct {
	Backend string `xml:"BACKEND"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Host     string       `xml:"HOST"`
	Port     int          `xml:"PORT"`
	SSLMode  string       `xml:"SSL_MODE"`
	Name     string       `xml:"NAME"`
	Username string       `xml:"USERNAME"`
	Password DBPassword   `xml:"PASSWORD"`
	Pool     DBPoolConfig `xml:"POOL"`
}

// DBPassword holds password details.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Addr      string `xml:"ADDR"`
	Password  string `xml:"PASSWORD"`
	DB        int    `xml:"DB"`
	KeyPrefix string `xml:"KEY_PREFIX"`
}

type MongoConfig struct {
	URI            string `xml:"URI"`
	Database       string `xml:"DATABASE"`
	ConnectTimeout int    `xml:"CONNECT_TIMEOUT"`
}

// Default returns the configuration used when no file is present.
func Default() *APIConfig {
	return &APIConfig{
		Context: ContextConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Path:            "/",
			TimeZone:        "UTC",
			MaxConnections:  1024,
			ShutdownTimeout: 10,
		},
		Logging: LoggingConfig{
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Pagination: PaginationConfig{PageSize: 10},
		Store:      StoreConfig{Backend: BackendMemory},
		DB: DBConfig{
			Host:     "localhost",
			Port:     5432,
			SSLMode:  "disable",
			Name:     "surveys",
			Username: "postgres",
			Pool: DBPoolConfig{
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "assessments",
		},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "surveys",
			ConnectTimeout: 10,
		},
	}
}

// LoadConfig reads the XML file at xmlPath on top of Default. A missing
// file is not an error.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	cfg := Default()
	f, err := os.Open(xmlPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", xmlPath, err)
	}
	defer f.Close()

	if err := Decode(f, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", xmlPath, err)
	}
	return cfg, nil
}

// Decode unmarshals XML from r into cfg. Elements absent from the document
// keep their current values.
func Decode(r io.Reader, cfg *APIConfig) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, cfg)
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is
// ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnvOverrides replaces selected fields with SURVEY_* environment
// variables when they are set.
func (c *APIConfig) ApplyEnvOverrides() error {
	if v := os.Getenv("SURVEY_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SURVEY_PORT: %w", err)
		}
		c.Context.Port = port
	}
	if v := os.Getenv("SURVEY_HOST"); v != "" {
		c.Context.Host = v
	}
	if v := os.Getenv("SURVEY_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("SURVEY_DB_PASSWORD"); v != "" {
		c.DB.Password = DBPassword{Type: "plain", Value: v}
	}
	if v := os.Getenv("SURVEY_REDIS_ADDR"); v != "" {
		c.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}
	if v := os.Getenv("SURVEY_MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("SURVEY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SURVEY_LOG_DIR"); v != "" {
		c.Logging.Dir = v
	}
	return nil
}

// Validate reports settings the server cannot start with.
func (c *APIConfig) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendPostgres, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Context.Port <= 0 || c.Context.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Context.Port)
	}
	if c.Pagination.PageSize <= 0 {
		return fmt.Errorf("invalid page size %d", c.Pagination.PageSize)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rate limit requires positive REQUESTS_PER_SECOND and BURST")
	}
	return nil
}

// Addr is the host:port the HTTP server listens on.
func (c *APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Context.Host, c.Context.Port)
}

// DSN builds the PostgreSQL connection string for gorm.
func (d DBConfig) DSN(timeZone string) string {
	if timeZone == "" {
		timeZone = "UTC"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		d.Host, d.Username, d.Password.Value, d.Name, d.Port, d.SSLMode, timeZone)
}
