package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Remote    RemoteConfig
	Cache     CacheConfig
	Admin     AdminConfig
	Refresh   RefreshConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Documents DocumentsConfig
	LogLevel  string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// RemoteConfig points at the REST table service. An empty URL runs the
// application offline.
type RemoteConfig struct {
	URL            string
	APIKey         string
	EquipmentTable string
	LogsTable      string
	Timeout        time.Duration
}

// Enabled reports whether a remote store is configured.
func (r RemoteConfig) Enabled() bool {
	return r.URL != ""
}

// CacheConfig locates the device cache.
type CacheConfig struct {
	Dir string
	Key string
}

// AdminConfig holds the password gate settings.
type AdminConfig struct {
	Password    string
	TokenSecret string
	TokenTTL    time.Duration
}

// RefreshConfig holds scheduler-related settings.
type RefreshConfig struct {
	CronSchedule string
}

// MongoDBConfig holds settings for the optional log archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
}

// Enabled reports whether the spreadsheet sink is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// DocumentsConfig configures the optional S3-compatible document archive.
type DocumentsConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Enabled reports whether the document archive is configured.
func (d DocumentsConfig) Enabled() bool {
	return d.Bucket != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	remoteTimeout, err := durationWithDefault("REMOTE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := durationWithDefault("ADMIN_TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Remote: RemoteConfig{
			URL:            os.Getenv("SUPABASE_URL"),
			APIKey:         os.Getenv("SUPABASE_KEY"),
			EquipmentTable: getenvWithDefault("EQUIPMENT_TABLE", "equipment"),
			LogsTable:      getenvWithDefault("LOGS_TABLE", "logs"),
			Timeout:        remoteTimeout,
		},
		Cache: CacheConfig{
			Dir: getenvWithDefault("CACHE_DIR", "./data"),
			Key: getenvWithDefault("CACHE_KEY", "equipment-checklist"),
		},
		Admin: AdminConfig{
			Password:    os.Getenv("ADMIN_PASSWORD"),
			TokenSecret: os.Getenv("ADMIN_TOKEN_SECRET"),
			TokenTTL:    tokenTTL,
		},
		Refresh: RefreshConfig{
			CronSchedule: lookupWithDefault("REFRESH_CRON", "*/15 * * * *"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "gearlist"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			Range:           getenvWithDefault("GOOGLE_SHEET_RANGE", "Logs!A:F"),
		},
		Documents: DocumentsConfig{
			Bucket:    os.Getenv("DOCUMENTS_S3_BUCKET"),
			Region:    getenvWithDefault("DOCUMENTS_S3_REGION", "us-east-1"),
			Endpoint:  os.Getenv("DOCUMENTS_S3_ENDPOINT"),
			AccessKey: os.Getenv("DOCUMENTS_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("DOCUMENTS_S3_SECRET_KEY"),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Remote.Enabled() && c.Remote.APIKey == "" {
		return errors.New("SUPABASE_KEY must be provided when SUPABASE_URL is set")
	}

	if c.Cache.Dir == "" {
		return errors.New("CACHE_DIR must not be empty")
	}

	switch {
	case c.Admin.Password == "":
		return errors.New("ADMIN_PASSWORD must be provided")
	case c.Admin.TokenSecret == "":
		return errors.New("ADMIN_TOKEN_SECRET must be provided")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_DATABASE_ID is set")
	}

	if c.Documents.Enabled() && (c.Documents.AccessKey == "") != (c.Documents.SecretKey == "") {
		return errors.New("DOCUMENTS_S3_ACCESS_KEY and DOCUMENTS_S3_SECRET_KEY must be provided together")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// lookupWithDefault differs from getenvWithDefault in that an explicitly
// empty variable is kept.
func lookupWithDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func durationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
