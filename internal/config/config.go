package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO. An empty Endpoint
// disables blob storage; uploads then keep metadata only.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether blob storage is configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Backend   string
	FilePath  string
	BadgerDir string
}

// LogConfig controls logrus output.
type LogConfig struct {
	Level  string
	Format string
}

// FilesConfig controls file registration.
type FilesConfig struct {
	BaseURL         string
	PreviewMaxBytes int64
	// PresignExpiry is in seconds; a negative value streams downloads
	// through the API instead of redirecting.
	PresignExpiry int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables, optionally layered over the
// file named by CONFIG_FILE. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Log      LogConfig
	Store    StoreConfig
	Files    FilesConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Keys may also come from a yaml/toml/json file named by CONFIG_FILE, using
// the same names (e.g. STORE_BACKEND); real environment variables take precedence.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return &AppConfig{
		AppHost: v.GetString("APP_HOST"),
		Port:    v.GetString("PORT"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(v.GetString("STORE_BACKEND")),
			FilePath:  v.GetString("STORE_FILE_PATH"),
			BadgerDir: v.GetString("STORE_BADGER_DIR"),
		},
		Files: FilesConfig{
			BaseURL:         v.GetString("FILES_BASE_URL"),
			PreviewMaxBytes: v.GetInt64("PREVIEW_MAX_BYTES"),
			PresignExpiry:   v.GetInt("PRESIGN_EXPIRY_SEC"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeSec: v.GetInt("DB_CONN_MAX_LIFETIME_SEC"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "localhost:8080")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("STORE_BACKEND", BackendFile)
	v.SetDefault("STORE_FILE_PATH", "data/pi_global_db.json")
	v.SetDefault("STORE_BADGER_DIR", "data/badger")
	v.SetDefault("FILES_BASE_URL", "/api/files/")
	v.SetDefault("PREVIEW_MAX_BYTES", 10<<20)
	v.SetDefault("PRESIGN_EXPIRY_SEC", 900)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SEC", 300)
	v.SetDefault("MINIO_USE_SSL", false)
}
