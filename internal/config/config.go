package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	LogLevel  string
	LogFormat string

	Storage StorageConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	SQLitePath        string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ExportMode string
	ExportDir  string

	ConfigDir string
}

type StorageConfig struct {
	Driver   string
	Profile  string
	Compress bool
}

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMySQL    = "mysql"
	StorageRedis    = "redis"
)

const (
	ExportModeRaster   = "raster"
	ExportModeDocument = "document"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	driver := normalizeDriver(getenv("STORAGE_DRIVER", StorageSQLite))

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "billium"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getenv("LOG_FORMAT", "console")),
		Storage: StorageConfig{
			Driver:   driver,
			Profile:  strings.TrimSpace(getenv("STORAGE_PROFILE", "")),
			Compress: getenvBool("STORAGE_COMPRESS", false),
		},
		DBType:            driver,
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", defaultPort(driver)),
		DBName:            getenv("DATABASE_NAME", "billium"),
		DBUser:            getenv("DATABASE_USER", "billium"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 5),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		SQLitePath:        getenv("SQLITE_PATH", "billium.db"),
		RedisAddr:         getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           getenvInt("REDIS_DB", 0),
		ExportMode:        normalizeExportMode(getenv("EXPORT_MODE", ExportModeRaster)),
		ExportDir:         getenv("EXPORT_DIR", "."),
		ConfigDir:         strings.TrimSpace(getenv("BILLIUM_CONFIG_DIR", "")),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizeDriver(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case StorageMemory, StorageSQLite, StoragePostgres, StorageMySQL, StorageRedis:
		return value
	case "postgresql":
		return StoragePostgres
	default:
		return StorageSQLite
	}
}

func normalizeExportMode(raw string) string {
	if strings.ToLower(strings.TrimSpace(raw)) == ExportModeDocument {
		return ExportModeDocument
	}
	return ExportModeRaster
}

func defaultPort(driver string) string {
	if driver == StorageMySQL {
		return "3306"
	}
	return "5432"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
