package configs

import (
	"fmt"
	"log"
	"mercadona-parser-service/internal/constants"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MercadonaConfig - доступ к API каталога
type MercadonaConfig struct {
	BaseURL          string
	Language         string
	MaxCategoryID    int
	ProbeTimeout     time.Duration
	FetchTimeout     time.Duration
	RequestDelay     time.Duration
	DefaultWarehouse string
}

type SnapshotConfig struct {
	OutputDir   string
	FilePrefix  string
	RegionsFile string
}

// DBConfig - необязательные архивы; пустое значение отключает архив
type DBConfig struct {
	URL        string
	SQLitePath string
}

type RabbitMQConfig struct {
	URL string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

type ReportConfig struct {
	Language string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Mercadona    MercadonaConfig
	Snapshot     SnapshotConfig
	Database     DBConfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
	Report       ReportConfig
}

// LoadConfig читает конфигурацию из окружения. .env подгружается, если есть;
// его отсутствие не ошибка, явно переданный путь обязан существовать.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("could not load env file %s: %w", envPath[0], err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &AppConfig{}
	cfg.AppName = getEnvAsString("APP_NAME", "mercadona-parser-service")

	cfg.Mercadona = MercadonaConfig{
		BaseURL:          getEnvAsString("MERCADONA_BASE_URL", constants.DefaultBaseURL),
		Language:         getEnvAsString("MERCADONA_LANG", constants.DefaultLanguage),
		MaxCategoryID:    getEnvAsInt("MERCADONA_MAX_CATEGORY_ID", constants.DefaultMaxCategoryID),
		ProbeTimeout:     getEnvAsDuration("MERCADONA_PROBE_TIMEOUT", constants.DefaultProbeTimeout),
		FetchTimeout:     getEnvAsDuration("MERCADONA_FETCH_TIMEOUT", constants.DefaultFetchTimeout),
		RequestDelay:     getEnvAsDuration("MERCADONA_REQUEST_DELAY", 0),
		DefaultWarehouse: getEnvAsString("MERCADONA_DEFAULT_WAREHOUSE", constants.DefaultWarehouse),
	}
	if cfg.Mercadona.MaxCategoryID < 0 {
		return nil, fmt.Errorf("MERCADONA_MAX_CATEGORY_ID must not be negative, got %d", cfg.Mercadona.MaxCategoryID)
	}
	if cfg.Mercadona.DefaultWarehouse == "" {
		return nil, fmt.Errorf("MERCADONA_DEFAULT_WAREHOUSE cannot be empty")
	}

	cfg.Snapshot = SnapshotConfig{
		OutputDir:   getEnvAsString("SNAPSHOT_OUTPUT_DIR", constants.DefaultOutputDir),
		FilePrefix:  getEnvAsString("SNAPSHOT_FILE_PREFIX", constants.DefaultFilePrefix),
		RegionsFile: os.Getenv("REGIONS_FILE"),
	}

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	cfg.Database.SQLitePath = os.Getenv("SQLITE_PATH")
	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "info")
	cfg.Report.Language = getEnvAsString("REPORT_LANG", constants.DefaultLanguage)

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt логирует и возвращает значение по умолчанию, если переменная не число
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists || valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsDuration принимает формат time.ParseDuration ("10s", "1m30s")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists || valStr == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil || d < 0 {
		log.Printf("Warning: Environment variable %s (value: %s) is not a valid duration. Using default value: %s\n", key, valStr, defaultValue)
		return defaultValue
	}
	return d
}
