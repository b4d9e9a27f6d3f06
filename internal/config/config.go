package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName  string
	AppEnv   string
	AppPort  string
	LogLevel string

	// Validation
	SchemaFilePath           string
	ArtifactDir              string
	ValidationReportFilePath string
	TrainFilePath            string
	TestFilePath             string

	// Database
	DBEnabled         bool
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUsername        string
	DBPassword        string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Redis
	RedisEnabled   bool
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	ReportCacheTTL time.Duration
	RunLockTTL     time.Duration

	// JWT
	JWTSecret       string
	JWTAccessExpire time.Duration

	// Asynq
	AsynqRedisAddr     string
	AsynqRedisPassword string
	AsynqRedisDB       int
}

func Load() (*Config, error) {
	// Load .env file if exists
	// Try to load from current dir first, then parent dirs
	_ = godotenv.Load()
	_ = godotenv.Load("../../.env") // For when running from cmd/web or cmd/worker

	artifactDir := getEnv("ARTIFACT_DIR", "artifact")

	cfg := &Config{
		AppName:  getEnv("APP_NAME", "Data Validation"),
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SchemaFilePath:           getEnv("SCHEMA_FILE_PATH", filepath.Join("config", "schema.yaml")),
		ArtifactDir:              artifactDir,
		ValidationReportFilePath: getEnv("VALIDATION_REPORT_FILE_PATH", filepath.Join(artifactDir, "data_validation", "report.json")),
		TrainFilePath:            getEnv("TRAIN_FILE_PATH", filepath.Join(artifactDir, "data_ingestion", "ingested", "train.csv")),
		TestFilePath:             getEnv("TEST_FILE_PATH", filepath.Join(artifactDir, "data_ingestion", "ingested", "test.csv")),

		DBEnabled:         getEnvAsBool("DB_ENABLED", false),
		DBHost:            getEnv("DB_HOST", "127.0.0.1"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", "data_validation"),
		DBUsername:        getEnv("DB_USERNAME", "root"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		RedisEnabled:   getEnvAsBool("REDIS_ENABLED", false),
		RedisHost:      getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		ReportCacheTTL: getEnvAsDuration("REPORT_CACHE_TTL", 24*time.Hour),
		RunLockTTL:     getEnvAsDuration("RUN_LOCK_TTL", 10*time.Minute),

		JWTSecret:       getEnv("JWT_SECRET", "change-this-secret-key"),
		JWTAccessExpire: getEnvAsDuration("JWT_ACCESS_EXPIRE", 24*time.Hour),

		AsynqRedisAddr:     getEnv("ASYNQ_REDIS_ADDR", "127.0.0.1:6379"),
		AsynqRedisPassword: getEnv("ASYNQ_REDIS_PASSWORD", ""),
		AsynqRedisDB:       getEnvAsInt("ASYNQ_REDIS_DB", 0),
	}

	if cfg.SchemaFilePath == "" {
		return nil, fmt.Errorf("SCHEMA_FILE_PATH must not be empty")
	}
	if cfg.ValidationReportFilePath == "" {
		return nil, fmt.Errorf("VALIDATION_REPORT_FILE_PATH must not be empty")
	}

	return cfg, nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local",
		c.DBUsername,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBDatabase,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
