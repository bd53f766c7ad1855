package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DefaultAdminUsername string
	DefaultAdminPassword string
	DefaultUserPassword  string

	ProgressCacheTTL time.Duration

	RunTimeout time.Duration

	AIBaseURL string
	AIAPIKey  string
	AIModel   string
	AITimeout time.Duration
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:              getEnv("API_PORT", "8080"),
		JWTKey:               []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:               time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBUser:               getEnv("DB_USER", "user"),
		DBPassword:           getEnv("DB_PASSWORD", "password"),
		DBName:               getEnv("DB_NAME", "taskboard_db"),
		DBSslMode:            getEnv("DB_SSLMODE", "disable"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		DefaultAdminUsername: getEnv("DEFAULT_ADMIN_USERNAME", "admin"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),
		DefaultUserPassword:  getEnv("DEFAULT_USER_PASSWORD", "123456"),
		ProgressCacheTTL:     time.Duration(getEnvAsInt("PROGRESS_CACHE_TTL_SECONDS", 30)) * time.Second,
		RunTimeout:           time.Duration(getEnvAsInt("RUN_TIMEOUT_SECONDS", 10)) * time.Second,
		AIBaseURL:            getEnv("AI_BASE_URL", "https://openrouter.ai/api/v1/chat/completions"),
		AIAPIKey:             getEnv("AI_API_KEY", ""),
		AIModel:              getEnv("AI_MODEL", "openrouter/auto"),
		AITimeout:            time.Duration(getEnvAsInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
