package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	RelayPort string

	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	JWTKey      string
	JWTTTLHours int
	SaltRound   int

	Timezone      string
	DefaultLocale string

	SendGridApiKey  string
	EmailSender     string
	EmailSenderName string
	SMTPHost        string
	SMTPPort        string
	SMTPPassword    string

	LineChannelSecret      string
	LineChannelAccessToken string
	LineApiBaseURL         string

	MidtransServerKey  string
	MidtransProduction bool

	UploadDir string

	CronEnabled   bool
	CertCheckSpec string

	LogLevel  string
	LogFormat string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		RelayPort: getEnv("RELAY_PORT", "3001"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "coachhub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "coachhub.db"),

		JWTKey:      getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24),
		SaltRound:   getEnvInt("SALT_ROUND", 10),

		Timezone:      getEnv("TIMEZONE", "Asia/Tokyo"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "ja"),

		SendGridApiKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@example.com"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "Sports English Coaching"),
		SMTPHost:        getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),

		LineChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
		LineChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineApiBaseURL:         getEnv("LINE_API_BASE_URL", "https://api.line.me"),

		MidtransServerKey:  getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransProduction: getEnvBool("MIDTRANS_PRODUCTION", false),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		CronEnabled:   getEnvBool("CRON_ENABLED", true),
		CertCheckSpec: getEnv("CERT_CHECK_SPEC", "0 9 * * *"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.LineChannelSecret == "" {
		log.Println("Warning: LINE_CHANNEL_SECRET is empty. LINE webhook requests will be rejected.")
	}
	if AppConfig.DBDriver == "postgres" && AppConfig.DBHost == "" {
		log.Println("Warning: DB_HOST is empty. Falling back to local sqlite database.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
