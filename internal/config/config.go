package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers understood by the key-value medium.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverBadger   = "badger"
)

// DefaultStoreCapacity is the default key-value quota, 5 MiB.
const DefaultStoreCapacity int64 = 5 << 20

// Config holds application configuration
type Config struct {
	// Server
	Port               string
	Env                string
	APIKey             string
	CORSAllowedOrigins []string

	// Key-value medium
	StoreDriver   string
	StoreCapacity int64
	SQLitePath    string
	BadgerPath    string

	// SQL database (postgres/mysql drivers)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// File mirror root; empty disables the file backend
	DataDir string

	SeedSampleData bool
	RemoteTimeout  time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:   getEnv("PORT", "8080"),
		Env:    getEnv("ENV", "development"),
		APIKey: os.Getenv("API_KEY"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
		SQLitePath:  getEnv("SQLITE_PATH", "powcost.db"),
		BadgerPath:  getEnv("BADGER_PATH", "powcost-badger"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "powcost"),
		DBPassword: getEnv("DB_PASSWORD", "powcost"),
		DBName:     getEnv("DB_NAME", "powcost"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		DataDir: os.Getenv("DATA_DIR"),
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.CORSAllowedOrigins = strings.Split(origins, ",")
	}

	capStr := getEnv("STORE_CAPACITY_BYTES", strconv.FormatInt(DefaultStoreCapacity, 10))
	capacity, err := strconv.ParseInt(capStr, 10, 64)
	if err != nil || capacity <= 0 {
		log.Printf("Warning: invalid STORE_CAPACITY_BYTES value '%s', falling back to %d\n", capStr, DefaultStoreCapacity)
		capacity = DefaultStoreCapacity
	}
	config.StoreCapacity = capacity

	seedStr := getEnv("SEED_SAMPLE_DATA", "true")
	seed, err := strconv.ParseBool(seedStr)
	if err != nil {
		log.Printf("Warning: invalid SEED_SAMPLE_DATA value '%s', falling back to true\n", seedStr)
		seed = true
	}
	config.SeedSampleData = seed

	timeoutStr := getEnv("REMOTE_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		log.Printf("Warning: invalid REMOTE_TIMEOUT value '%s', falling back to 15s\n", timeoutStr)
		timeout = 15 * time.Second
	}
	config.RemoteTimeout = timeout

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
