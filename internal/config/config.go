// Package config reads service settings from the environment, after loading
// an optional .env file.
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Data sources for the assignment store
const (
	SourceFixtures = "fixtures"
	SourcePostgres = "postgres"
	SourceS3       = "s3"
)

// Config holds every runtime setting of the planogram service
type Config struct {
	Port             string
	GinMode          string
	DataSource       string
	Database         Database
	SeedFixtures     bool
	SnapshotBucket   string
	SnapshotKey      string
	ExportBucket     string
	ExportPrefix     string
	TransitionPolicy string
	SweepInterval    int // minutes; 0 disables the in-process sweeper
	JWTSecret        string
	SNSTopicARN      string
	AWSRegion        string
	CORSOrigin       string
	DefaultPageSize  int
	MaxPageSize      int
}

// Database holds database configuration
type Database struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns URL when set, otherwise a keyword/value connection string
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.DBName, d.SSLMode)
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, url.QueryEscape(d.Password), d.Host, d.Port, d.DBName, d.SSLMode)
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		GinMode:          os.Getenv("GIN_MODE"),
		DataSource:       strings.ToLower(getEnv("DATA_SOURCE", SourceFixtures)),
		SnapshotBucket:   os.Getenv("SNAPSHOT_BUCKET"),
		SnapshotKey:      getEnv("SNAPSHOT_KEY", "planograms/snapshot.json"),
		ExportBucket:     os.Getenv("EXPORT_BUCKET"),
		ExportPrefix:     getEnv("EXPORT_PREFIX", "exports/assignments-"),
		TransitionPolicy: getEnv("TRANSITION_POLICY", "permissive"),
		SweepInterval:    getEnvInt("SWEEP_INTERVAL_MINUTES", 60),
		SeedFixtures:     getEnv("SEED_FIXTURES", "true") == "true",
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SNSTopicARN:      os.Getenv("SNS_TOPIC_ARN"),
		AWSRegion:        awsRegion(),
		CORSOrigin:       os.Getenv("CORS_ORIGIN"),
		DefaultPageSize:  getEnvInt("DEFAULT_PAGE_SIZE", 20),
		MaxPageSize:      getEnvInt("MAX_PAGE_SIZE", 200),
		Database: Database{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "planogram_admin"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "planogram_db"),
			SSLMode:  getEnv("DB_SSLMODE", "prefer"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot start with
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceFixtures, SourcePostgres:
	case SourceS3:
		if c.SnapshotBucket == "" {
			return fmt.Errorf("DATA_SOURCE=s3 requires SNAPSHOT_BUCKET")
		}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource)
	}
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be positive, got %d", c.DefaultPageSize)
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("SWEEP_INTERVAL_MINUTES must not be negative, got %d", c.SweepInterval)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		c.MaxPageSize = c.DefaultPageSize
	}
	return nil
}

// awsRegion follows AWS_REGION, then AWS_DEFAULT_REGION, then Frankfurt
func awsRegion() string {
	if r := os.Getenv("AWS_REGION"); r != "" {
		return r
	}
	return getEnv("AWS_DEFAULT_REGION", "eu-central-1")
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s value: %s, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
