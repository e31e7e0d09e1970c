package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends.
const (
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	APIURL      string
	HTTPTimeout time.Duration

	FeedPageSize    int
	RefreshMinDelay time.Duration

	SessionStore string
	SessionFile  string
	RedisURL     string
	DatabaseURL  string

	ImageMaxWidth  int
	ImageMaxHeight int

	ArchiveBucket          string
	ArchiveEndpoint        string
	ArchiveRegion          string
	ArchiveAccessKeyID     string
	ArchiveSecretAccessKey string

	LogLevel  string
	LogFormat string
	LogOutput string

	// Sandbox API server
	ServerPort        string
	JWTSecret         string
	AccessTokenMaxAge int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	feedPageSize, err := strconv.Atoi(os.Getenv("FEED_PAGE_SIZE"))
	if err != nil || feedPageSize <= 0 {
		feedPageSize = 2
	}

	imageMaxWidth, err := strconv.Atoi(os.Getenv("IMAGE_MAX_WIDTH"))
	if err != nil || imageMaxWidth <= 0 {
		imageMaxWidth = 1600
	}

	imageMaxHeight, err := strconv.Atoi(os.Getenv("IMAGE_MAX_HEIGHT"))
	if err != nil || imageMaxHeight <= 0 {
		imageMaxHeight = 1200
	}

	accessTokenMaxAge, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_MAX_AGE"))
	if err != nil || accessTokenMaxAge <= 0 {
		accessTokenMaxAge = 7 * 24 * 3600
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "3000"
	}

	store := strings.ToLower(getenv("SESSION_STORE", StoreFile))

	return &Config{
		APIURL:      strings.TrimRight(getenv("API_URL", "http://localhost:3000/api"), "/"),
		HTTPTimeout: getenvDuration("HTTP_TIMEOUT", 0),

		FeedPageSize:    feedPageSize,
		RefreshMinDelay: getenvDuration("REFRESH_MIN_DELAY", 800*time.Millisecond),

		SessionStore: store,
		SessionFile:  getenv("SESSION_FILE", defaultSessionFile()),
		RedisURL:     getenv("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		ImageMaxWidth:  imageMaxWidth,
		ImageMaxHeight: imageMaxHeight,

		ArchiveBucket:          os.Getenv("ARCHIVE_BUCKET"),
		ArchiveEndpoint:        os.Getenv("ARCHIVE_ENDPOINT"),
		ArchiveRegion:          getenv("ARCHIVE_REGION", "auto"),
		ArchiveAccessKeyID:     os.Getenv("ARCHIVE_ACCESS_KEY_ID"),
		ArchiveSecretAccessKey: os.Getenv("ARCHIVE_SECRET_ACCESS_KEY"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "console"),
		LogOutput: getenv("LOG_OUTPUT", "stderr"),

		ServerPort:        serverPort,
		JWTSecret:         getenv("JWT_SECRET", "sandbox-secret"),
		AccessTokenMaxAge: accessTokenMaxAge,
	}, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getenvDuration accepts Go durations ("800ms") or a plain number of milliseconds.
func getenvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(val); err == nil {
		return parsed
	}
	if ms, err := strconv.Atoi(val); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".fixmycity-session.json"
	}
	return dir + string(os.PathSeparator) + "fixmycity" + string(os.PathSeparator) + "session.json"
}
