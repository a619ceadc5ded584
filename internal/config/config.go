package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	BotToken       string
	AllowedUserIDs []int64
	Logger         *zap.Logger
	Services       *ServicesConfig
	MetricsAddr    string
	LogLevel       string
}

type ServicesConfig struct {
	File            string
	PageOrigin      string
	RequestTimeout  time.Duration
	BreakerFailures uint32
	RateLimit       float64
}

func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		// It's okay if .env file doesn't exist in production
		fmt.Printf("Warning: Could not load .env file: %v\n", err)
	}

	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	// Initialize logger
	logger, err := newLogger(logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Get required environment variables
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is required")
	}

	// Validate bot token format (should be like "123456789:ABCdefGHIjklMNOpqrsTUVwxyz")
	if len(botToken) < 20 || !strings.Contains(botToken, ":") {
		return nil, fmt.Errorf("invalid bot token format - token should be in format 'BOT_ID:BOT_TOKEN'")
	}

	// Parse allowed user IDs
	allowedUsersStr := os.Getenv("ALLOWED_USER_IDS")
	if allowedUsersStr == "" {
		return nil, fmt.Errorf("ALLOWED_USER_IDS environment variable is required")
	}
	allowedUserIDs, err := parseUserIDs(allowedUsersStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ALLOWED_USER_IDS: %w", err)
	}

	servicesConfig, err := loadServicesConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		BotToken:       botToken,
		AllowedUserIDs: allowedUserIDs,
		Logger:         logger,
		Services:       servicesConfig,
		MetricsAddr:    strings.TrimSpace(os.Getenv("METRICS_ADDR")),
		LogLevel:       logLevel,
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func parseUserIDs(userIDsStr string) ([]int64, error) {
	var userIDs []int64
	parts := strings.Split(userIDsStr, ",")

	for _, part := range parts {
		userID, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID '%s': %w", part, err)
		}
		userIDs = append(userIDs, userID)
	}

	return userIDs, nil
}

func loadServicesConfig() (*ServicesConfig, error) {
	// Get services file (default to "services.json")
	file := os.Getenv("HYDRARR_SERVICES_FILE")
	if file == "" {
		file = "services.json"
	}

	pageOrigin := os.Getenv("HYDRARR_PAGE_ORIGIN")
	if pageOrigin == "" {
		pageOrigin = "http://localhost"
	}

	// Parse request timeout (default to 8 seconds)
	timeout := 8
	if timeoutStr := os.Getenv("HYDRARR_REQUEST_TIMEOUT"); timeoutStr != "" {
		parsed, err := strconv.Atoi(timeoutStr)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid HYDRARR_REQUEST_TIMEOUT '%s': must be a positive number of seconds", timeoutStr)
		}
		timeout = parsed
	}

	// Parse breaker threshold (default to 5, 0 disables)
	breakerFailures := uint64(5)
	if failuresStr := os.Getenv("HYDRARR_BREAKER_FAILURES"); failuresStr != "" {
		parsed, err := strconv.ParseUint(failuresStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("failed to parse HYDRARR_BREAKER_FAILURES: %w", err)
		}
		breakerFailures = parsed
	}

	// Parse per-endpoint rate limit (default to 0, unlimited)
	rateLimit := 0.0
	if rateStr := os.Getenv("HYDRARR_RATE_LIMIT"); rateStr != "" {
		parsed, err := strconv.ParseFloat(rateStr, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid HYDRARR_RATE_LIMIT '%s': must be a non-negative number of requests per second", rateStr)
		}
		rateLimit = parsed
	}

	return &ServicesConfig{
		File:            file,
		PageOrigin:      strings.TrimSuffix(pageOrigin, "/"),
		RequestTimeout:  time.Duration(timeout) * time.Second,
		BreakerFailures: uint32(breakerFailures),
		RateLimit:       rateLimit,
	}, nil
}
