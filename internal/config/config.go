package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Archive database. Empty disables archiving; the ledger is
	// memory-only either way.
	ArchiveDBPath string

	// AMQP. Empty URL disables notification scheduling.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// OCR collaborator. Empty API key disables receipt scanning.
	OCRBaseURL string
	OCRAPIKey  string
	OCRModel   string

	// Scanning
	ScanMaxConcurrent int

	// Notifier worker
	DeliveryPollInterval time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8081"),
		ArchiveDBPath: getEnv("ARCHIVE_DB_PATH", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "reminder_events"),

		OCRBaseURL: getEnv("OCR_BASE_URL", ""),
		OCRAPIKey:  getEnv("OCR_API_KEY", ""),
		OCRModel:   getEnv("OCR_MODEL", ""),

		ScanMaxConcurrent: getEnvInt("SCAN_MAX_CONCURRENT", 3),

		DeliveryPollInterval: getEnvDuration("DELIVERY_POLL_INTERVAL", 15*time.Second),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate archive path if archiving is enabled
	if c.ArchiveDBPath != "" {
		dir := filepath.Dir(c.ArchiveDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create archive database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate OCR base URL if provided
	if c.OCRBaseURL != "" {
		if parsedURL, err := url.Parse(c.OCRBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid OCR base URL '%s': %v", c.OCRBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid OCR base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	// Validate scan concurrency
	if c.ScanMaxConcurrent < 1 {
		errors = append(errors, fmt.Sprintf("invalid scan concurrency %d: must be at least 1", c.ScanMaxConcurrent))
	} else if c.ScanMaxConcurrent > 64 {
		errors = append(errors, fmt.Sprintf("invalid scan concurrency %d: must be at most 64", c.ScanMaxConcurrent))
	}

	// Validate notifier configuration
	if c.DeliveryPollInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid delivery poll interval %v: must be at least 1 second", c.DeliveryPollInterval))
	} else if c.DeliveryPollInterval > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid delivery poll interval %v: must be at most 1 hour", c.DeliveryPollInterval))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ScanningEnabled reports whether receipt scanning is configured.
func (c *Config) ScanningEnabled() bool {
	return c.OCRAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
