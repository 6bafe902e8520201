package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	// Google Sheets
	GoogleSpreadsheetID string
	PlanSheetName       string
	MetadataSheetName   string

	// Retry wrapper
	RetryMaxElapsed time.Duration

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		PlanSheetName:       getEnv("PLAN_SHEET_NAME", "BudgetPlan"),
		MetadataSheetName:   getEnv("METADATA_SHEET_NAME", "Metadata"),

		RetryMaxElapsed: getEnvDuration("RETRY_MAX_ELAPSED", 2*time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "runway"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "plan_events"),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.GoogleSpreadsheetID == "" {
		errs = append(errs, "GOOGLE_SPREADSHEET_ID is required")
	}
	if strings.TrimSpace(c.PlanSheetName) == "" {
		errs = append(errs, "plan sheet name cannot be empty")
	}
	if strings.TrimSpace(c.MetadataSheetName) == "" {
		errs = append(errs, "metadata sheet name cannot be empty")
	}
	if c.PlanSheetName == c.MetadataSheetName {
		errs = append(errs, "plan and metadata sheets must be different tabs")
	}

	if c.RetryMaxElapsed < time.Second {
		errs = append(errs, fmt.Sprintf("invalid retry max elapsed %v: must be at least 1 second", c.RetryMaxElapsed))
	} else if c.RetryMaxElapsed > 15*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid retry max elapsed %v: must be at most 15 minutes", c.RetryMaxElapsed))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
