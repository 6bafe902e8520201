package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		GoogleSpreadsheetID: "sheet-id",
		PlanSheetName:       "BudgetPlan",
		MetadataSheetName:   "Metadata",
		RetryMaxElapsed:     2 * time.Minute,
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	c := &Config{
		PlanSheetName:     "Same",
		MetadataSheetName: "Same",
		RetryMaxElapsed:   time.Millisecond,
		AMQPURL:           "http://not-amqp",
	}
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	for _, want := range []string{
		"GOOGLE_SPREADSHEET_ID",
		"different tabs",
		"retry max elapsed",
		"AMQP URL scheme",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error, got: %s", want, msg)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	c := Load()
	if c.PlanSheetName != "BudgetPlan" || c.MetadataSheetName != "Metadata" {
		t.Fatalf("unexpected sheet defaults: %+v", c)
	}
	if c.RetryMaxElapsed != 2*time.Minute {
		t.Fatalf("unexpected retry default: %v", c.RetryMaxElapsed)
	}
}
