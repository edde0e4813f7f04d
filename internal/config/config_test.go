package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  AuthConfig{JWTSecret: "secret"},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_DatabaseIsOptional(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error without DB_HOST, got %v", err)
	}
}

func TestValidate_ProductionRequiresSSLModeWhenDBSet(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "console"
	c.Auth.JWTAudience = "console"
	c.Routing.WebhookToken = "t"
	c.DB = DBConfig{Host: "db", Port: 5432, User: "postgres", Name: "console"}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_RejectsUnknownNumberMatch(t *testing.T) {
	c := validConfig()
	c.Routing.NumberMatch = "fuzzy"
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "ROUTING_NUMBER_MATCH") {
		t.Fatalf("expected ROUTING_NUMBER_MATCH error, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	c := validConfig()
	c.DB = DBConfig{Host: "db", Port: 5432, User: "postgres", Name: "console"}
	c.applyDefaults()

	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.CallerDesk.BaseURL != defaultCallerDeskBaseURL {
		t.Fatalf("unexpected base url %q", c.CallerDesk.BaseURL)
	}
	if c.Routing.HistoryPageSize != 100 {
		t.Fatalf("expected page size 100, got %d", c.Routing.HistoryPageSize)
	}
	if c.Routing.NumberMatch != "exact" {
		t.Fatalf("expected exact matching by default, got %q", c.Routing.NumberMatch)
	}
	if c.Routing.DefaultWorkspace != "default" {
		t.Fatalf("unexpected default workspace %q", c.Routing.DefaultWorkspace)
	}
	if c.App.LivePollInterval != 3*time.Second {
		t.Fatalf("unexpected poll interval %s", c.App.LivePollInterval)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("CALLERDESK_AUTH_CODE", "abc123")
	t.Setenv("ROUTING_HISTORY_PAGE_SIZE", "50")
	t.Setenv("ROUTING_NUMBER_MATCH", "digits")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.App.Port != 9090 || c.CallerDesk.AuthCode != "abc123" {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.Routing.HistoryPageSize != 50 || c.Routing.NumberMatch != "digits" {
		t.Fatalf("unexpected routing config: %+v", c.Routing)
	}
	if c.DB.Enabled() {
		t.Fatalf("expected db disabled")
	}
}

func TestValidate_ProductionRequiresWebhookToken(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "console"
	c.Auth.JWTAudience = "console"
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "ROUTING_WEBHOOK_TOKEN") {
		t.Fatalf("expected ROUTING_WEBHOOK_TOKEN error, got %v", err)
	}
	c.Routing.WebhookToken = "t"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid production config, got %v", err)
	}
}

func TestLoadAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadAuth(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("JWT_ISSUER", " console ")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	a, err := LoadAuth()
	if err != nil {
		t.Fatalf("load auth: %v", err)
	}
	if a.JWTIssuer != "console" || a.AccessTokenTTL != 5*time.Minute {
		t.Fatalf("unexpected auth config: %+v", a)
	}
}
