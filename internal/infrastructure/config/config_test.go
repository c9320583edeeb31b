package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func required() map[string]string {
	return map[string]string{
		"JWT_ACCESS_SECRET":     "secret",
		"JWT_ACCESS_EXPIRATION": "240h",
		"BCRYPT_SALT_ROUNDS":    "12",
	}
}

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(required()))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Auth.JWTSecret != "secret" || cfg.Auth.JWTExpiration != 240*time.Hour || cfg.Auth.BcryptCost != 12 {
		t.Errorf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Auth.LoginMaxAttempts != 5 || cfg.Auth.LoginWindow != 15*time.Minute {
		t.Errorf("unexpected throttle defaults: %+v", cfg.Auth)
	}
	if cfg.Mongo.Database != "commerce" || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.Audit.Workers != 4 {
		t.Errorf("expected 4 audit workers, got %d", cfg.Audit.Workers)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development environment")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	env := required()
	env["PORT"] = "9000"
	env["ENV"] = "production"
	env["LOGIN_MAX_ATTEMPTS"] = "0"
	env["ADMIN_EMAIL"] = "root@example.com"

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Port != "9000" || cfg.IsDevelopment() {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
	if cfg.Auth.LoginMaxAttempts != 0 {
		t.Errorf("expected throttle disabled, got %d", cfg.Auth.LoginMaxAttempts)
	}
	if cfg.Admin.Email != "root@example.com" || cfg.Admin.Name != "Administrator" {
		t.Errorf("unexpected admin config: %+v", cfg.Admin)
	}
}

func TestLoadWith_MissingRequired(t *testing.T) {
	for key := range required() {
		t.Run(key, func(t *testing.T) {
			env := required()
			delete(env, key)
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error when %s is missing", key)
			}
		})
	}
}

func TestLoadWith_InvalidDuration(t *testing.T) {
	env := required()
	env["JWT_ACCESS_EXPIRATION"] = "ten days"
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}
