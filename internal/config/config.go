package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port        string
	DatabaseDSN string
	Env         string

	// SessionSecret signs session cookies. Process-wide, read once,
	// never rotated at runtime.
	SessionSecret string

	// Mail relay credentials for the contact form.
	MailAddress  string
	MailPassword string
	SMTPHost     string
	SMTPPort     int

	// AdminIDs is the privileged-identity allow-list.
	AdminIDs []uint
}

// Load reads configuration from the environment. The session-signing key
// and mail-relay credentials are mandatory: returning an error here aborts
// startup instead of silently disabling auth or the contact form.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "5001"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "cafes.db"),
		Env:           getEnv("APP_ENV", "development"),
		SessionSecret: os.Getenv("SECRET_KEY"),
		MailAddress:   os.Getenv("EMAIL_KEY"),
		MailPassword:  os.Getenv("PASSWORD_KEY"),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
	}
	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return cfg, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTPPort = port

	var missing []string
	if cfg.SessionSecret == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if cfg.MailAddress == "" {
		missing = append(missing, "EMAIL_KEY")
	}
	if cfg.MailPassword == "" {
		missing = append(missing, "PASSWORD_KEY")
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	ids, err := parseIDs(getEnv("ADMIN_IDS", "1,2"))
	if err != nil {
		return cfg, fmt.Errorf("invalid ADMIN_IDS: %w", err)
	}
	cfg.AdminIDs = ids
	return cfg, nil
}

func parseIDs(s string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
