package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config collects every recognized option. Values come from the
// environment, with a .env file loaded first when present.
type Config struct {
	Port        string
	Issuer      string
	Audience    string
	JWKSURL     string
	Algorithm   string
	WriteScope  string
	UserInfoURL string

	StoreURL         string
	StoreApp         string
	StoreCredentials string
	StoreDocType     string

	OutboundTimeout  time.Duration
	KeyCacheTTL      time.Duration
	KeyFetchesPerMin int
}

func LoadConfig() Config {
	cfg := Config{
		Port:             getenv("PORT", "8000"),
		Issuer:           os.Getenv("ISSUER_URL"),
		Audience:         os.Getenv("AUDIENCE_URL"),
		JWKSURL:          os.Getenv("JWKS_URL"),
		Algorithm:        getenv("SIGNING_ALGORITHM", "RS256"),
		WriteScope:       getenv("WRITE_SCOPE", "write:todos"),
		UserInfoURL:      os.Getenv("USERINFO_URL"),
		StoreURL:         os.Getenv("STORE_URL"),
		StoreApp:         os.Getenv("STORE_APP"),
		StoreCredentials: os.Getenv("STORE_CREDENTIALS"),
		StoreDocType:     getenv("STORE_DOC_TYPE", "todo_reactjs"),
		OutboundTimeout:  getduration("OUTBOUND_TIMEOUT", 10*time.Second),
		KeyCacheTTL:      getduration("JWKS_CACHE_TTL", 10*time.Minute),
		KeyFetchesPerMin: getint("JWKS_REQUESTS_PER_MINUTE", 5),
	}
	if cfg.UserInfoURL == "" && cfg.Issuer != "" {
		cfg.UserInfoURL = strings.TrimSuffix(cfg.Issuer, "/") + "/userinfo"
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
