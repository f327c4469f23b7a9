// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr         string
	DBPath             string
	HostingAPIURL      string
	FirewallURL        string
	HTTPCache          bool
	ActivityLimit      int
	SessionIdleTimeout time.Duration
	GitHubToken        string
	GitHubRepo         string
}

// HasGitHubIssues returns true when both a token and an owner/repo are set.
// The composition root only wires the issues panel in that case.
func (c *Config) HasGitHubIssues() bool {
	return c.GitHubToken != "" && c.GitHubRepo != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// Optional variables with defaults: CLOUDPANEL_LISTEN_ADDR (127.0.0.1:8080),
// CLOUDPANEL_DB_PATH (cloudpanel.db), CLOUDPANEL_HOSTING_API_URL
// (https://api.vercel.com), CLOUDPANEL_FIREWALL_URL
// (https://hive-chi-woad.vercel.app), CLOUDPANEL_HTTP_CACHE (false),
// CLOUDPANEL_ACTIVITY_LIMIT (50), CLOUDPANEL_SESSION_IDLE_TIMEOUT (8h).
// CLOUDPANEL_GITHUB_TOKEN and CLOUDPANEL_GITHUB_REPO enable the issues panel.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:         "127.0.0.1:8080",
		DBPath:             "cloudpanel.db",
		HostingAPIURL:      "https://api.vercel.com",
		FirewallURL:        "https://hive-chi-woad.vercel.app",
		ActivityLimit:      50,
		SessionIdleTimeout: 8 * time.Hour,
		GitHubToken:        os.Getenv("CLOUDPANEL_GITHUB_TOKEN"),
	}

	if v, ok := os.LookupEnv("CLOUDPANEL_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}

	if v, ok := os.LookupEnv("CLOUDPANEL_DB_PATH"); ok {
		cfg.DBPath = v
	}

	if v, ok := os.LookupEnv("CLOUDPANEL_HOSTING_API_URL"); ok {
		u, err := parseBaseURL("CLOUDPANEL_HOSTING_API_URL", v)
		if err != nil {
			return nil, err
		}
		cfg.HostingAPIURL = u
	}

	if v, ok := os.LookupEnv("CLOUDPANEL_FIREWALL_URL"); ok {
		u, err := parseBaseURL("CLOUDPANEL_FIREWALL_URL", v)
		if err != nil {
			return nil, err
		}
		cfg.FirewallURL = u
	}

	if v, ok := os.LookupEnv("CLOUDPANEL_HTTP_CACHE"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("CLOUDPANEL_HTTP_CACHE has invalid boolean %q: %w", v, err)
		}
		cfg.HTTPCache = enabled
	}

	if v, ok := os.LookupEnv("CLOUDPANEL_ACTIVITY_LIMIT"); ok && v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("CLOUDPANEL_ACTIVITY_LIMIT has invalid integer %q: %w", v, err)
		}
		if limit < 1 {
			return nil, fmt.Errorf("CLOUDPANEL_ACTIVITY_LIMIT must be at least 1, got %d", limit)
		}
		cfg.ActivityLimit = limit
	}

	if v, ok := os.LookupEnv("CLOUDPANEL_SESSION_IDLE_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CLOUDPANEL_SESSION_IDLE_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("CLOUDPANEL_SESSION_IDLE_TIMEOUT must be positive, got %s", d)
		}
		cfg.SessionIdleTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("CLOUDPANEL_GITHUB_REPO")); v != "" {
		owner, name, ok := strings.Cut(v, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return nil, fmt.Errorf("CLOUDPANEL_GITHUB_REPO must be owner/repo, got %q", v)
		}
		cfg.GitHubRepo = v
	}

	return cfg, nil
}

// parseBaseURL requires an absolute http(s) URL and strips any trailing slash.
func parseBaseURL(key, raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s has invalid URL %q: %w", key, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}
