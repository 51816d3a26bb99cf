/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"
)

// DefaultPageSize is the Jira search page size. Jira Cloud caps search pages at
// 100 results, so asking for more only wastes a round trip.
const DefaultPageSize = 100

type Config struct {
    AppEnv   string
    HTTPAddr string

    JiraDomain   string
    JiraEmail    string
    JiraAPIToken string
    ProjectKey   string

    PageSize    int
    HTTPTimeout time.Duration
    MaxRetries  int

    OutputPath string

    // CronSpec enables serve mode when non-empty; empty means run once and exit.
    CronSpec string
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func atoi(key string, def int) int {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

func Load() Config {
    return Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),

        JiraDomain:   getenv("JIRA_DOMAIN", "hbeindia.atlassian.net"),
        JiraEmail:    getenv("JIRA_EMAIL", ""),
        JiraAPIToken: getenv("JIRA_API_TOKEN", ""),
        ProjectKey:   getenv("JIRA_PROJECT_KEY", "VZY"),

        PageSize:    atoi("JIRA_PAGE_SIZE", DefaultPageSize),
        HTTPTimeout: dur("HTTP_TIMEOUT", 15*time.Second),
        MaxRetries:  atoi("JIRA_MAX_RETRIES", 3),

        OutputPath: getenv("OUTPUT_PATH", "data.json"),

        CronSpec: getenv("CRON_SPEC", ""),
    }
}

// Validate reports missing credentials before any network call is attempted.
// The credential pair has no default on purpose; everything else does.
func (c Config) Validate() error {
    var missing []string
    if strings.TrimSpace(c.JiraEmail) == "" { missing = append(missing, "JIRA_EMAIL") }
    if strings.TrimSpace(c.JiraAPIToken) == "" { missing = append(missing, "JIRA_API_TOKEN") }
    if len(missing) > 0 {
        return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
    }
    if strings.TrimSpace(c.JiraDomain) == "" { return fmt.Errorf("JIRA_DOMAIN must not be empty") }
    if strings.TrimSpace(c.ProjectKey) == "" { return fmt.Errorf("JIRA_PROJECT_KEY must not be empty") }
    return nil
}

// JiraBaseURL builds the tracker endpoint base from the configured domain.
func (c Config) JiraBaseURL() string {
    return "https://" + strings.TrimRight(strings.TrimSpace(c.JiraDomain), "/")
}
