package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
    for _, k := range []string{"JIRA_DOMAIN", "JIRA_EMAIL", "JIRA_API_TOKEN", "JIRA_PROJECT_KEY", "JIRA_PAGE_SIZE", "HTTP_TIMEOUT", "OUTPUT_PATH", "CRON_SPEC"} {
        t.Setenv(k, "")
    }
    cfg := Load()
    require.Equal(t, "hbeindia.atlassian.net", cfg.JiraDomain)
    require.Equal(t, "VZY", cfg.ProjectKey)
    require.Equal(t, DefaultPageSize, cfg.PageSize)
    require.Equal(t, 15*time.Second, cfg.HTTPTimeout)
    require.Equal(t, "data.json", cfg.OutputPath)
    require.Empty(t, cfg.CronSpec)
}

func TestValidate_MissingCredentials(t *testing.T) {
    cfg := Config{JiraDomain: "example.atlassian.net", ProjectKey: "VZY"}
    err := cfg.Validate()
    require.Error(t, err)
    require.Contains(t, err.Error(), "JIRA_EMAIL")
    require.Contains(t, err.Error(), "JIRA_API_TOKEN")
}

func TestValidate_OK(t *testing.T) {
    cfg := Config{
        JiraDomain:   "example.atlassian.net",
        JiraEmail:    "bot@example.com",
        JiraAPIToken: "tok",
        ProjectKey:   "VZY",
    }
    require.NoError(t, cfg.Validate())
    require.Equal(t, "https://example.atlassian.net", cfg.JiraBaseURL())
}
