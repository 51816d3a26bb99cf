/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"

    "github.com/HamedShams/bug-pulse/internal/config"
    "github.com/cenkalti/backoff/v5"
    "github.com/rs/zerolog"
)

// searchFields is what each issue record carries back; the classifier and
// aggregator only look at these plus any customfield_* entries Jira adds.
var searchFields = []string{"status", "issuetype", "labels", "components", "summary", "priority", "assignee", "updated"}

// strategy is the pagination capability committed to after probing. There is
// no transition back: once a run is on cursor or offset it stays there.
type strategy int

const (
    strategyUnprobed strategy = iota
    strategyCursor
    strategyOffset
)

// SearchPage is one page of a search response in either pagination style.
type SearchPage struct {
    Issues        []map[string]any
    Total         int
    NextPageToken string
}

type Client struct {
    baseURL  string
    email    string
    token    string
    pageSize int
    retries  int
    http     *http.Client
    log      zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL:  cfg.JiraBaseURL(),
        email:    cfg.JiraEmail,
        token:    cfg.JiraAPIToken,
        pageSize: cfg.PageSize,
        retries:  cfg.MaxRetries,
        http:     &http.Client{Timeout: cfg.HTTPTimeout},
        log:      log,
    }
}

func (c *Client) apiURL(path string, q url.Values) string {
    base := strings.TrimRight(c.baseURL, "/")
    if !strings.HasPrefix(path, "/") { path = "/" + path }
    u := base + path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    return u
}

func truncateBody(b []byte) string {
    const max = 512
    s := strings.TrimSpace(string(b))
    if len(s) > max { s = s[:max] + "..." }
    return s
}

// doJSON performs one authenticated JSON request with bounded retry on 429,
// 5xx and transport faults. Other non-success statuses fail immediately.
func (c *Client) doJSON(ctx context.Context, method, u string, body any) (map[string]any, error) {
    if c.baseURL == "" { return nil, errors.New("jira: empty baseURL") }
    var payload []byte
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil { return nil, err }
        payload = b
    }
    attempt := func() (map[string]any, error) {
        var r io.Reader
        if payload != nil { r = bytes.NewReader(payload) }
        req, err := http.NewRequestWithContext(ctx, method, u, r)
        if err != nil { return nil, backoff.Permanent(err) }
        req.Header.Set("Accept", "application/json")
        if payload != nil { req.Header.Set("Content-Type", "application/json") }
        req.SetBasicAuth(c.email, c.token)
        resp, err := c.http.Do(req)
        if err != nil { return nil, err }
        defer resp.Body.Close()
        if resp.StatusCode >= 300 {
            b, _ := io.ReadAll(resp.Body)
            apiErr := fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, truncateBody(b))
            if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
                return nil, apiErr
            }
            return nil, backoff.Permanent(apiErr)
        }
        var out map[string]any
        if err := json.NewDecoder(resp.Body).Decode(&out); err != nil { return nil, backoff.Permanent(err) }
        return out, nil
    }
    return backoff.Retry(ctx, attempt,
        backoff.WithBackOff(backoff.NewExponentialBackOff()),
        backoff.WithMaxTries(uint(c.retries)))
}

func parseSearchPage(m map[string]any) *SearchPage {
    page := &SearchPage{}
    if arr, ok := m["issues"].([]any); ok {
        page.Issues = make([]map[string]any, 0, len(arr))
        for _, it := range arr {
            if im, _ := it.(map[string]any); im != nil { page.Issues = append(page.Issues, im) }
        }
    }
    if t, ok := m["total"].(float64); ok { page.Total = int(t) }
    if tok, ok := m["nextPageToken"].(string); ok { page.NextPageToken = tok }
    return page
}

// CursorPage fetches one page via the token-paginated /search/jql endpoint
// (Jira Cloud, replaces the deprecated /rest/api/3/search).
func (c *Client) CursorPage(ctx context.Context, jql, pageToken string, max int) (*SearchPage, error) {
    if jql == "" { return nil, errors.New("jira: empty jql") }
    body := map[string]any{"jql": jql, "maxResults": max, "fields": searchFields}
    if pageToken != "" { body["nextPageToken"] = pageToken }
    u := c.apiURL("/rest/api/3/search/jql", nil)
    m, err := c.doJSON(ctx, http.MethodPost, u, body)
    if err != nil { return nil, err }
    return parseSearchPage(m), nil
}

// OffsetPage fetches one page via the classic startAt/maxResults search
// endpoint (Jira Server/DC and older Cloud sites).
func (c *Client) OffsetPage(ctx context.Context, jql string, startAt, max int) (*SearchPage, error) {
    if jql == "" { return nil, errors.New("jira: empty jql") }
    q := url.Values{}
    q.Set("jql", jql)
    q.Set("startAt", fmt.Sprint(startAt))
    q.Set("maxResults", fmt.Sprint(max))
    q.Set("fields", strings.Join(searchFields, ","))
    u := c.apiURL("/rest/api/2/search", q)
    m, err := c.doJSON(ctx, http.MethodGet, u, nil)
    if err != nil { return nil, err }
    return parseSearchPage(m), nil
}

// probe decides which pagination style the site supports with one minimal
// cursor request. Probe failure is not fatal; it commits the offset fallback.
func (c *Client) probe(ctx context.Context, jql string) strategy {
    if _, err := c.CursorPage(ctx, jql, "", 1); err != nil {
        c.log.Info().Err(err).Msg("jira: cursor search unavailable, falling back to offset pagination")
        return strategyOffset
    }
    return strategyCursor
}

// ProjectBugs fetches every bug in the project, most recently updated first.
// An empty result is valid; any mid-fetch failure aborts with no partial result.
func (c *Client) ProjectBugs(ctx context.Context, projectKey string) ([]map[string]any, error) {
    if strings.TrimSpace(projectKey) == "" { return nil, errors.New("jira: empty project key") }
    jql := fmt.Sprintf("project = %s AND type = Bug ORDER BY updated DESC", projectKey)
    strat := c.probe(ctx, jql)
    if strat == strategyCursor {
        return c.fetchByCursor(ctx, jql)
    }
    return c.fetchByOffset(ctx, jql)
}

func (c *Client) fetchByCursor(ctx context.Context, jql string) ([]map[string]any, error) {
    var all []map[string]any
    token := ""
    for {
        page, err := c.CursorPage(ctx, jql, token, c.pageSize)
        if err != nil { return nil, err }
        all = append(all, page.Issues...)
        c.log.Info().Int("fetched", len(all)).Msg("jira: fetch progress")
        if page.NextPageToken == "" || len(page.Issues) == 0 { break }
        token = page.NextPageToken
    }
    return all, nil
}

func (c *Client) fetchByOffset(ctx context.Context, jql string) ([]map[string]any, error) {
    var all []map[string]any
    startAt := 0
    for {
        page, err := c.OffsetPage(ctx, jql, startAt, c.pageSize)
        if err != nil { return nil, err }
        all = append(all, page.Issues...)
        c.log.Info().Int("fetched", len(all)).Int("total", page.Total).Msg("jira: fetch progress")
        if len(page.Issues) == 0 { break }
        startAt += c.pageSize
        if page.Total > 0 && len(all) >= page.Total { break }
    }
    return all, nil
}
