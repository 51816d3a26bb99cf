package domain

import (
    "strings"
    "time"
)

// Platform is the product surface a bug is attributed to. The set is closed:
// the dashboard renders exactly these nine rows.
type Platform string

const (
    PlatformAndroid      Platform = "ANDROID"
    PlatformATV          Platform = "ATV"
    PlatformCMSAdaptor   Platform = "CMS Adaptor"
    PlatformCMSDashboard Platform = "CMS Dashboard"
    PlatformDishIT       Platform = "DishIT"
    PlatformIOS          Platform = "IOS"
    PlatformLGTV         Platform = "LG_TV"
    PlatformSamTV        Platform = "SAM_TV"
    PlatformWeb          Platform = "WEB"
)

// Platforms returns the platform set in dashboard row order.
func Platforms() []Platform {
    return []Platform{
        PlatformAndroid, PlatformATV, PlatformCMSAdaptor, PlatformCMSDashboard,
        PlatformDishIT, PlatformIOS, PlatformLGTV, PlatformSamTV, PlatformWeb,
    }
}

// Status is a tracked workflow state. Raw status names are matched against
// these upper-cased; anything else stays out of the matrix.
type Status string

const (
    StatusOpen          Status = "OPEN"
    StatusInProgress    Status = "IN PROGRESS"
    StatusReopened      Status = "REOPENED"
    StatusInReview      Status = "IN REVIEW"
    StatusIssueAccepted Status = "ISSUE ACCEPTED"
    StatusParked        Status = "PARKED"
)

// Statuses returns the tracked status set in dashboard column order.
func Statuses() []Status {
    return []Status{
        StatusOpen, StatusInProgress, StatusReopened,
        StatusInReview, StatusIssueAccepted, StatusParked,
    }
}

// TrackedStatus maps a raw Jira status name onto the tracked set.
func TrackedStatus(raw string) (Status, bool) {
    s := Status(strings.ToUpper(strings.TrimSpace(raw)))
    for _, known := range Statuses() {
        if s == known { return s, true }
    }
    return "", false
}

// PlatformRule binds one platform to the substring patterns that select it.
type PlatformRule struct {
    Platform Platform
    Patterns []string
}

// PlatformRules returns the ordered classification table. Order is load-bearing:
// the CMS sub-applications and the TV OS names (WEBOS, TIZEN) must be tested
// before the broader substrings they contain or alias (WEB, LG, SAMSUNG), and
// the TV variants of ANDROID must win over plain ANDROID. First match decides;
// adding a pattern can reclassify issues matched further down the table.
func PlatformRules() []PlatformRule {
    return []PlatformRule{
        {PlatformCMSAdaptor, []string{"CMS ADAPTOR", "CMS_ADAPTOR", "CMSADAPTOR"}},
        {PlatformCMSDashboard, []string{"CMS DASHBOARD", "CMS_DASHBOARD", "CMSDASHBOARD"}},
        {PlatformATV, []string{"ATV", "APPLE TV", "APPLE_TV", "APPLETV", "ANDROID TV", "ANDROID_TV", "ANDROIDTV"}},
        {PlatformAndroid, []string{"ANDROID", "ANDROID MOBILE", "ANDROID_MOBILE"}},
        {PlatformIOS, []string{"IOS"}},
        {PlatformLGTV, []string{"WEBOS", "LG_TV", "LG TV", "LGTV", "LG"}},
        {PlatformSamTV, []string{"TIZEN", "SAM_TV", "SAM TV", "SAMSUNG TV", "SAMSUNG_TV", "SAMSUNG"}},
        {PlatformDishIT, []string{"DISHIT", "DISH_IT", "DISH IT", "DISH"}},
        {PlatformWeb, []string{"WEB"}},
    }
}

// Matrix is the platform × status count table consumed by the dashboard.
type Matrix map[Platform]map[Status]int

// NewMatrix returns a matrix with every cell present and zero, so the output
// shape is fixed regardless of input.
func NewMatrix() Matrix {
    m := make(Matrix, len(Platforms()))
    for _, p := range Platforms() {
        row := make(map[Status]int, len(Statuses()))
        for _, s := range Statuses() { row[s] = 0 }
        m[p] = row
    }
    return m
}

// Total sums all cells.
func (m Matrix) Total() int {
    n := 0
    for _, row := range m {
        for _, v := range row { n += v }
    }
    return n
}

// Snapshot is the single persisted artifact, fully rewritten each run.
type Snapshot struct {
    Data               Matrix `json:"data"`
    UpdatedAt          string `json:"updated_at"`
    TotalIssuesFetched int    `json:"total_issues_fetched"`
    Project            string `json:"project"`
}

// Diagnostics carries operator-facing tallies that never affect the matrix.
type Diagnostics struct {
    SkippedType       int
    UnmatchedPlatform int
    UntrackedStatus   int
    SeenStatuses      []string
    SeenLabels        []string
    SeenComponents    []string
}

// RunInfo records the outcome of one collection run.
type RunInfo struct {
    StartedAt         time.Time `json:"started_at"`
    FinishedAt        time.Time `json:"finished_at"`
    IssuesFetched     int       `json:"issues_fetched"`
    CellsCounted      int       `json:"cells_counted"`
    UnmatchedPlatform int       `json:"unmatched_platform"`
    UntrackedStatus   int       `json:"untracked_status"`
    OK                bool      `json:"ok"`
    Error             string    `json:"error,omitempty"`
}
