/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "fmt"
    "sort"
    "strings"

    "github.com/HamedShams/bug-pulse/internal/domain"
)

// DetectPlatform classifies one raw issue record into a platform. Pure
// function of the record's visible fields; the second return is false when
// nothing in the record matches the rule table, which is a normal outcome for
// issues outside the tracked platform set.
func DetectPlatform(issue map[string]any) (domain.Platform, bool) {
    text := searchText(issue)
    for _, rule := range domain.PlatformRules() {
        for _, pat := range rule.Patterns {
            if strings.Contains(text, pat) { return rule.Platform, true }
        }
    }
    return "", false
}

// searchText concatenates the platform signals in priority order of richness:
// labels, component names, custom field values, then the free-text summary.
// Missing fields contribute nothing; the result is upper-cased once.
func searchText(issue map[string]any) string {
    fields, _ := issue["fields"].(map[string]any)
    if fields == nil { return "" }
    parts := make([]string, 0, 8)
    parts = append(parts, issueLabels(fields)...)
    parts = append(parts, componentNames(fields)...)
    parts = append(parts, customFieldValues(fields)...)
    if s := toStrAny(fields["summary"]); s != "" { parts = append(parts, s) }
    return strings.ToUpper(strings.Join(parts, " "))
}

func issueLabels(fields map[string]any) []string {
    lv, _ := fields["labels"].([]any)
    out := make([]string, 0, len(lv))
    for _, x := range lv {
        if s, ok := x.(string); ok && s != "" { out = append(out, s) }
    }
    return out
}

func componentNames(fields map[string]any) []string {
    cv, _ := fields["components"].([]any)
    out := make([]string, 0, len(cv))
    for _, c0 := range cv {
        if cm, _ := c0.(map[string]any); cm != nil {
            if n := toStrAny(cm["name"]); n != "" { out = append(out, n) }
        }
    }
    return out
}

// customFieldValues scans every customfield_* entry. Which field carries the
// platform tag is not fixed by the remote schema, so all of them are unwrapped
// generically. Keys are sorted so the search text is stable across runs.
func customFieldValues(fields map[string]any) []string {
    keys := make([]string, 0, len(fields))
    for k := range fields {
        if strings.HasPrefix(k, "customfield_") { keys = append(keys, k) }
    }
    sort.Strings(keys)
    out := make([]string, 0, len(keys))
    for _, k := range keys {
        if s := optionToString(fields[k]); s != "" { out = append(out, s) }
    }
    return out
}

// optionToString flattens the four value shapes Jira uses for custom fields:
// plain string, option object with value/name, and arrays of either.
// Unrecognized shapes are ignored rather than stringified.
func optionToString(v any) string {
    switch t := v.(type) {
    case nil:
        return ""
    case string:
        return t
    case map[string]any:
        if s, ok := t["value"].(string); ok { return s }
        if name, ok := t["name"].(string); ok { return name }
        return ""
    case []any:
        vals := make([]string, 0, len(t))
        for _, it := range t {
            switch m := it.(type) {
            case map[string]any:
                if s, ok := m["value"].(string); ok { vals = append(vals, s); continue }
                if name, ok := m["name"].(string); ok { vals = append(vals, name) }
            case string:
                vals = append(vals, m)
            }
        }
        return strings.Join(vals, " ")
    default:
        return ""
    }
}

func toStrAny(v any) string {
    if v == nil { return "" }
    if s, ok := v.(string); ok { return s }
    return fmt.Sprintf("%v", v)
}
