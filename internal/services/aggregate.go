/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "sort"
    "strings"

    "github.com/HamedShams/bug-pulse/internal/domain"
)

// trackedIssueType is the only issue type counted into the matrix. The fetch
// JQL already filters on it, but the aggregator re-checks so a relaxed query
// or a test stub cannot inflate counts.
const trackedIssueType = "Bug"

// Aggregate folds the fetched issues into the platform × status matrix plus
// operator diagnostics. Cell increments are commutative, so the result does
// not depend on input order.
func Aggregate(issues []map[string]any) (domain.Matrix, domain.Diagnostics) {
    matrix := domain.NewMatrix()
    diag := domain.Diagnostics{}
    seenStatuses := map[string]struct{}{}
    seenLabels := map[string]struct{}{}
    seenComponents := map[string]struct{}{}

    for _, issue := range issues {
        fields, _ := issue["fields"].(map[string]any)
        if fields == nil { fields = map[string]any{} }

        rawStatus := ""
        if st, ok := fields["status"].(map[string]any); ok { rawStatus = toStrAny(st["name"]) }
        if rawStatus != "" { seenStatuses[rawStatus] = struct{}{} }
        for _, l := range issueLabels(fields) { seenLabels[l] = struct{}{} }
        for _, c := range componentNames(fields) { seenComponents[c] = struct{}{} }

        typ := ""
        if it, ok := fields["issuetype"].(map[string]any); ok { typ = toStrAny(it["name"]) }
        if !strings.EqualFold(strings.TrimSpace(typ), trackedIssueType) {
            diag.SkippedType++
            continue
        }

        platform, matched := DetectPlatform(issue)
        status, tracked := domain.TrackedStatus(rawStatus)
        switch {
        case matched && tracked:
            matrix[platform][status]++
        case !matched:
            diag.UnmatchedPlatform++
        default:
            diag.UntrackedStatus++
        }
    }

    diag.SeenStatuses = sortedKeys(seenStatuses)
    diag.SeenLabels = sortedKeys(seenLabels)
    diag.SeenComponents = sortedKeys(seenComponents)
    return matrix, diag
}

func sortedKeys(set map[string]struct{}) []string {
    out := make([]string, 0, len(set))
    for k := range set { out = append(out, k) }
    sort.Strings(out)
    return out
}
