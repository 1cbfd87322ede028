// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

package issue

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout is ISO 8601 with millisecond precision in UTC, the
// format created_on and updated_on carry on the wire. String
// comparison of two timestamps in this layout is chronological
// comparison.
const timeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders a timestamp in the wire format used by
// created_on and updated_on.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Issue is a tracked work item scoped to a project.
//
// Project is serialized with omitempty: list responses deliberately
// omit the project field (the path segment already names it), while
// create responses include it. The store clears Project on reads and
// preserves it on the record returned from Insert.
type Issue struct {
	ID         ID     `json:"_id"`
	Project    string `json:"project,omitempty"`
	Title      string `json:"issue_title"`
	Text       string `json:"issue_text"`
	CreatedBy  string `json:"created_by"`
	AssignedTo string `json:"assigned_to"`
	StatusText string `json:"status_text"`
	Open       bool   `json:"open"`
	CreatedOn  string `json:"created_on"`
	UpdatedOn  string `json:"updated_on"`
}

// CreateParams carries the client-supplied fields of a create request.
// Title, Text, and CreatedBy are required; the rest default to the
// empty string.
type CreateParams struct {
	Title      string `json:"issue_title"`
	Text       string `json:"issue_text"`
	CreatedBy  string `json:"created_by"`
	AssignedTo string `json:"assigned_to"`
	StatusText string `json:"status_text"`
}

// ValidationError reports which required fields were absent or empty
// on a create request. The API maps any ValidationError to a single
// generic payload, but the field list makes logs and tests precise.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("issue: required field(s) missing: %s", strings.Join(e.Missing, ", "))
}

// New validates params and constructs a new Issue for the given
// project. On success the issue has open=true, empty-string defaults
// for the optional fields, and created_on == updated_on derived from
// now. The ID is not set here — the store assigns it on insert.
//
// If any required field is absent or empty, New returns a
// *ValidationError and a zero Issue; nothing is persisted.
func New(project string, params CreateParams, now time.Time) (Issue, error) {
	var missing []string
	if params.Title == "" {
		missing = append(missing, "issue_title")
	}
	if params.Text == "" {
		missing = append(missing, "issue_text")
	}
	if params.CreatedBy == "" {
		missing = append(missing, "created_by")
	}
	if len(missing) > 0 {
		return Issue{}, &ValidationError{Missing: missing}
	}

	timestamp := FormatTime(now)
	return Issue{
		Project:    project,
		Title:      params.Title,
		Text:       params.Text,
		CreatedBy:  params.CreatedBy,
		AssignedTo: params.AssignedTo,
		StatusText: params.StatusText,
		Open:       true,
		CreatedOn:  timestamp,
		UpdatedOn:  timestamp,
	}, nil
}

// Update holds the fields an update request may change. Nil means
// "leave unchanged". ID, project, and created_on are immutable and
// have no representation here; updated_on is refreshed by the store
// as part of the write, not chosen by the caller.
type Update struct {
	Title      *string
	Text       *string
	CreatedBy  *string
	AssignedTo *string
	StatusText *string
	Open       *bool
}

// IsZero reports whether the update changes nothing.
func (u Update) IsZero() bool {
	return u.Title == nil && u.Text == nil && u.CreatedBy == nil &&
		u.AssignedTo == nil && u.StatusText == nil && u.Open == nil
}
