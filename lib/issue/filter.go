// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

package issue

import (
	"fmt"
)

// Filter controls which issues a list query returns. Nil fields mean
// "no filter" for that dimension; all non-nil fields must match
// exactly (AND semantics). The project scope is carried separately by
// the store call, since every list is project-scoped.
type Filter struct {
	// ID matches a single issue by identifier.
	ID *ID

	Title      *string
	Text       *string
	CreatedBy  *string
	AssignedTo *string
	StatusText *string

	// Open matches the boolean open flag.
	Open *bool

	CreatedOn *string
	UpdatedOn *string

	// matchless is set when the query named a field no issue has.
	// Such filters yield an empty result set rather than an error,
	// the way a document store treats absent fields.
	matchless bool
}

// MatchesNone reports whether the filter can never match any issue.
func (f *Filter) MatchesNone() bool { return f.matchless }

// ParseFilter builds a Filter from raw query parameters. Each key
// names an issue field and filters on exact equality after coercion
// appropriate to the field's type; for repeated keys the first value
// wins. A key naming no issue field yields a filter that matches
// nothing. A value that cannot be coerced to the field's type (a
// non-boolean "open", a malformed "_id") is an error, which the API
// surfaces as a server error rather than an empty result.
func ParseFilter(params map[string][]string) (Filter, error) {
	var filter Filter
	for key, values := range params {
		if len(values) == 0 {
			continue
		}
		value := values[0]

		switch key {
		case "_id":
			id, err := ParseID(value)
			if err != nil {
				return Filter{}, fmt.Errorf("filter _id: %w", err)
			}
			filter.ID = &id
		case "issue_title":
			filter.Title = &value
		case "issue_text":
			filter.Text = &value
		case "created_by":
			filter.CreatedBy = &value
		case "assigned_to":
			filter.AssignedTo = &value
		case "status_text":
			filter.StatusText = &value
		case "open":
			open, err := parseBool(value)
			if err != nil {
				return Filter{}, fmt.Errorf("filter open: %w", err)
			}
			filter.Open = &open
		case "created_on":
			filter.CreatedOn = &value
		case "updated_on":
			filter.UpdatedOn = &value
		default:
			filter.matchless = true
		}
	}
	return filter, nil
}

// parseBool coerces the string forms accepted for the open flag.
func parseBool(s string) (bool, error) {
	switch s {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("cannot coerce %q to boolean", s)
}

// ParseBool is the coercion used for boolean fields arriving in JSON
// bodies, where the value may already be a bool or may be a string
// form. Returns an error for anything else.
func ParseBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return parseBool(v)
	}
	return false, fmt.Errorf("cannot coerce %T to boolean", value)
}
