// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/trackd-project/trackd/lib/clock"
	"github.com/trackd-project/trackd/lib/issue"
	"github.com/trackd-project/trackd/lib/issuestore"
)

// apiHandler holds the dependencies the issue API needs. It has no
// mutable state of its own; the store owns all persistence, so the
// handler is safe for concurrent requests.
type apiHandler struct {
	store  *issuestore.Store
	clock  clock.Clock
	logger *slog.Logger
}

// newHandler builds the full route table: the issue API under
// /api/issues/{project}, the embedded HTML views, and a plain-text 404
// for everything else.
func newHandler(store *issuestore.Store, clk clock.Clock, logger *slog.Logger) http.Handler {
	h := &apiHandler{store: store, clock: clk, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/issues/{project}", h.listIssues)
	mux.HandleFunc("POST /api/issues/{project}", h.createIssue)
	mux.HandleFunc("PUT /api/issues/{project}", h.updateIssue)
	mux.HandleFunc("DELETE /api/issues/{project}", h.deleteIssue)
	mux.HandleFunc("GET /{$}", h.serveIndex)
	mux.HandleFunc("GET /{project}", h.serveProjectView)
	mux.HandleFunc("/", h.notFound)

	return requestLogging(mux, logger)
}

// listIssues handles GET /api/issues/{project}. Every query parameter
// is an exact-match filter; a key naming no issue field yields an
// empty array. An uncoercible value (bad _id, non-boolean open) is a
// server error, not an empty result.
func (h *apiHandler) listIssues(w http.ResponseWriter, r *http.Request) {
	project := r.PathValue("project")

	filter, err := issue.ParseFilter(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: err.Error()})
		return
	}

	issues, err := h.store.Find(r.Context(), project, filter)
	if err != nil {
		h.logger.Error("list issues failed", "project", project, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

// createIssue handles POST /api/issues/{project}. A missing required
// field yields the fixed payload {"error":"required field(s) missing"}
// and persists nothing; success returns the full stored record
// including its assigned _id and the project.
func (h *apiHandler) createIssue(w http.ResponseWriter, r *http.Request) {
	project := r.PathValue("project")

	body, err := parseBody(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: err.Error()})
		return
	}

	record, err := issue.New(project, issue.CreateParams{
		Title:      stringField(body, "issue_title"),
		Text:       stringField(body, "issue_text"),
		CreatedBy:  stringField(body, "created_by"),
		AssignedTo: stringField(body, "assigned_to"),
		StatusText: stringField(body, "status_text"),
	}, h.clock.Now())
	var validationErr *issue.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusOK, errorPayload{Error: "required field(s) missing"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: err.Error()})
		return
	}

	stored, err := h.store.Insert(r.Context(), record)
	if err != nil {
		h.logger.Error("create issue failed", "project", project, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// updateIssue handles PUT /api/issues/{project}. Outcomes in order:
// no _id in the body, no fields besides _id, malformed or unknown _id,
// then success. Unrecognized keys count as "fields sent" but are
// dropped; only the mutable issue fields are applied. updated_on is
// refreshed in the same write.
func (h *apiHandler) updateIssue(w http.ResponseWriter, r *http.Request) {
	body, err := parseBody(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: err.Error()})
		return
	}

	rawID, ok := body["_id"]
	if !ok || rawID == "" {
		writeJSON(w, http.StatusOK, errorPayload{Error: "missing _id"})
		return
	}

	if len(body) == 1 {
		writeJSON(w, http.StatusOK, errorPayload{Error: "no update field(s) sent", ID: rawID})
		return
	}

	update, ok := buildUpdate(body)
	if !ok {
		// An uncoercible field value is indistinguishable from an
		// unknown id to the client.
		writeJSON(w, http.StatusOK, errorPayload{Error: "could not update", ID: rawID})
		return
	}

	idString, _ := rawID.(string)
	id, err := issue.ParseID(idString)
	if err != nil {
		writeJSON(w, http.StatusOK, errorPayload{Error: "could not update", ID: rawID})
		return
	}

	err = h.store.UpdateByID(r.Context(), id, update, issue.FormatTime(h.clock.Now()))
	if errors.Is(err, issuestore.ErrNotFound) {
		writeJSON(w, http.StatusOK, errorPayload{Error: "could not update", ID: rawID})
		return
	}
	if err != nil {
		h.logger.Error("update issue failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resultPayload{Result: "successfully updated", ID: rawID})
}

// deleteIssue handles DELETE /api/issues/{project}. A missing _id is
// reported distinctly; every other failure — malformed id, unknown id,
// or a store error — collapses into {"error":"could not delete"}, the
// shape clients already match on.
func (h *apiHandler) deleteIssue(w http.ResponseWriter, r *http.Request) {
	body, err := parseBody(r)
	if err != nil {
		writeJSON(w, http.StatusOK, errorPayload{Error: "could not delete"})
		return
	}

	rawID, ok := body["_id"]
	if !ok || rawID == "" {
		writeJSON(w, http.StatusOK, errorPayload{Error: "missing _id"})
		return
	}

	idString, _ := rawID.(string)
	id, err := issue.ParseID(idString)
	if err == nil {
		err = h.store.DeleteByID(r.Context(), id)
	}
	if err != nil {
		if !errors.Is(err, issuestore.ErrNotFound) && !errors.Is(err, issue.ErrInvalidID) {
			h.logger.Error("delete issue failed", "id", idString, "error", err)
		}
		writeJSON(w, http.StatusOK, errorPayload{Error: "could not delete", ID: rawID})
		return
	}
	writeJSON(w, http.StatusOK, resultPayload{Result: "successfully deleted", ID: rawID})
}

func (h *apiHandler) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, "Not Found")
}

// errorPayload is the domain-error response shape. ID is the _id
// echoed back exactly as the client sent it, when the outcome names
// one.
type errorPayload struct {
	Error string `json:"error"`
	ID    any    `json:"_id,omitempty"`
}

// resultPayload is the success shape for update and delete.
type resultPayload struct {
	Result string `json:"result"`
	ID     any    `json:"_id"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseBody reads a request body into a flat key→value map. JSON
// bodies decode directly; form-encoded bodies take the first value
// per key. An empty body is an empty map, not an error — the handlers
// report the missing keys.
func parseBody(r *http.Request) (map[string]any, error) {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if contentType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parsing form body: %w", err)
		}
		body := make(map[string]any, len(r.PostForm))
		for key, values := range r.PostForm {
			if len(values) > 0 {
				body[key] = values[0]
			}
		}
		return body, nil
	}

	body := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing JSON body: %w", err)
	}
	return body, nil
}

// stringField extracts a body value as a string. Non-string JSON
// values render via fmt rather than being rejected.
func stringField(body map[string]any, key string) string {
	value, ok := body[key]
	if !ok || value == nil {
		return ""
	}
	return toString(value)
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// buildUpdate maps the mutable issue fields out of an update body.
// Returns ok=false when a present value cannot be coerced (a
// non-boolean open).
func buildUpdate(body map[string]any) (issue.Update, bool) {
	var update issue.Update
	if value, ok := body["issue_title"]; ok {
		s := toString(value)
		update.Title = &s
	}
	if value, ok := body["issue_text"]; ok {
		s := toString(value)
		update.Text = &s
	}
	if value, ok := body["created_by"]; ok {
		s := toString(value)
		update.CreatedBy = &s
	}
	if value, ok := body["assigned_to"]; ok {
		s := toString(value)
		update.AssignedTo = &s
	}
	if value, ok := body["status_text"]; ok {
		s := toString(value)
		update.StatusText = &s
	}
	if value, ok := body["open"]; ok {
		open, err := issue.ParseBool(value)
		if err != nil {
			return issue.Update{}, false
		}
		update.Open = &open
	}
	return update, true
}
