// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	_ "embed"
	"net/http"
)

// The HTML views are embedded so the binary is self-contained. They
// are deliberately minimal static pages, not a frontend build.
var (
	//go:embed views/index.html
	indexPage []byte

	//go:embed views/issue.html
	issuePage []byte
)

func (h *apiHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (h *apiHandler) serveProjectView(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(issuePage)
}
