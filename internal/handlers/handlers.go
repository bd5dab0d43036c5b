// Package handlers contains the HTTP handlers for every resource.
//
// Error taxonomy: validation failures re-render the form with inline
// violations, authorization failures stop with 403, missing entities stop
// with 404, unsupported locales stop with 400 before any state change.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/dkeita/ecole-portal/internal/httpx"
	"github.com/dkeita/ecole-portal/internal/i18n"
)

// forbidden terminates the request with 403. The resource exists but the
// acting user may not touch it; never masked as a 404.
func forbidden(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	http.Error(w, i18n.T(i18n.Lang(r.Context()), "forbidden"), http.StatusForbidden)
}

// notFound terminates the request with 404.
func notFound(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	http.Error(w, i18n.T(i18n.Lang(r.Context()), "not_found"), http.StatusNotFound)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (uint, bool) {
	id64, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// queryUint parses a decimal id from a form or query value.
func queryUint(s string) uint {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

// page returns the 1-based page number from the query string.
func page(r *http.Request) int {
	p := queryInt(r, "page", 1)
	if p < 1 {
		p = 1
	}
	return p
}
