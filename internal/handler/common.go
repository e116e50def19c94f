// Package handler implements the HTTP endpoints of the booking API.
// Handlers bind input, enforce ownership, orchestrate repository calls
// (opening a transaction when several writes must commit together) and
// shape JSON responses. Authentication and role checks happen in
// middleware before a handler runs.
package handler

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user id stored by the JWT
// middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// normalizeLabels uppercases, trims, deduplicates and sorts seat
// labels from a request body. Blank entries are dropped.
func normalizeLabels(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	labels := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			labels = append(labels, l)
		}
	}
	sort.Strings(labels)
	return labels
}

// labelsJSON renders seat labels as the JSON array stored on bookings
// and the shows cache column.
func labelsJSON(labels []string) string {
	if labels == nil {
		labels = []string{}
	}
	b, _ := json.Marshal(labels)
	return string(b)
}

// labelsFromJSON is the inverse of labelsJSON; malformed input yields
// an empty list.
func labelsFromJSON(s string) []string {
	var labels []string
	if err := json.Unmarshal([]byte(s), &labels); err != nil {
		return []string{}
	}
	return labels
}
