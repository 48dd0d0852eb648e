package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/pkg/db/pagination"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalInt(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	return strconv.Atoi(trimmed)
}

// parsePagination reads page and limit; clamping happens in the services.
func parsePagination(page, limit string) (pagination.Pagination, error) {
	p, err := parseOptionalInt(page)
	if err != nil {
		return pagination.Pagination{}, newValidationError("page", "invalid_page", "invalid page")
	}
	l, err := parseOptionalInt(limit)
	if err != nil {
		return pagination.Pagination{}, newValidationError("limit", "invalid_limit", "invalid limit")
	}
	return pagination.Pagination{Page: p, Limit: l}, nil
}

// parseOptionalTime accepts RFC3339 or a bare date. A bare end date covers
// the whole day.
func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		parsed = parsed.UTC()
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		} else {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &parsed, nil
	}
	return nil, errors.New("invalid_time")
}
