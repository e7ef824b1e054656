// Package pagination parses page/limit query parameters.
package pagination

import (
	"math"
	"strconv"
	"strings"

	"github.com/AyishaBeevi/ab-backend/internal/apperr"
)

const (
	DefaultPage = 1
	MaxLimit    = 100
)

type Query struct {
	Page  int64
	Limit int64
}

// Parse validates page and limit. Empty values take the defaults; anything
// non-numeric or below 1 is a validation error. limit is capped at MaxLimit,
// and page must keep Skip within int64.
func Parse(pageStr, limitStr string, defaultLimit int64) (Query, error) {
	q := Query{Page: DefaultPage, Limit: defaultLimit}

	if pageStr = strings.TrimSpace(pageStr); pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return Query{}, apperr.Validation("page must be a positive integer")
		}
		q.Page = p
	}

	if limitStr = strings.TrimSpace(limitStr); limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return Query{}, apperr.Validation("limit must be a positive integer")
		}
		q.Limit = l
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Page-1 > math.MaxInt64/q.Limit {
		return Query{}, apperr.Validation("page is out of range")
	}
	return q, nil
}

func (q Query) Skip() int64 {
	return (q.Page - 1) * q.Limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int64) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
