// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog serves stable, ordered pages of the public game catalog,
// either unfiltered or restricted to a category label, plus the aggregated
// per-category usage counts that drive the browse navigation.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"playgrid/internal/models"
)

// ErrNotFound is returned when a page request matches no games. A category
// with zero games and a failed category lookup deliberately collapse into
// the same condition — callers render a single "not found" state for both.
var ErrNotFound = errors.New("no games found")

const (
	// DefaultPageSize is the catalog grid size used when the caller does
	// not supply one.
	DefaultPageSize = 24

	// MaxPageSize caps a caller-supplied page size.
	MaxPageSize = 100

	// countChunkSize bounds each fetch of the category-count sweep. The
	// backing store pages at 1000 rows, so the sweep never assumes one
	// round-trip suffices.
	countChunkSize = 1000
)

// GameSource is the slice of the game store the catalog service needs.
type GameSource interface {
	Page(category string, page, pageSize int) ([]models.Game, int, error)
	ActiveChunk(afterSeq int64, limit int) ([]models.Game, error)
}

// Service answers catalog page and category-count queries. It is stateless
// and read-only; every call reflects whatever the store sees at that moment.
type Service struct {
	games GameSource
}

// NewService creates a catalog service backed by the given game source.
func NewService(games GameSource) *Service {
	return &Service{games: games}
}

// PageResult is one page of the catalog plus the totals the caller needs
// to build pagination controls.
type PageResult struct {
	Games      []models.Game `json:"games"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// CategoryCount pairs a category label with how many active games carry it.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ParsePage coerces a raw page query parameter to a valid 1-based page
// number. Unparsable or non-positive input defaults to the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParsePageSize coerces a raw page-size parameter, defaulting and capping
// out-of-range values.
func ParsePageSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// Page returns one page of active games. An empty category means the whole
// catalog. Categories are matched case-sensitively as supplied; when that
// matches nothing, the lookup retries once with the conventional
// capitalized form ("puzzle" → "Puzzle") before reporting ErrNotFound —
// feed producers store category labels inconsistently.
func (s *Service) Page(category string, page, pageSize int) (*PageResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	games, total, err := s.games.Page(category, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("catalog page: %w", err)
	}

	if total == 0 && category != "" {
		if fallback := capitalize(category); fallback != category {
			games, total, err = s.games.Page(fallback, page, pageSize)
			if err != nil {
				return nil, fmt.Errorf("catalog page fallback: %w", err)
			}
		}
	}

	if total == 0 {
		return nil, ErrNotFound
	}

	if games == nil {
		games = []models.Game{}
	}
	return &PageResult{
		Games:      games,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// CategoryCounts sweeps the active catalog in bounded chunks and returns
// every category label in use, ordered by descending usage count. A game
// increments the count of each category it carries; games without
// categories are ignored. Ties keep first-encounter order.
func (s *Service) CategoryCounts() ([]CategoryCount, error) {
	counts := make(map[string]int)
	var order []string

	var afterSeq int64
	for {
		chunk, err := s.games.ActiveChunk(afterSeq, countChunkSize)
		if err != nil {
			return nil, fmt.Errorf("category count sweep: %w", err)
		}
		for _, g := range chunk {
			for _, c := range g.Categories {
				if _, seen := counts[c]; !seen {
					order = append(order, c)
				}
				counts[c]++
			}
			afterSeq = g.Seq
		}
		// A short or empty chunk means the sweep is done.
		if len(chunk) < countChunkSize {
			break
		}
	}

	result := make([]CategoryCount, len(order))
	for i, c := range order {
		result[i] = CategoryCount{Category: c, Count: counts[c]}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result, nil
}

// capitalize upper-cases the first rune and lower-cases the rest,
// producing the conventional stored form of a category label.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
