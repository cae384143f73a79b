// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ranking computes related-game recommendations from category and
// tag overlap. The score is a deterministic, explainable weighted count —
// category overlap weighs three times tag overlap, with a flat bonus for
// candidates covering every one of the target's categories — and is used
// only as an internal sort key, never exposed to callers.
package ranking

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"playgrid/internal/models"
)

// ErrGameNotFound is returned when the ranking target does not exist.
var ErrGameNotFound = errors.New("game not found")

// Scoring weights. Category is the primary taxonomy; tags are supplementary.
const (
	categoryWeight = 3
	tagWeight      = 1

	// fullCoverageBonus rewards candidates whose categories cover all of
	// the target's, ranking near-duplicates above partial overlaps even
	// when the partial overlap carries many matching tags.
	fullCoverageBonus = 5
)

// scored pairs a candidate with its relevance score during sorting.
type scored struct {
	game  models.Game
	score int
}

// Rank scores candidates against the target and returns up to limit games
// ordered by descending relevance. Zero-score candidates are excluded
// entirely — the result is never padded with irrelevant games. The sort is
// stable, so equal scores keep the candidates' input order.
func Rank(target *models.Game, candidates []models.Game, limit int) []models.Game {
	if target == nil || limit <= 0 {
		return nil
	}

	targetCats := labelSet(target.Categories)
	targetTags := labelSet(target.Tags)

	var ranked []scored
	for _, c := range candidates {
		if c.ID == target.ID {
			continue
		}
		s := score(targetCats, targetTags, &c)
		if s == 0 {
			continue
		}
		ranked = append(ranked, scored{game: c, score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	games := make([]models.Game, len(ranked))
	for i, r := range ranked {
		games[i] = r.game
	}
	return games
}

// score computes the relevance of a single candidate.
func score(targetCats, targetTags map[string]bool, c *models.Game) int {
	categoryMatches := overlap(targetCats, c.Categories)
	tagMatches := overlap(targetTags, c.Tags)

	s := categoryMatches*categoryWeight + tagMatches*tagWeight
	if len(targetCats) > 0 && categoryMatches == len(targetCats) {
		s += fullCoverageBonus
	}
	return s
}

// labelSet converts a label list to a set, deduplicating repeats.
func labelSet(labels models.StringList) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}

// overlap counts how many labels appear in both the set and the list.
func overlap(set map[string]bool, labels models.StringList) int {
	n := 0
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if set[l] && !seen[l] {
			n++
			seen[l] = true
		}
	}
	return n
}

// GameSource is the slice of the game store the ranking service needs.
type GameSource interface {
	FindByID(id uuid.UUID) (*models.Game, error)
	ListActiveSharing(exclude uuid.UUID, categories, tags models.StringList) ([]models.Game, error)
}

// DefaultLimit is how many related games the play page shows.
const DefaultLimit = 10

// Service resolves a target game and ranks the active catalog against it.
type Service struct {
	games GameSource
}

// NewService creates a ranking service backed by the given game source.
func NewService(games GameSource) *Service {
	return &Service{games: games}
}

// RelatedTo returns up to limit games related to the given game, best first.
// The candidate pool is pre-filtered to games sharing at least one category
// or tag with the target; everything else would score zero and be dropped
// anyway, so the pruning never changes the result.
func (s *Service) RelatedTo(gameID uuid.UUID, limit int) ([]models.Game, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	target, err := s.games.FindByID(gameID)
	if err != nil {
		return nil, fmt.Errorf("resolve ranking target: %w", err)
	}
	if target == nil {
		return nil, ErrGameNotFound
	}

	candidates, err := s.games.ListActiveSharing(target.ID, target.Categories, target.Tags)
	if err != nil {
		return nil, fmt.Errorf("load ranking candidates: %w", err)
	}

	return Rank(target, candidates, limit), nil
}
