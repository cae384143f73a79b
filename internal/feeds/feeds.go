// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package feeds ingests game metadata from third-party distribution feeds.
// Two feed schemas are supported; both are translated into the internal
// game shape and persisted through an idempotent upsert keyed on play URL,
// so repeated or overlapping imports update rows in place instead of
// duplicating them.
package feeds

import (
	"strings"

	"playgrid/internal/models"
)

// Source identifies which external feed a record came from.
type Source string

const (
	// SourceMonetize is the ad-monetized feed: single category string,
	// comma-separated tags, thumbnail under "thumb".
	SourceMonetize Source = "monetize"

	// SourceDistribution is the distribution-network feed: multi-valued
	// categories, no tags, thumbnail under "thumbnailUrl".
	SourceDistribution Source = "distribution"
)

// ValidSource reports whether s names a known feed.
func ValidSource(s string) bool {
	return Source(s) == SourceMonetize || Source(s) == SourceDistribution
}

// MonetizeGame is one record of the monetize feed.
type MonetizeGame struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumb       string `json:"thumb"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Tags        string `json:"tags"` // comma-separated
}

// DistributionGame is one record of the distribution feed.
type DistributionGame struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	URL          string   `json:"url"`
	Categories   []string `json:"categories"`
}

// TranslateMonetize maps a monetize feed record onto a game draft.
// The single category becomes a one-element set; tags are split on commas.
// The draft is active and has no provider — the importer assigns one.
func TranslateMonetize(m MonetizeGame) models.Game {
	return models.Game{
		Name:         m.Title,
		Description:  m.Description,
		PlayURL:      m.URL,
		ThumbnailURL: m.Thumb,
		Categories:   singleton(m.Category),
		Tags:         splitTags(m.Tags),
		IsActive:     true,
	}
}

// TranslateDistribution maps a distribution feed record onto a game draft.
// The feed carries no tags, so the draft's tag set is empty.
func TranslateDistribution(d DistributionGame) models.Game {
	categories := models.StringList{}
	for _, c := range d.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	return models.Game{
		Name:         d.Title,
		Description:  d.Description,
		PlayURL:      d.URL,
		ThumbnailURL: d.ThumbnailURL,
		Categories:   categories,
		Tags:         models.StringList{},
		IsActive:     true,
	}
}

func singleton(s string) models.StringList {
	if s = strings.TrimSpace(s); s == "" {
		return models.StringList{}
	}
	return models.StringList{s}
}

func splitTags(s string) models.StringList {
	tags := models.StringList{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
