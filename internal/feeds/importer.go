// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feeds

import (
	"fmt"

	"playgrid/internal/models"
)

// ProviderSource resolves the provider row a batch of games belongs to.
type ProviderSource interface {
	GetOrCreate(name, sourceURL string) (*models.Provider, error)
}

// GameSink persists translated game drafts.
type GameSink interface {
	UpsertByPlayURL(g *models.Game) (*models.Game, error)
}

// Result reports the outcome of one import batch.
type Result struct {
	Success       bool   `json:"success"`
	ImportedCount int    `json:"importedCount"`
	Message       string `json:"message"`
}

// Importer persists translated feed records. The provider row is resolved
// once per source URL and reused from the cache for its TTL, so back-to-back
// batch imports hit the database once for the provider.
type Importer struct {
	providers ProviderSource
	games     GameSink
	cache     *ProviderCache
}

// NewImporter wires an importer. A nil cache gets the default TTL.
func NewImporter(providers ProviderSource, games GameSink, cache *ProviderCache) *Importer {
	if cache == nil {
		cache = NewProviderCache(DefaultProviderTTL, nil)
	}
	return &Importer{providers: providers, games: games, cache: cache}
}

// ImportBatch upserts the given drafts under the provider identified by
// providerName and sourceURL. Re-importing the same records is a no-op
// update, not a duplication: rows are keyed on play URL. The batch stops
// at the first persistence failure.
func (imp *Importer) ImportBatch(drafts []models.Game, providerName, sourceURL string) (*Result, error) {
	provider := imp.cache.Get(sourceURL)
	if provider == nil {
		var err error
		provider, err = imp.providers.GetOrCreate(providerName, sourceURL)
		if err != nil {
			return nil, fmt.Errorf("resolve provider: %w", err)
		}
		imp.cache.Put(sourceURL, provider)
	}

	imported := 0
	for i := range drafts {
		draft := drafts[i]
		draft.ProviderID = &provider.ID
		if _, err := imp.games.UpsertByPlayURL(&draft); err != nil {
			return nil, fmt.Errorf("save game %q: %w", draft.Name, err)
		}
		imported++
	}

	return &Result{
		Success:       true,
		ImportedCount: imported,
		Message:       fmt.Sprintf("imported %d games", imported),
	}, nil
}
