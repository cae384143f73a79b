// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"playgrid/internal/models"
)

// ProviderStore manages game providers in the database.
type ProviderStore struct {
	db *sql.DB
}

// NewProviderStore returns a new ProviderStore.
func NewProviderStore(db *sql.DB) *ProviderStore {
	return &ProviderStore{db: db}
}

const providerColumns = `id, name, source_url, is_active, created_at, updated_at`

func scanProvider(scanner interface{ Scan(...any) error }) (*models.Provider, error) {
	var p models.Provider
	err := scanner.Scan(&p.ID, &p.Name, &p.SourceURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all providers ordered by name.
func (s *ProviderStore) List() ([]models.Provider, error) {
	rows, err := s.db.Query(`SELECT ` + providerColumns + ` FROM providers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var providers []models.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, *p)
	}
	return providers, rows.Err()
}

// FindByID retrieves a provider by ID. Returns nil if not found.
func (s *ProviderStore) FindByID(id uuid.UUID) (*models.Provider, error) {
	row := s.db.QueryRow(`SELECT `+providerColumns+` FROM providers WHERE id = $1`, id)
	p, err := scanProvider(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find provider by id: %w", err)
	}
	return p, nil
}

// FindBySourceURL retrieves a provider by its unique source URL.
// Returns nil if not found.
func (s *ProviderStore) FindBySourceURL(sourceURL string) (*models.Provider, error) {
	row := s.db.QueryRow(`SELECT `+providerColumns+` FROM providers WHERE source_url = $1`, sourceURL)
	p, err := scanProvider(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find provider by source url: %w", err)
	}
	return p, nil
}

// Create inserts a new provider and returns it.
func (s *ProviderStore) Create(p *models.Provider) (*models.Provider, error) {
	row := s.db.QueryRow(`
		INSERT INTO providers (name, source_url, is_active)
		VALUES ($1, $2, $3)
		RETURNING `+providerColumns,
		p.Name, p.SourceURL, p.IsActive,
	)
	result, err := scanProvider(row)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return result, nil
}

// GetOrCreate returns the provider with the given source URL, creating it
// with the supplied name if it does not exist yet. The upsert keeps the
// operation idempotent under concurrent imports from the same source: a
// losing INSERT simply refreshes updated_at on the existing row.
func (s *ProviderStore) GetOrCreate(name, sourceURL string) (*models.Provider, error) {
	row := s.db.QueryRow(`
		INSERT INTO providers (name, source_url, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (source_url) DO UPDATE SET updated_at = NOW()
		RETURNING `+providerColumns,
		name, sourceURL,
	)
	p, err := scanProvider(row)
	if err != nil {
		return nil, fmt.Errorf("get or create provider: %w", err)
	}
	return p, nil
}

// Update modifies an existing provider.
func (s *ProviderStore) Update(p *models.Provider) error {
	_, err := s.db.Exec(`
		UPDATE providers SET name = $1, source_url = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4
	`, p.Name, p.SourceURL, p.IsActive, p.ID)
	if err != nil {
		return fmt.Errorf("update provider: %w", err)
	}
	return nil
}

// Delete removes a provider by ID. Games keep their rows — provider_id is
// set to NULL by the foreign key, deletion is not cascaded.
func (s *ProviderStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM providers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete provider: %w", err)
	}
	return nil
}
