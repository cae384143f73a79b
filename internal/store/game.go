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

// GameStore handles all game-related database operations.
type GameStore struct {
	db *sql.DB
}

// NewGameStore creates a new GameStore with the given database connection.
func NewGameStore(db *sql.DB) *GameStore {
	return &GameStore{db: db}
}

const gameColumns = `id, seq, name, description, play_url, thumbnail_url, categories, tags, is_active, provider_id, created_at, updated_at`

// scanGame scans a row into a Game struct.
func scanGame(scanner interface{ Scan(...any) error }) (*models.Game, error) {
	var g models.Game
	err := scanner.Scan(
		&g.ID, &g.Seq, &g.Name, &g.Description, &g.PlayURL, &g.ThumbnailURL,
		&g.Categories, &g.Tags, &g.IsActive, &g.ProviderID,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func collectGames(rows *sql.Rows) ([]models.Game, error) {
	defer rows.Close()
	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// Page returns one page of active games ordered by ascending seq, plus the
// total count of matching rows. An empty category means the whole active
// catalog; otherwise rows are matched by exact label containment.
// The seq ordering keeps consecutive page fetches drift-free even while
// rows are inserted concurrently with browsing.
func (s *GameStore) Page(category string, page, pageSize int) ([]models.Game, int, error) {
	where := `is_active AND cardinality(categories) > 0`
	args := []any{}
	if category != "" {
		where += ` AND categories @> ARRAY[$1]::text[]`
		args = append(args, category)
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM games WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	offset := (page - 1) * pageSize
	limitPos := len(args) + 1
	args = append(args, pageSize, offset)
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT %s FROM games WHERE %s ORDER BY seq ASC LIMIT $%d OFFSET $%d`,
			gameColumns, where, limitPos, limitPos+1),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("page games: %w", err)
	}

	games, err := collectGames(rows)
	if err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

// Search returns active games whose name matches the query (case-insensitive
// substring), paginated in seq order, plus the total match count.
func (s *GameStore) Search(query string, page, pageSize int) ([]models.Game, int, error) {
	pattern := "%" + query + "%"

	var total int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM games WHERE is_active AND name ILIKE $1`, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count search: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT `+gameColumns+` FROM games
		 WHERE is_active AND name ILIKE $1
		 ORDER BY seq ASC LIMIT $2 OFFSET $3`,
		pattern, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search games: %w", err)
	}

	games, err := collectGames(rows)
	if err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

// ActiveChunk returns up to limit active games with seq greater than
// afterSeq, in ascending seq order. Callers use it to sweep the whole
// active catalog in bounded chunks: a short or empty result signals
// exhaustion.
func (s *GameStore) ActiveChunk(afterSeq int64, limit int) ([]models.Game, error) {
	rows, err := s.db.Query(
		`SELECT `+gameColumns+` FROM games
		 WHERE is_active AND seq > $1
		 ORDER BY seq ASC LIMIT $2`,
		afterSeq, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("active chunk: %w", err)
	}
	return collectGames(rows)
}

// ListActiveSharing returns active games, excluding the given id, that
// share at least one category or tag with the supplied label sets. Games
// sharing nothing would score zero in ranking anyway, so pruning them here
// never changes ranking output.
func (s *GameStore) ListActiveSharing(exclude uuid.UUID, categories, tags models.StringList) ([]models.Game, error) {
	rows, err := s.db.Query(
		`SELECT `+gameColumns+` FROM games
		 WHERE is_active AND id <> $1
		   AND (categories && $2::text[] OR tags && $3::text[])
		 ORDER BY seq ASC`,
		exclude, categories, tags,
	)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return collectGames(rows)
}

// FindByID retrieves a game by its UUID. Returns nil if not found.
func (s *GameStore) FindByID(id uuid.UUID) (*models.Game, error) {
	row := s.db.QueryRow(`SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find game by id: %w", err)
	}
	return g, nil
}

// ListAll returns every game, newest first, including inactive ones.
// Used by the admin catalog.
func (s *GameStore) ListAll() ([]models.Game, error) {
	rows, err := s.db.Query(`SELECT ` + gameColumns + ` FROM games ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return collectGames(rows)
}

// Create inserts a new game and returns it with generated fields populated.
func (s *GameStore) Create(g *models.Game) (*models.Game, error) {
	row := s.db.QueryRow(`
		INSERT INTO games (name, description, play_url, thumbnail_url, categories, tags, is_active, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+gameColumns,
		g.Name, g.Description, g.PlayURL, g.ThumbnailURL,
		g.Categories, g.Tags, g.IsActive, g.ProviderID,
	)
	result, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return result, nil
}

// Update modifies an existing game.
func (s *GameStore) Update(g *models.Game) error {
	_, err := s.db.Exec(`
		UPDATE games SET
			name = $1, description = $2, play_url = $3, thumbnail_url = $4,
			categories = $5, tags = $6, is_active = $7, provider_id = $8,
			updated_at = NOW()
		WHERE id = $9
	`, g.Name, g.Description, g.PlayURL, g.ThumbnailURL,
		g.Categories, g.Tags, g.IsActive, g.ProviderID, g.ID)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return nil
}

// Delete removes a game by ID. Hard delete — comments and likes cascade.
func (s *GameStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

// UpsertByPlayURL inserts a game or, if a row with the same play_url already
// exists, updates it in place. The incoming record's field values win.
// This is what makes repeated or overlapping feed imports idempotent.
func (s *GameStore) UpsertByPlayURL(g *models.Game) (*models.Game, error) {
	row := s.db.QueryRow(`
		INSERT INTO games (name, description, play_url, thumbnail_url, categories, tags, is_active, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (play_url) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			thumbnail_url = EXCLUDED.thumbnail_url,
			categories = EXCLUDED.categories,
			tags = EXCLUDED.tags,
			is_active = EXCLUDED.is_active,
			provider_id = EXCLUDED.provider_id,
			updated_at = NOW()
		RETURNING `+gameColumns,
		g.Name, g.Description, g.PlayURL, g.ThumbnailURL,
		g.Categories, g.Tags, g.IsActive, g.ProviderID,
	)
	result, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("upsert game: %w", err)
	}
	return result, nil
}
