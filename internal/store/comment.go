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

// CommentStore manages game comments and the per-game like counters.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// ListByGame returns comments for a game, newest first.
func (s *CommentStore) ListByGame(gameID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT id, game_id, author_name, body, created_at
		FROM comments WHERE game_id = $1
		ORDER BY created_at DESC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.GameID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Create inserts a new comment and returns it.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	result := &models.Comment{}
	err := s.db.QueryRow(`
		INSERT INTO comments (game_id, author_name, body)
		VALUES ($1, $2, $3)
		RETURNING id, game_id, author_name, body, created_at
	`, c.GameID, c.AuthorName, c.Body).Scan(
		&result.ID, &result.GameID, &result.AuthorName, &result.Body, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// Delete removes a comment by ID. Used by admin moderation.
func (s *CommentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// Likes returns the like count for a game. A game with no likes row has
// zero likes.
func (s *CommentStore) Likes(gameID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRow(`SELECT count FROM game_likes WHERE game_id = $1`, gameID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get likes: %w", err)
	}
	return count, nil
}

// AddLike increments a game's like counter, creating the row on first like.
// Returns the new count.
func (s *CommentStore) AddLike(gameID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRow(`
		INSERT INTO game_likes (game_id, count) VALUES ($1, 1)
		ON CONFLICT (game_id) DO UPDATE SET count = game_likes.count + 1
		RETURNING count
	`, gameID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("add like: %w", err)
	}
	return count, nil
}
