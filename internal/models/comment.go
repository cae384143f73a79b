// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a visitor comment left on a game's play page.
// Comments are anonymous — the portal has no public accounts, so the
// author is whatever display name the visitor typed in.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	GameID     uuid.UUID `json:"game_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// LikeCount is the aggregate like counter for a game.
type LikeCount struct {
	GameID uuid.UUID `json:"game_id"`
	Count  int64     `json:"count"`
}
