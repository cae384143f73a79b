// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Game represents a single embeddable browser game in the catalog.
// Seq is an internal monotonic key used only for stable catalog ordering;
// it is never exposed through the API.
type Game struct {
	ID           uuid.UUID  `json:"id"`
	Seq          int64      `json:"-"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	PlayURL      string     `json:"play_url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Categories   StringList `json:"categories"`
	Tags         StringList `json:"tags"`
	IsActive     bool       `json:"is_active"`
	ProviderID   *uuid.UUID `json:"provider_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// HasCategory reports whether the game carries the given label (exact match).
func (g *Game) HasCategory(label string) bool {
	for _, c := range g.Categories {
		if c == label {
			return true
		}
	}
	return false
}

// StringList maps a Postgres text[] column onto a Go string slice.
// The stdlib database/sql interface has no array codec, so Scan and Value
// speak the Postgres array literal format directly.
type StringList []string

// Scan implements sql.Scanner for text[] columns.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		return l.parse(v)
	case []byte:
		return l.parse(string(v))
	}
	return fmt.Errorf("string list: cannot scan %T", src)
}

// Value implements driver.Valuer, encoding the slice as a text[] literal.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, s := range l {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String(), nil
}

// parse decodes a Postgres array literal like {Action,"Two Words"} into the
// receiver. Elements may be bare or double-quoted with backslash escapes.
func (l *StringList) parse(src string) error {
	src = strings.TrimSpace(src)
	if !strings.HasPrefix(src, "{") || !strings.HasSuffix(src, "}") {
		return fmt.Errorf("string list: malformed array literal %q", src)
	}
	body := src[1 : len(src)-1]
	if body == "" {
		*l = StringList{}
		return nil
	}

	out := StringList{}
	var cur strings.Builder
	inQuotes := false
	escaped := false
	quotedElem := false

	// flush closes the current element. Unquoted NULL means SQL NULL; drop it.
	flush := func() {
		s := cur.String()
		cur.Reset()
		if !quotedElem && s == "NULL" {
			return
		}
		out = append(out, s)
	}

	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case escaped:
			cur.WriteByte(ch)
			escaped = false
		case ch == '\\' && inQuotes:
			escaped = true
		case ch == '"':
			inQuotes = !inQuotes
			quotedElem = true
		case ch == ',' && !inQuotes:
			flush()
			quotedElem = false
		default:
			cur.WriteByte(ch)
		}
	}
	flush()

	*l = out
	return nil
}
