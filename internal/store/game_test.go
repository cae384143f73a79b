// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"

	"playgrid/internal/models"
)

// testGame builds a game draft with a unique play URL.
func testGame(name string, categories, tags models.StringList) *models.Game {
	return &models.Game{
		Name:       name,
		PlayURL:    "https://store-test.local/play/" + uuid.NewString(),
		Categories: categories,
		Tags:       tags,
		IsActive:   true,
	}
}

func TestGameStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewGameStore(db)

	draft := testGame("Create Me", models.StringList{"Arcade"}, models.StringList{"retro"})
	t.Cleanup(func() { cleanGames(t, db, draft.PlayURL) })

	created, err := s.Create(draft)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Seq == 0 {
		t.Error("expected non-zero seq")
	}
	if len(created.Categories) != 1 || created.Categories[0] != "Arcade" {
		t.Errorf("categories: got %v, want [Arcade]", created.Categories)
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected game, got nil")
	}
	if found.PlayURL != draft.PlayURL {
		t.Errorf("play_url: got %q, want %q", found.PlayURL, draft.PlayURL)
	}

	// Not found case.
	missing, err := s.FindByID(uuid.New())
	if err != nil {
		t.Fatalf("FindByID (missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for random UUID")
	}
}

func TestGameStorePageStability(t *testing.T) {
	db := testDB(t)
	s := NewGameStore(db)

	// Use a category unique to this test so concurrent data can't interfere.
	category := "PageTest-" + uuid.NewString()[:8]

	var urls []string
	for i := 0; i < 5; i++ {
		g := testGame("Page Game", models.StringList{category}, nil)
		urls = append(urls, g.PlayURL)
		if _, err := s.Create(g); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	t.Cleanup(func() { cleanGames(t, db, urls...) })

	// Fetch in pages of 2 and concatenate.
	seen := make(map[uuid.UUID]bool)
	var lastSeq int64
	total := -1
	for page := 1; ; page++ {
		games, gotTotal, err := s.Page(category, page, 2)
		if err != nil {
			t.Fatalf("Page %d: %v", page, err)
		}
		if total == -1 {
			total = gotTotal
		} else if gotTotal != total {
			t.Errorf("total drifted: got %d, want %d", gotTotal, total)
		}
		if len(games) == 0 {
			break
		}
		for _, g := range games {
			if seen[g.ID] {
				t.Errorf("game %s appeared twice across pages", g.ID)
			}
			seen[g.ID] = true
			if g.Seq <= lastSeq {
				t.Errorf("seq ordering violated: %d after %d", g.Seq, lastSeq)
			}
			lastSeq = g.Seq
		}
		if len(games) < 2 {
			break
		}
	}

	if total != 5 {
		t.Errorf("total: got %d, want 5", total)
	}
	if len(seen) != 5 {
		t.Errorf("concatenated pages: got %d games, want 5", len(seen))
	}
}

func TestGameStorePageExcludesInactive(t *testing.T) {
	db := testDB(t)
	s := NewGameStore(db)

	category := "InactiveTest-" + uuid.NewString()[:8]

	active := testGame("Active", models.StringList{category}, nil)
	inactive := testGame("Inactive", models.StringList{category}, nil)
	inactive.IsActive = false
	t.Cleanup(func() { cleanGames(t, db, active.PlayURL, inactive.PlayURL) })

	if _, err := s.Create(active); err != nil {
		t.Fatalf("Create active: %v", err)
	}
	if _, err := s.Create(inactive); err != nil {
		t.Fatalf("Create inactive: %v", err)
	}

	games, total, err := s.Page(category, 1, 10)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if total != 1 {
		t.Errorf("total: got %d, want 1 (inactive must not count)", total)
	}
	if len(games) != 1 || games[0].Name != "Active" {
		t.Errorf("expected only the active game, got %v", games)
	}
}

func TestGameStoreUpsertByPlayURL(t *testing.T) {
	db := testDB(t)
	s := NewGameStore(db)

	playURL := "https://store-test.local/play/upsert-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanGames(t, db, playURL) })

	first := &models.Game{
		Name:       "First Version",
		PlayURL:    playURL,
		Categories: models.StringList{"Arcade"},
		IsActive:   true,
	}
	created, err := s.UpsertByPlayURL(first)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &models.Game{
		Name:        "Second Version",
		Description: "updated",
		PlayURL:     playURL,
		Categories:  models.StringList{"Arcade", "Action"},
		IsActive:    true,
	}
	updated, err := s.UpsertByPlayURL(second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	// Same row, second import's values win.
	if updated.ID != created.ID {
		t.Errorf("upsert created a new row: %s != %s", updated.ID, created.ID)
	}
	if updated.Name != "Second Version" {
		t.Errorf("name: got %q, want %q", updated.Name, "Second Version")
	}
	if len(updated.Categories) != 2 {
		t.Errorf("categories: got %v, want 2 labels", updated.Categories)
	}

	var rowCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM games WHERE play_url = $1", playURL).Scan(&rowCount); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rowCount != 1 {
		t.Errorf("expected exactly 1 row for play_url, got %d", rowCount)
	}
}

func TestGameStoreListActiveSharing(t *testing.T) {
	db := testDB(t)
	s := NewGameStore(db)

	marker := uuid.NewString()[:8]
	catA := "ShareA-" + marker
	catB := "ShareB-" + marker
	tag := "sharetag-" + marker

	target := testGame("Target", models.StringList{catA}, models.StringList{tag})
	sameCat := testGame("Same Category", models.StringList{catA}, nil)
	sameTag := testGame("Same Tag", models.StringList{catB}, models.StringList{tag})
	unrelated := testGame("Unrelated", models.StringList{catB}, nil)
	inactive := testGame("Inactive Match", models.StringList{catA}, nil)
	inactive.IsActive = false

	all := []*models.Game{target, sameCat, sameTag, unrelated, inactive}
	var urls []string
	for _, g := range all {
		urls = append(urls, g.PlayURL)
	}
	t.Cleanup(func() { cleanGames(t, db, urls...) })

	var targetID uuid.UUID
	for _, g := range all {
		created, err := s.Create(g)
		if err != nil {
			t.Fatalf("Create %q: %v", g.Name, err)
		}
		if g == target {
			targetID = created.ID
		}
	}

	candidates, err := s.ListActiveSharing(targetID, target.Categories, target.Tags)
	if err != nil {
		t.Fatalf("ListActiveSharing: %v", err)
	}

	names := make(map[string]bool)
	for _, c := range candidates {
		names[c.Name] = true
	}
	if !names["Same Category"] || !names["Same Tag"] {
		t.Errorf("expected overlap candidates, got %v", names)
	}
	if names["Target"] {
		t.Error("target must be excluded from candidates")
	}
	if names["Unrelated"] {
		t.Error("zero-overlap game must be pruned")
	}
	if names["Inactive Match"] {
		t.Error("inactive game must be excluded")
	}
}

func TestGameStoreActiveChunk(t *testing.T) {
	db := testDB(t)
	s := NewGameStore(db)

	category := "ChunkTest-" + uuid.NewString()[:8]
	var urls []string
	for i := 0; i < 3; i++ {
		g := testGame("Chunk Game", models.StringList{category}, nil)
		urls = append(urls, g.PlayURL)
		if _, err := s.Create(g); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	t.Cleanup(func() { cleanGames(t, db, urls...) })

	// Sweep in chunks of 2; stop on a short chunk.
	var matched int
	var after int64
	for {
		chunk, err := s.ActiveChunk(after, 2)
		if err != nil {
			t.Fatalf("ActiveChunk: %v", err)
		}
		for _, g := range chunk {
			if g.HasCategory(category) {
				matched++
			}
			after = g.Seq
		}
		if len(chunk) < 2 {
			break
		}
	}

	if matched != 3 {
		t.Errorf("chunked sweep found %d tagged games, want 3", matched)
	}
}

func TestGameStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewGameStore(db)

	g := testGame("Delete Me", models.StringList{"Arcade"}, nil)
	created, err := s.Create(g)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	found, _ := s.FindByID(created.ID)
	if found != nil {
		t.Error("expected nil after hard delete")
	}
}
