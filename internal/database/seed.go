package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default admin user and a handful of sample games so the
// portal has something to show on first boot. No-op when data exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Default admin. 2FA is not enabled — they must set it up on first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@playgrid.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Sample catalog: one provider and a few games across categories.
	var providerID string
	err = db.QueryRow(`
		INSERT INTO providers (name, source_url)
		VALUES ('Playgrid Samples', 'https://samples.playgrid.local/feed')
		RETURNING id
	`).Scan(&providerID)
	if err != nil {
		return fmt.Errorf("seed insert provider: %w", err)
	}

	games := []struct {
		name       string
		playURL    string
		categories string
		tags       string
	}{
		{"Block Breaker", "https://samples.playgrid.local/play/block-breaker", "{Arcade}", "{retro,bricks}"},
		{"Speed Circuit", "https://samples.playgrid.local/play/speed-circuit", "{Racing}", "{cars,multiplayer}"},
		{"Word Garden", "https://samples.playgrid.local/play/word-garden", `{Puzzle,"Word Games"}`, "{relaxing,words}"},
		{"Dungeon Dash", "https://samples.playgrid.local/play/dungeon-dash", "{Action,Arcade}", "{roguelike,pixel}"},
	}

	for _, g := range games {
		_, err := db.Exec(`
			INSERT INTO games (name, description, play_url, categories, tags, provider_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, g.name, "Sample game seeded for development.", g.playURL, g.categories, g.tags, providerID)
		if err != nil {
			return fmt.Errorf("seed insert game %q: %w", g.name, err)
		}
	}

	_, err = db.Exec(`
		INSERT INTO site_settings (key, value)
		VALUES ('site_title', 'Playgrid'), ('site_description', 'Free browser games')
	`)
	if err != nil {
		return fmt.Errorf("seed site settings: %w", err)
	}

	slog.Info("database seeded with default admin user and sample catalog",
		"email", "admin@playgrid.local",
		"password", "admin",
	)

	return nil
}
