// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"playgrid/internal/cache"
	"playgrid/internal/catalog"
	"playgrid/internal/database"
	"playgrid/internal/feeds"
	"playgrid/internal/middleware"
	"playgrid/internal/ranking"
	"playgrid/internal/session"
	"playgrid/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "playgrid")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "playgrid")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "catalog:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Sessions  *session.Store
	Games     *store.GameStore
	Providers *store.ProviderStore
	Comments  *store.CommentStore
	Settings  *store.SiteSettingStore
	Users     *store.UserStore
	RespCache *cache.ResponseCache
	Admin     *Admin
	Auth      *Auth
	Public    *Public
}

// newTestEnv creates a complete test environment with all handler
// dependencies. Feed URLs point at nothing; import tests build their own
// Admin around an httptest server.
func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithFeeds(t, "http://unused.invalid", "http://unused.invalid")
}

func newTestEnvWithFeeds(t *testing.T, monetizeURL, distributionURL string) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk)
	games := store.NewGameStore(db)
	providers := store.NewProviderStore(db)
	comments := store.NewCommentStore(db)
	settings := store.NewSiteSettingStore(db)
	users := store.NewUserStore(db)
	respCache := cache.NewResponseCache(vk, 1*time.Minute)

	catalogService := catalog.NewService(games)
	rankingService := ranking.NewService(games)

	feedClient := feeds.NewClient(monetizeURL, distributionURL)
	importer := feeds.NewImporter(providers, games, nil)

	admin := NewAdmin(games, providers, comments, settings, users, nil, feedClient, importer, respCache)
	auth := NewAuth(sessions, users)
	public := NewPublic(catalogService, rankingService, games, comments, settings, respCache)

	return &testEnv{
		DB:        db,
		Valkey:    vk,
		Sessions:  sessions,
		Games:     games,
		Providers: providers,
		Comments:  comments,
		Settings:  settings,
		Users:     users,
		RespCache: respCache,
		Admin:     admin,
		Auth:      auth,
		Public:    public,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// cleanGames removes test games by play URL.
func cleanGames(t *testing.T, db *sql.DB, playURLs ...string) {
	t.Helper()
	for _, u := range playURLs {
		db.Exec("DELETE FROM games WHERE play_url = $1", u)
	}
}

// cleanProviders removes test providers by source URL.
func cleanProviders(t *testing.T, db *sql.DB, sourceURLs ...string) {
	t.Helper()
	for _, u := range sourceURLs {
		db.Exec("DELETE FROM providers WHERE source_url = $1", u)
	}
}

// cleanUsers removes test users by email.
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, e := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", e)
	}
}
