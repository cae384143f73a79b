// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"playgrid/internal/cache"
	"playgrid/internal/catalog"
	"playgrid/internal/markdown"
	"playgrid/internal/models"
	"playgrid/internal/ranking"
	"playgrid/internal/slug"
	"playgrid/internal/store"
)

// maxRelatedLimit caps the ?limit= parameter on the related endpoint.
const maxRelatedLimit = 50

// Public groups handlers for the public portal API. Listing, category,
// and detail responses are cached in Valkey; comment and like writes go
// straight to the database.
type Public struct {
	catalog   *catalog.Service
	related   *ranking.Service
	games     *store.GameStore
	comments  *store.CommentStore
	settings  *store.SiteSettingStore
	respCache *cache.ResponseCache
}

// NewPublic creates a new Public handler group.
func NewPublic(cat *catalog.Service, related *ranking.Service, games *store.GameStore, comments *store.CommentStore, settings *store.SiteSettingStore, respCache *cache.ResponseCache) *Public {
	return &Public{
		catalog:   cat,
		related:   related,
		games:     games,
		comments:  comments,
		settings:  settings,
		respCache: respCache,
	}
}

// ListGames serves the paginated catalog. Supports ?category= filtering
// and ?q= name search; page and pageSize are coerced to valid values.
func (p *Public) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	page := catalog.ParsePage(r.URL.Query().Get("page"))
	pageSize := catalog.ParsePageSize(r.URL.Query().Get("pageSize"))

	// Search results are not cached; queries are too varied to be worth it.
	if q != "" {
		games, total, err := p.games.Search(q, page, pageSize)
		if err != nil {
			slog.Error("game search failed", "error", err, "query", q)
			respondError(w, http.StatusInternalServerError, "search failed")
			return
		}
		respondJSON(w, http.StatusOK, &catalog.PageResult{
			Games:      games,
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: (total + pageSize - 1) / pageSize,
		})
		return
	}

	key := cache.ListingKey(category, page, pageSize)
	if cached, ok := p.respCache.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}

	result, err := p.catalog.Page(category, page, pageSize)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no games found")
			return
		}
		slog.Error("catalog page failed", "error", err, "category", category)
		respondError(w, http.StatusInternalServerError, "listing failed")
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		slog.Error("marshal listing failed", "error", err)
		respondError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	p.respCache.Set(ctx, key, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Categories serves every category in use by active games with its game
// count, ordered by descending count.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.respCache.Get(ctx, cache.CategoriesKey()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}

	counts, err := p.catalog.CategoryCounts()
	if err != nil {
		slog.Error("category counts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "categories failed")
		return
	}

	body, err := json.Marshal(map[string]any{"categories": counts})
	if err != nil {
		slog.Error("marshal categories failed", "error", err)
		respondError(w, http.StatusInternalServerError, "categories failed")
		return
	}
	p.respCache.Set(ctx, cache.CategoriesKey(), body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// playPayload is everything the play page needs in one response: the game
// itself, a rendered description, related games, comments, and likes.
type playPayload struct {
	Game            *models.Game     `json:"game"`
	Slug            string           `json:"slug"`
	DescriptionHTML string           `json:"description_html"`
	Related         []models.Game    `json:"related"`
	Comments        []models.Comment `json:"comments"`
	Likes           int64            `json:"likes"`
}

// GameDetail serves the play payload for a single game.
func (p *Public) GameDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if cached, okc := p.respCache.Get(ctx, cache.GameKey(id)); okc {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}

	game, err := p.games.FindByID(id)
	if err != nil {
		slog.Error("find game failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if game == nil || !game.IsActive {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	related, err := p.related.RelatedTo(id, ranking.DefaultLimit)
	if err != nil {
		// Related games are a nice-to-have; the play page still works.
		slog.Warn("related games failed", "error", err, "id", id)
		related = nil
	}

	comments, err := p.comments.ListByGame(id)
	if err != nil {
		slog.Error("list comments failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	likes, err := p.comments.Likes(id)
	if err != nil {
		slog.Error("count likes failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	descHTML, err := markdown.ToHTML(game.Description)
	if err != nil {
		slog.Warn("render description failed", "error", err, "id", id)
		descHTML = ""
	}

	payload := &playPayload{
		Game:            game,
		Slug:            slug.Generate(game.Name),
		DescriptionHTML: descHTML,
		Related:         related,
		Comments:        comments,
		Likes:           likes,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal play payload failed", "error", err)
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	p.respCache.Set(ctx, cache.GameKey(id), body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Related serves just the ranked related-games list for a game, for
// clients that refresh it independently of the play payload.
func (p *Public) Related(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	limit := ranking.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxRelatedLimit {
			limit = n
		}
	}

	games, err := p.related.RelatedTo(id, limit)
	if err != nil {
		if errors.Is(err, ranking.ErrGameNotFound) {
			respondError(w, http.StatusNotFound, "game not found")
			return
		}
		slog.Error("related games failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "related games failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"games": games})
}

// ListComments serves a game's comments, newest first.
func (p *Public) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	game, err := p.games.FindByID(id)
	if err != nil {
		slog.Error("find game failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if game == nil || !game.IsActive {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	comments, err := p.comments.ListByGame(id)
	if err != nil {
		slog.Error("list comments failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// CreateComment adds a visitor comment to a game.
func (p *Public) CreateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in struct {
		Author string `json:"author"`
		Body   string `json:"body"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := validateComment(in.Author, in.Body); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	game, err := p.games.FindByID(id)
	if err != nil {
		slog.Error("find game failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if game == nil || !game.IsActive {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	comment, err := p.comments.Create(&models.Comment{
		GameID:     id,
		AuthorName: strings.TrimSpace(in.Author),
		Body:       strings.TrimSpace(in.Body),
	})
	if err != nil {
		slog.Error("create comment failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "comment failed")
		return
	}

	// Comments appear in the cached play payload.
	p.respCache.InvalidateAll(r.Context())

	respondJSON(w, http.StatusCreated, comment)
}

// Like increments the game's like counter and returns the new count.
func (p *Public) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	game, err := p.games.FindByID(id)
	if err != nil {
		slog.Error("find game failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if game == nil || !game.IsActive {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	count, err := p.comments.AddLike(id)
	if err != nil {
		slog.Error("add like failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "like failed")
		return
	}

	p.respCache.InvalidateAll(r.Context())

	respondJSON(w, http.StatusOK, map[string]int64{"likes": count})
}

// Site serves the site metadata the front end renders around the catalog:
// title, description, favicon, custom scripts, and ad slot snippets.
func (p *Public) Site(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.respCache.Get(ctx, cache.SiteKey()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}

	settings, err := p.settings.All()
	if err != nil {
		slog.Error("load site settings failed", "error", err)
		respondError(w, http.StatusInternalServerError, "site metadata failed")
		return
	}

	adSlots := make(map[string]string)
	for key, value := range settings {
		if placement, ok := strings.CutPrefix(key, models.SettingAdSlotPrefix); ok {
			adSlots[placement] = value
		}
	}

	payload := map[string]any{
		"title":          settings.Get(models.SettingSiteTitle, "Playgrid"),
		"description":    settings.Get(models.SettingSiteDescription, ""),
		"favicon_url":    settings.Get(models.SettingFaviconURL, ""),
		"custom_scripts": settings.Get(models.SettingCustomScripts, ""),
		"ad_slots":       adSlots,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal site metadata failed", "error", err)
		respondError(w, http.StatusInternalServerError, "site metadata failed")
		return
	}
	p.respCache.Set(ctx, cache.SiteKey(), body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Health reports liveness for load balancers.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseID extracts and parses the {id} URL parameter. Writes a 400
// response and returns false on malformed input.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id")
		return uuid.Nil, false
	}
	return id, true
}
