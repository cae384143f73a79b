// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"playgrid/internal/cache"
	"playgrid/internal/feeds"
	"playgrid/internal/models"
	"playgrid/internal/storage"
	"playgrid/internal/store"
)

// maxFaviconSize limits favicon uploads to 512 KiB.
const maxFaviconSize = 512 * 1024

// faviconContentTypes are the accepted favicon upload types.
var faviconContentTypes = map[string]string{
	"image/x-icon":             ".ico",
	"image/vnd.microsoft.icon": ".ico",
	"image/png":                ".png",
	"image/svg+xml":            ".svg",
}

// feedProviderNames maps a feed source to the provider name its imported
// games are filed under.
var feedProviderNames = map[feeds.Source]string{
	feeds.SourceMonetize:     "Monetize Network",
	feeds.SourceDistribution: "Distribution Network",
}

// Admin groups the back-office HTTP handlers: game and provider CRUD,
// site settings, comment moderation, user management, and feed imports.
// All routes require an authenticated admin or editor session; the
// router layers role checks on top.
type Admin struct {
	games     *store.GameStore
	providers *store.ProviderStore
	comments  *store.CommentStore
	settings  *store.SiteSettingStore
	users     *store.UserStore
	storage   *storage.Client
	feeds     *feeds.Client
	importer  *feeds.Importer
	respCache *cache.ResponseCache
}

// NewAdmin creates a new Admin handler group. storageClient may be nil if
// S3 is not configured; the favicon endpoint then returns an error.
func NewAdmin(games *store.GameStore, providers *store.ProviderStore, comments *store.CommentStore, settings *store.SiteSettingStore, users *store.UserStore, storageClient *storage.Client, feedClient *feeds.Client, importer *feeds.Importer, respCache *cache.ResponseCache) *Admin {
	return &Admin{
		games:     games,
		providers: providers,
		comments:  comments,
		settings:  settings,
		users:     users,
		storage:   storageClient,
		feeds:     feedClient,
		importer:  importer,
		respCache: respCache,
	}
}

// gameInput is the JSON body for game create/update.
type gameInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	PlayURL      string   `json:"play_url"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Categories   []string `json:"categories"`
	Tags         []string `json:"tags"`
	IsActive     bool     `json:"is_active"`
	ProviderID   string   `json:"provider_id"` // optional uuid
}

func (in *gameInput) apply(g *models.Game) string {
	if msg := validateGame(in.Name, in.PlayURL, in.Categories); msg != "" {
		return msg
	}

	g.Name = strings.TrimSpace(in.Name)
	g.Description = in.Description
	g.PlayURL = strings.TrimSpace(in.PlayURL)
	g.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	g.Categories = models.StringList(in.Categories)
	g.Tags = models.StringList(in.Tags)
	if g.Tags == nil {
		g.Tags = models.StringList{}
	}
	g.IsActive = in.IsActive

	g.ProviderID = nil
	if in.ProviderID != "" {
		pid, err := uuid.Parse(in.ProviderID)
		if err != nil {
			return "Provider ID is not a valid UUID."
		}
		g.ProviderID = &pid
	}
	return ""
}

// ListGames returns every game, active or not, newest first.
func (a *Admin) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := a.games.ListAll()
	if err != nil {
		slog.Error("list games failed", "error", err)
		respondError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"games": games})
}

// CreateGame adds a game to the catalog.
func (a *Admin) CreateGame(w http.ResponseWriter, r *http.Request) {
	var in gameInput
	if !decodeJSON(w, r, &in) {
		return
	}

	game := &models.Game{}
	if msg := in.apply(game); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.games.Create(game)
	if err != nil {
		slog.Error("create game failed", "error", err)
		respondError(w, http.StatusInternalServerError, "create failed")
		return
	}

	a.respCache.InvalidateAll(r.Context())
	respondJSON(w, http.StatusCreated, created)
}

// UpdateGame replaces a game's editable fields.
func (a *Admin) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in gameInput
	if !decodeJSON(w, r, &in) {
		return
	}

	game, err := a.games.FindByID(id)
	if err != nil {
		slog.Error("find game failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if game == nil {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	if msg := in.apply(game); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := a.games.Update(game); err != nil {
		slog.Error("update game failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "update failed")
		return
	}

	a.respCache.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, game)
}

// DeleteGame removes a game and its comments and likes.
func (a *Admin) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := a.games.Delete(id); err != nil {
		slog.Error("delete game failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	a.respCache.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// providerInput is the JSON body for provider create/update.
type providerInput struct {
	Name      string `json:"name"`
	SourceURL string `json:"source_url"`
	IsActive  bool   `json:"is_active"`
}

// ListProviders returns every provider.
func (a *Admin) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := a.providers.List()
	if err != nil {
		slog.Error("list providers failed", "error", err)
		respondError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"providers": providers})
}

// CreateProvider registers a game provider.
func (a *Admin) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var in providerInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := validateProvider(in.Name, in.SourceURL); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.providers.Create(&models.Provider{
		Name:      strings.TrimSpace(in.Name),
		SourceURL: strings.TrimSpace(in.SourceURL),
		IsActive:  in.IsActive,
	})
	if err != nil {
		slog.Error("create provider failed", "error", err)
		respondError(w, http.StatusInternalServerError, "create failed")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateProvider replaces a provider's editable fields.
func (a *Admin) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in providerInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := validateProvider(in.Name, in.SourceURL); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	provider, err := a.providers.FindByID(id)
	if err != nil {
		slog.Error("find provider failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if provider == nil {
		respondError(w, http.StatusNotFound, "provider not found")
		return
	}

	provider.Name = strings.TrimSpace(in.Name)
	provider.SourceURL = strings.TrimSpace(in.SourceURL)
	provider.IsActive = in.IsActive

	if err := a.providers.Update(provider); err != nil {
		slog.Error("update provider failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "update failed")
		return
	}
	respondJSON(w, http.StatusOK, provider)
}

// DeleteProvider removes a provider. Its games survive with the provider
// link cleared.
func (a *Admin) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := a.providers.Delete(id); err != nil {
		slog.Error("delete provider failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DeleteComment removes a visitor comment (moderation).
func (a *Admin) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := a.comments.Delete(id); err != nil {
		slog.Error("delete comment failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	a.respCache.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetSettings returns every site setting.
func (a *Admin) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.settings.All()
	if err != nil {
		slog.Error("load settings failed", "error", err)
		respondError(w, http.StatusInternalServerError, "settings failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"settings": settings})
}

// settableKeys are the fixed setting keys the admin UI may write.
var settableKeys = map[string]bool{
	models.SettingSiteTitle:       true,
	models.SettingSiteDescription: true,
	models.SettingCustomScripts:   true,
	models.SettingKnownCategories: true,
	models.SettingKnownTags:       true,
}

// UpdateSettings writes site settings. Only known keys and ad slot keys
// are accepted; the favicon URL is managed by UploadFavicon.
func (a *Admin) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in map[string]string
	if !decodeJSON(w, r, &in) {
		return
	}

	for key := range in {
		if !settableKeys[key] && !strings.HasPrefix(key, models.SettingAdSlotPrefix) {
			respondError(w, http.StatusBadRequest, "unknown setting key: "+key)
			return
		}
	}

	if err := a.settings.SetMany(in); err != nil {
		slog.Error("save settings failed", "error", err)
		respondError(w, http.StatusInternalServerError, "settings failed")
		return
	}

	a.respCache.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// UploadFavicon stores an uploaded favicon in object storage and records
// its public URL as the favicon setting. The previous favicon object is
// deleted when it lived in the same bucket.
func (a *Admin) UploadFavicon(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxFaviconSize); err != nil {
		respondError(w, http.StatusBadRequest, "favicon upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("favicon")
	if err != nil {
		respondError(w, http.StatusBadRequest, "favicon file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := faviconContentTypes[contentType]
	if !ok {
		respondError(w, http.StatusBadRequest, "favicon must be ICO, PNG, or SVG")
		return
	}
	if header.Size > maxFaviconSize {
		respondError(w, http.StatusBadRequest, "favicon upload too large")
		return
	}

	key := path.Join("favicon", uuid.NewString()+ext)
	if err := a.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("favicon upload failed", "error", err)
		respondError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	url := a.storage.FileURL(key)

	// Best-effort cleanup of the previous favicon object.
	if old, err := a.settings.Get(models.SettingFaviconURL, ""); err == nil && old != "" {
		if oldKey, owned := a.storage.ExtractKey(old); owned {
			if err := a.storage.Delete(r.Context(), oldKey); err != nil {
				slog.Warn("delete old favicon failed", "error", err, "key", oldKey)
			}
		}
	}

	if err := a.settings.Set(models.SettingFaviconURL, url); err != nil {
		slog.Error("save favicon url failed", "error", err)
		respondError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	a.respCache.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"favicon_url": url})
}

// FetchFeed downloads and translates a feed without persisting anything,
// so the admin can preview what an import would bring in.
func (a *Admin) FetchFeed(w http.ResponseWriter, r *http.Request) {
	source, ok := a.feedSource(w, r)
	if !ok {
		return
	}

	drafts, err := a.feeds.Fetch(r.Context(), source)
	if err != nil {
		slog.Error("feed fetch failed", "error", err, "source", source)
		respondError(w, http.StatusBadGateway, "feed fetch failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"source": source,
		"count":  len(drafts),
		"games":  drafts,
	})
}

// RunImport downloads a feed and upserts its records. Games already in
// the catalog are updated in place, keyed on play URL. An optional JSON
// body with a play_urls list restricts the import to those records; no
// body imports the whole feed.
func (a *Admin) RunImport(w http.ResponseWriter, r *http.Request) {
	source, ok := a.feedSource(w, r)
	if !ok {
		return
	}

	var in struct {
		PlayURLs []string `json:"play_urls"`
	}
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &in) {
			return
		}
	}

	drafts, err := a.feeds.Fetch(r.Context(), source)
	if err != nil {
		slog.Error("feed fetch failed", "error", err, "source", source)
		respondJSON(w, http.StatusBadGateway, &feeds.Result{
			Success: false,
			Message: "feed fetch failed",
		})
		return
	}

	if len(in.PlayURLs) > 0 {
		keep := make(map[string]bool, len(in.PlayURLs))
		for _, u := range in.PlayURLs {
			keep[u] = true
		}
		selected := make([]models.Game, 0, len(drafts))
		for _, d := range drafts {
			if keep[d.PlayURL] {
				selected = append(selected, d)
			}
		}
		drafts = selected
	}

	result, err := a.importer.ImportBatch(drafts, feedProviderNames[source], a.feeds.SourceURL(source))
	if err != nil {
		slog.Error("feed import failed", "error", err, "source", source)
		respondJSON(w, http.StatusInternalServerError, &feeds.Result{
			Success: false,
			Message: "failed to save games",
		})
		return
	}

	slog.Info("feed import complete", "source", source, "imported", result.ImportedCount)
	a.respCache.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, result)
}

// feedSource parses the {source} URL parameter. Writes a 404 and returns
// false for unknown sources.
func (a *Admin) feedSource(w http.ResponseWriter, r *http.Request) (feeds.Source, bool) {
	raw := chi.URLParam(r, "source")
	if !feeds.ValidSource(raw) {
		respondError(w, http.StatusNotFound, "unknown feed source")
		return "", false
	}
	return feeds.Source(raw), true
}

// ListUsers returns every back-office user.
func (a *Admin) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
		respondError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

// CreateUser adds a back-office user.
func (a *Admin) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	role := models.Role(in.Role)
	if role != models.RoleAdmin && role != models.RoleEditor {
		respondError(w, http.StatusBadRequest, "role must be admin or editor")
		return
	}
	if strings.TrimSpace(in.Email) == "" || len(in.Password) < 8 {
		respondError(w, http.StatusBadRequest, "email and a password of at least 8 characters are required")
		return
	}

	user, err := a.users.Create(in.Email, in.Password, in.DisplayName, role)
	if err != nil {
		slog.Error("create user failed", "error", err)
		respondError(w, http.StatusInternalServerError, "create failed")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// ResetUser2FA clears a user's TOTP enrollment so they re-enroll on
// their next login, for lost authenticator devices.
func (a *Admin) ResetUser2FA(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := a.users.ResetTOTP(id); err != nil {
		slog.Error("reset 2fa failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "2fa reset"})
}

// DeleteUser removes a back-office user.
func (a *Admin) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := a.users.Delete(id); err != nil {
		slog.Error("delete user failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
