package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dadrock/internal/formatter"
	"github.com/desertthunder/dadrock/internal/models"
	"github.com/desertthunder/dadrock/internal/services"
	"github.com/desertthunder/dadrock/internal/shared"
	"github.com/desertthunder/dadrock/internal/tasks"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
	maxUploadBytes   = 10 << 20
)

// Catalog is the video store the API reads from and writes to.
type Catalog interface {
	models.VideoStore
	Get(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context, q models.VideoQuery) ([]*models.Video, int, error)
	Stats(ctx context.Context) (*models.CatalogStats, error)
	Update(ctx context.Context, id string, update models.VideoUpdate) (*models.Video, error)
	Delete(ctx context.Context, id string) error
}

// Syncer runs channel syncs.
type Syncer interface {
	Sync(ctx context.Context, req tasks.SyncRequest, progress chan<- tasks.ProgressUpdate) (*tasks.SyncResult, error)
}

// API serves the public catalog endpoints and the admin endpoints under /api.
type API struct {
	catalog       Catalog
	syncer        Syncer
	adminPassword string
	siteURL       string
	logger        *log.Logger
}

// NewAPI creates an API. Admin endpoints reject every request when adminPassword is empty.
func NewAPI(catalog Catalog, syncer Syncer, adminPassword string, logger *log.Logger) *API {
	return &API{
		catalog:       catalog,
		syncer:        syncer,
		adminPassword: adminPassword,
		siteURL:       DefaultSiteURL,
		logger:        logger,
	}
}

// WithSiteURL sets the public origin advertised by robots.txt and sitemap.xml.
func (a *API) WithSiteURL(url string) *API {
	if url != "" {
		a.siteURL = url
	}
	return a
}

// Register adds every API route to r.
func (a *API) Register(r Router) {
	admin := RequireAdmin(a.adminPassword)

	r.Handle(http.MethodGet, "/api/{$}", http.HandlerFunc(a.handleRoot))
	r.Handler(NewSite(a.siteURL))
	r.Handle(http.MethodGet, "/api/videos", http.HandlerFunc(a.handleListVideos))
	r.Handle(http.MethodGet, "/api/videos/{id}", http.HandlerFunc(a.handleGetVideo))
	r.Handle(http.MethodPost, "/api/admin/login", http.HandlerFunc(a.handleLogin))
	r.Handle(http.MethodGet, "/api/admin/stats", http.HandlerFunc(a.handleStats), admin)
	r.Handle(http.MethodPost, "/api/admin/youtube/sync", http.HandlerFunc(a.handleSync), admin)
	r.Handle(http.MethodPost, "/api/admin/videos", http.HandlerFunc(a.handleCreateVideo), admin)
	r.Handle(http.MethodPut, "/api/admin/videos/{id}", http.HandlerFunc(a.handleUpdateVideo), admin)
	r.Handle(http.MethodDelete, "/api/admin/videos/{id}", http.HandlerFunc(a.handleDeleteVideo), admin)
	r.Handle(http.MethodPost, "/api/admin/videos/bulk", http.HandlerFunc(a.handleBulkImport), admin)
}

// NewHandler builds the full HTTP handler with panic recovery and request logging.
func NewHandler(api *API, logger *log.Logger) http.Handler {
	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger))
	api.Register(router)
	return router
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "DadRock Tabs API"})
}

type videoListResponse struct {
	Videos []models.VideoJSON `json:"videos"`
	Total  int                `json:"total"`
}

func (a *API) handleListVideos(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	skip, err := intParam(params.Get("skip"), 0)
	if err != nil || skip < 0 {
		writeError(w, http.StatusBadRequest, "skip must be a non-negative integer")
		return
	}

	limit, err := intParam(params.Get("limit"), defaultPageLimit)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	limit = min(limit, maxPageLimit)

	query := models.VideoQuery{
		Search:     strings.TrimSpace(params.Get("search")),
		SearchType: models.ParseSearchType(params.Get("search_type")),
		Skip:       skip,
		Limit:      limit,
	}

	videos, total, err := a.catalog.List(r.Context(), query)
	if err != nil {
		a.logger.Error("failed to list videos", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list videos")
		return
	}

	resp := videoListResponse{Videos: make([]models.VideoJSON, 0, len(videos)), Total: total}
	for _, v := range videos {
		resp.Videos = append(resp.Videos, v.JSON())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := a.catalog.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, shared.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}
	if err != nil {
		a.logger.Error("failed to get video", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get video")
		return
	}
	writeJSON(w, http.StatusOK, video.JSON())
}

type loginRequest struct {
	Password string `json:"password"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !checkPassword(req.Password, a.adminPassword) {
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Login successful"})
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.catalog.Stats(r.Context())
	if err != nil {
		a.logger.Error("failed to compute stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type createVideoRequest struct {
	Song       string `json:"song"`
	Artist     string `json:"artist"`
	YouTubeURL string `json:"youtube_url"`
	Thumbnail  string `json:"thumbnail"`
}

func (a *API) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	var req createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	thumbnail := req.Thumbnail
	if thumbnail == "" {
		thumbnail = shared.ThumbnailURL(req.YouTubeURL)
	}

	video := models.NewVideo(req.Song, req.Artist, req.YouTubeURL, thumbnail)
	if err := a.catalog.Create(r.Context(), video); err != nil {
		a.writeVideoError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusOK, video.JSON())
}

func (a *API) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	var update models.VideoUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if update.Empty() {
		writeError(w, http.StatusBadRequest, "No data to update")
		return
	}

	video, err := a.catalog.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		a.writeVideoError(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, video.JSON())
}

func (a *API) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	if err := a.catalog.Delete(r.Context(), r.PathValue("id")); err != nil {
		a.writeVideoError(w, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Video deleted successfully"})
}

// writeVideoError maps a catalog write error onto its status code and client message.
func (a *API) writeVideoError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		writeError(w, http.StatusNotFound, "Video not found")
	case errors.Is(err, shared.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "Video with this URL already exists")
	case errors.Is(err, shared.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error("failed to "+op+" video", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to "+op+" video")
	}
}

type syncRequest struct {
	ChannelID string `json:"channel_id"`
	APIKey    string `json:"api_key"`
}

type syncResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	Added       int      `json:"videos_added"`
	Skipped     int      `json:"videos_skipped"`
	Errors      []string `json:"errors"`
	Interrupted bool     `json:"interrupted,omitempty"`
}

func (a *API) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := a.syncer.Sync(r.Context(), tasks.SyncRequest{ChannelID: req.ChannelID, APIKey: req.APIKey}, nil)
	if err != nil {
		status, message := syncFailure(err)
		if status >= http.StatusInternalServerError {
			a.logger.Error("sync failed", "channel", req.ChannelID, "error", err)
		}
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{
		Success:     true,
		Message:     result.Message(),
		Added:       result.Added,
		Skipped:     result.Skipped,
		Errors:      result.Errors,
		Interrupted: result.Interrupted,
	})
}

// syncFailure maps a fatal sync error onto its status code and client message.
func syncFailure(err error) (int, string) {
	var remote *services.RemoteError

	switch {
	case errors.Is(err, shared.ErrMissingCredentials):
		return http.StatusBadRequest, "YouTube API key not configured"
	case errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid YouTube API key"
	case errors.Is(err, shared.ErrChannelNotFound):
		return http.StatusNotFound, "Channel not found"
	case errors.Is(err, shared.ErrSyncInProgress):
		return http.StatusConflict, "Sync already in progress for this channel"
	case errors.Is(err, shared.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "YouTube API quota exceeded. Try again tomorrow."
	case errors.As(err, &remote):
		return http.StatusBadRequest, "YouTube API error: " + remote.Message
	default:
		return http.StatusInternalServerError, fmt.Sprintf("Sync failed: %v", err)
	}
}

type importResponse struct {
	Message string   `json:"message"`
	Added   int      `json:"videos_added"`
	Errors  []string `json:"errors"`
}

func (a *API) handleBulkImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "File must be a CSV")
		return
	}

	rows, err := formatter.ParseVideosCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := tasks.ImportVideos(r.Context(), a.catalog, rows)
	if err != nil {
		a.logger.Warn("import interrupted", "added", result.Added, "error", err)
	}

	writeJSON(w, http.StatusOK, importResponse{
		Message: result.Message(),
		Added:   result.Added,
		Errors:  result.Errors,
	})
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
