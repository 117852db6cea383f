package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/capmoment/captionroom/docs" // Import generated docs
	"github.com/capmoment/captionroom/internal/handler/dto"
	"github.com/capmoment/captionroom/internal/middleware"
	"github.com/capmoment/captionroom/internal/repository"
	"github.com/capmoment/captionroom/internal/service"
	"github.com/capmoment/captionroom/internal/static"
	"github.com/capmoment/captionroom/internal/storage"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool           *pgxpool.Pool
	roomService    *service.RoomService
	imageService   *service.ImageService
	captionService *service.CaptionService
	hostMiddleware *middleware.HostMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, store *storage.Store) *Handler {
	// Create repositories
	roomRepo := repository.NewRoomRepository(pool)
	imageRepo := repository.NewImageRepository(pool)
	captionRepo := repository.NewCaptionRepository(pool)

	// Create services
	roomService := service.NewRoomService(roomRepo)
	imageService := service.NewImageService(pool, imageRepo, captionRepo, store)
	captionService := service.NewCaptionService(imageRepo, captionRepo)

	// Create middleware
	hostMiddleware := middleware.NewHostMiddleware(roomRepo)

	return &Handler{
		pool:           pool,
		roomService:    roomService,
		imageService:   imageService,
		captionService: captionService,
		hostMiddleware: hostMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Landing page
	mux.HandleFunc("GET /{$}", h.handleIndex)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// Room lifecycle
	mux.HandleFunc("POST /api/v1/rooms", h.handleCreateRoom)
	mux.HandleFunc("GET /api/v1/rooms/{id}", h.handleGetRoom)

	// Images: upload and delete are host-only
	mux.Handle("POST /api/v1/rooms/{id}/images",
		h.hostMiddleware.RequireHost(http.HandlerFunc(h.handleUploadImages)))
	mux.Handle("DELETE /api/v1/rooms/{id}/images/{name}",
		h.hostMiddleware.RequireHost(http.HandlerFunc(h.handleDeleteImage)))
	mux.HandleFunc("GET /api/v1/rooms/{id}/images", h.handleListImages)
	mux.HandleFunc("GET /api/v1/rooms/{id}/images/{name}", h.handleServeImage)

	// Captions
	mux.HandleFunc("POST /api/v1/rooms/{id}/images/{name}/captions", h.handleCreateCaption)
	mux.HandleFunc("GET /api/v1/rooms/{id}/captions/recent", h.handleRecentCaptions)
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex serves the embedded landing page.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.IndexHTML))
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps a domain error and writes the error response.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}
