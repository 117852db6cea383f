package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/capmoment/captionroom/internal/domain"
	"github.com/capmoment/captionroom/internal/repository"
)

type contextKey string

const (
	// ContextKeyRoom is the key for storing the authenticated room in
	// request context.
	ContextKeyRoom contextKey = "room"

	// HostTokenHeader carries the host token on host-only requests. The
	// host_token query parameter is accepted as a fallback for plain links.
	HostTokenHeader = "X-Host-Token"
)

// HostMiddleware guards host-only routes with the per-room host token.
type HostMiddleware struct {
	roomRepo *repository.RoomRepository
}

// NewHostMiddleware creates a new HostMiddleware.
func NewHostMiddleware(roomRepo *repository.RoomRepository) *HostMiddleware {
	return &HostMiddleware{roomRepo: roomRepo}
}

// RequireHost validates the host token against the room in the {id} path
// segment and adds the room to the request context.
func (m *HostMiddleware) RequireHost(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roomID := r.PathValue("id")
		if roomID == "" {
			http.Error(w, "room id is required", http.StatusBadRequest)
			return
		}

		token := r.Header.Get(HostTokenHeader)
		if token == "" {
			token = r.URL.Query().Get("host_token")
		}
		if token == "" {
			http.Error(w, "missing host token", http.StatusUnauthorized)
			return
		}

		room, err := m.roomRepo.GetByID(r.Context(), roomID)
		if err != nil {
			if errors.Is(err, domain.ErrRoomNotFound) {
				http.Error(w, "room not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(room.HostToken)) != 1 {
			http.Error(w, "invalid host token", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyRoom, room)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRoomFromContext retrieves the host-authenticated room from request
// context.
func GetRoomFromContext(ctx context.Context) (*domain.Room, error) {
	room, ok := ctx.Value(ContextKeyRoom).(*domain.Room)
	if !ok || room == nil {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}
