package chat

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pharmachat/pharmachat/internal/api"
)

// Handler exposes the chat pipeline over HTTP as an incrementally-consumable
// text stream.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler creates a chat handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// Chat handles POST /chat. Invalid input is rejected with 400 before any
// provider call; pipeline failures before the first byte return a 500 JSON
// error. Once streaming has begun the client sees either the full answer or
// a truncated stream with the cause logged server-side.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := req.Validate(h.validate); err != nil {
		if errors.Is(err, ErrEmptyConversation) || errors.Is(err, ErrLastNotUser) {
			api.HandleError(w, api.NewBadRequestError(err.Error()))
			return
		}
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	flusher, _ := w.(http.Flusher)
	wrote := false
	sink := func(delta string) error {
		if !wrote {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("X-Accel-Buffering", "no")
			w.WriteHeader(http.StatusOK)
			wrote = true
		}
		if _, err := io.WriteString(w, delta); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	if err := h.svc.Respond(r.Context(), &req, sink); err != nil {
		if !wrote {
			slog.Error("chat pipeline failed", "error", err, "user_id", req.UserID)
			api.HandleError(w, api.ErrInternalServer)
			return
		}
		// Headers are gone; all we can do is stop and record why.
		slog.Error("chat stream aborted", "error", err, "user_id", req.UserID)
	}
}
