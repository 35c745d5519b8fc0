// Package professional serves the admin CRUD endpoints of the medical directory.
package professional

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	model "github.com/fmckeffi/healthdesk/backend/internal/model/professional"
	"github.com/fmckeffi/healthdesk/backend/pkg/utils"
)

const maxBodyBytes = 64 << 10

// Handler exposes a professional.Store over HTTP.
type Handler struct {
	store model.Store
}

func New(store model.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the directory routes on r. Callers guard r with admin auth.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/professionals", h.handleList)
	r.Post("/professionals", h.handleCreate)
	r.Get("/professionals/{id}", h.handleGet)
	r.Put("/professionals/{id}", h.handleUpdate)
	r.Delete("/professionals/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.internalError(w, err, "list professionals")
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := h.store.Get(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		utils.RespondFailure(w, http.StatusNotFound, "Medical professional not found.")
		return
	}
	if err != nil {
		h.internalError(w, err, "get professional")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	created, err := h.store.Create(r.Context(), in)
	if errors.Is(err, model.ErrDuplicateEmail) {
		utils.RespondFailure(w, http.StatusConflict, "Email address already exists")
		return
	}
	if err != nil {
		h.internalError(w, err, "create professional")
		return
	}

	log.Info().Str("component", "professional").Int64("id", created.ID).Msg("professional created")
	utils.RespondSuccess(w, http.StatusCreated, "Medical professional added successfully", map[string]any{"id": created.ID})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	updated, err := h.store.Update(r.Context(), id, in)
	switch {
	case errors.Is(err, model.ErrNotFound):
		utils.RespondFailure(w, http.StatusNotFound, "Medical professional not found.")
		return
	case errors.Is(err, model.ErrDuplicateEmail):
		utils.RespondFailure(w, http.StatusConflict, "Email address already exists")
		return
	case err != nil:
		h.internalError(w, err, "update professional")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Medical professional updated successfully", map[string]any{"professional": updated})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	removed, err := h.store.Delete(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		utils.RespondFailure(w, http.StatusNotFound, "Medical professional not found.")
		return
	}
	if err != nil {
		h.internalError(w, err, "delete professional")
		return
	}

	log.Info().Str("component", "professional").Int64("id", id).Msg("professional deleted")
	utils.RespondSuccess(w, http.StatusOK, "Medical professional deleted successfully.", map[string]any{"deleted_name": removed.Name})
}

func (h *Handler) internalError(w http.ResponseWriter, err error, op string) {
	log.Error().Err(err).Str("component", "professional").Msg(op + " failed")
	utils.RespondFailure(w, http.StatusInternalServerError, "An error occurred while processing your request")
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondFailure(w, http.StatusBadRequest, "Invalid ID. Must be a positive integer.")
		return 0, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (model.Input, bool) {
	var in model.Input
	if err := utils.DecodeJSON(w, r, maxBodyBytes, &in); err != nil {
		msg := "Invalid JSON data"
		if errors.Is(err, io.EOF) {
			msg = "No data received"
		}
		utils.RespondFailure(w, http.StatusBadRequest, msg)
		return model.Input{}, false
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			utils.RespondFailure(w, http.StatusBadRequest, verr.Message)
		} else {
			utils.RespondFailure(w, http.StatusBadRequest, err.Error())
		}
		return model.Input{}, false
	}
	return in, true
}
