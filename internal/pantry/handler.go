package pantry

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/auth"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/utilities"
)

// Handler serves the caller's pantry. Routes are expected behind the
// guard's Authenticated middleware.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())
	skip, limit, err := utilities.Page(r, 100, 1000)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	out, err := h.svc.List(r.Context(), actor, skip, limit)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())
	id, err := utilities.PathID(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	it, err := h.svc.Get(r.Context(), actor, id)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, it)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, h.logger, apperr.ErrUnauthenticated)
		return
	}
	var req CreateInput
	if err := utilities.DecodeValidate(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	it, err := h.svc.Create(r.Context(), actor, req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, it)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())
	id, err := utilities.PathID(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	var req UpdateInput
	if err := utilities.DecodeValidate(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	it, err := h.svc.Update(r.Context(), actor, id, req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, it)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())
	id, err := utilities.PathID(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	if err := h.svc.Delete(r.Context(), actor, id); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
