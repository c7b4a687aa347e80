package recipe

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/ingredient"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/utilities"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := utilities.Page(r, 100, 1000)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	out, err := h.svc.List(r.Context(), skip, limit)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

// Recent serves ?limit=N, newest first.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, err := utilities.QueryInt(r, "limit", DefaultRecentLimit)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	out, err := h.svc.Recent(r.Context(), min(limit, 100))
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := utilities.PathID(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	out, err := h.svc.ByCategory(r.Context(), id)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query, threshold, err := ingredient.SearchParams(r)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	out, err := h.svc.Search(r.Context(), query, threshold)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utilities.PathID(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	rc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rc)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInput
	if err := utilities.DecodeValidate(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	rc, err := h.svc.Create(r.Context(), req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, rc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
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
	rc, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utilities.PathID(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
