package ingredient

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/search"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
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

// Search serves ?query=...&threshold=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query, threshold, err := SearchParams(r)
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

// SearchParams reads the query text and threshold of a search request.
func SearchParams(r *http.Request) (string, int, error) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		return "", 0, apperr.Newf(apperr.ErrInvalidInput, "query is required")
	}
	if utf8.RuneCountInString(query) > search.MaxQueryLength {
		return "", 0, apperr.Newf(apperr.ErrInvalidInput, "query must be at most %d characters", search.MaxQueryLength)
	}
	threshold, err := utilities.QueryInt(r, "threshold", search.DefaultThreshold)
	if err != nil {
		return "", 0, err
	}
	return query, threshold, nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utilities.PathID(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	ing, err := h.svc.Get(r.Context(), id)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, ing)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req Input
	if err := utilities.DecodeValidate(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	ing, err := h.svc.Create(r.Context(), req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, ing)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utilities.PathID(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	var req Input
	if err := utilities.DecodeValidate(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	ing, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, ing)
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
