package utilities

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status code and writes {"error": msg}. Server side
// failures are logged at warn, everything else at debug.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	status := apperr.StatusCode(err)
	if logger != nil {
		if status >= http.StatusInternalServerError || apperr.IsStorage(err) {
			logger.Warnw("request failed", "status", status, "err", err)
		} else {
			logger.Debugw("request rejected", "status", status, "err", err)
		}
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, status, map[string]string{"error": apperr.Message(err)})
}

// DecodeValidate decodes a JSON body into v and runs struct validation on it.
// Both failures are reported as apperr.ErrInvalidInput.
func DecodeValidate(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Newf(apperr.ErrInvalidInput, "invalid payload: %v", err)
	}
	return Validate(v)
}

// Validate runs struct validation on v.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return apperr.Newf(apperr.ErrInvalidInput, "%s", strings.Join(msgs, "; "))
		}
		return apperr.Newf(apperr.ErrInvalidInput, "invalid payload: %v", err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min", "gte", "gt":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return field + " must be a valid url"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// PathID parses the named path wildcard as a positive int64.
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.ErrInvalidInput, "invalid %s %q", name, raw)
	}
	return id, nil
}

// QueryInt reads an integer query parameter, returning def when it is absent.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Newf(apperr.ErrInvalidInput, "%s must be an integer", name)
	}
	return v, nil
}

// Page reads skip/limit query parameters. limit is clamped to maxLimit.
func Page(r *http.Request, defLimit, maxLimit int) (skip, limit int, err error) {
	if skip, err = QueryInt(r, "skip", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = QueryInt(r, "limit", defLimit); err != nil {
		return 0, 0, err
	}
	if skip < 0 || limit < 0 {
		return 0, 0, apperr.Newf(apperr.ErrInvalidInput, "skip and limit must not be negative")
	}
	if limit == 0 || limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit, nil
}
