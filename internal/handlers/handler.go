package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/apperr"
	"github.com/shrimpsizemoose/semla/internal/models"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	service *app.Service
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{
		service: service,
	}
}

type envelope struct {
	HTTPCode int              `json:"http_code"`
	Data     any              `json:"data"`
	Metadata *models.Metadata `json:"metadata,omitempty"`
}

type errorBody struct {
	HTTPCode int         `json:"http_code"`
	Kind     apperr.Kind `json:"kind"`
	Detail   string      `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
	}
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{HTTPCode: http.StatusOK, Data: data})
}

func created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{HTTPCode: http.StatusCreated, Data: data})
}

func paged(w http.ResponseWriter, data any, meta models.Metadata) {
	writeJSON(w, http.StatusOK, envelope{HTTPCode: http.StatusOK, Data: data, Metadata: &meta})
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// fail writes the error body for err. Only internal errors are logged as failures.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := apperr.Status(kind)

	if kind == apperr.Internal {
		logger.Error.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	} else {
		logger.Debug.Printf("%s %s rejected: %v", r.Method, r.URL.Path, err)
	}

	writeJSON(w, status, errorBody{
		HTTPCode: status,
		Kind:     kind,
		Detail:   apperr.DetailOf(err),
	})
}

func decode(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperr.Wrap(apperr.Validation, err, "Failed to read request body")
	}
	logger.Debug.Printf("Received %d byte request body for %s", len(body), r.URL.Path)

	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperr.Wrap(apperr.Validation, err, "%s has an invalid type", typeErr.Field)
		}
		return apperr.Wrap(apperr.Validation, err, "Invalid request body")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validationf("Invalid %s", name)
	}
	return id, nil
}

// queryInt returns 0 for a missing parameter and a validation error for a malformed one.
func queryInt(r *http.Request, names ...string) (int64, error) {
	for _, name := range names {
		raw := strings.TrimSpace(r.URL.Query().Get(name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return 0, apperr.Validationf("Invalid %s", name)
		}
		return v, nil
	}
	return 0, nil
}

func parsePage(r *http.Request) (models.Page, error) {
	q := r.URL.Query()

	number, err := queryInt(r, "page")
	if err != nil {
		return models.Page{}, err
	}
	size, err := queryInt(r, "size", "page_size")
	if err != nil {
		return models.Page{}, err
	}

	sortBy := q.Get("sort_by")
	if sortBy == "" {
		sortBy = q.Get("sort")
	}

	order := strings.ToLower(q.Get("order"))
	if order != "" && order != "asc" && order != "desc" {
		return models.Page{}, apperr.Validationf("order must be asc or desc")
	}

	return models.Page{
		Page:   int(number),
		Size:   int(size),
		SortBy: sortBy,
		Order:  order,
	}.Normalize(), nil
}
