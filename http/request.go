package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"okto-simulator/domain"
)

const maxBodyBytes = 1 << 16

type valuationRequest struct {
	Brand       string `json:"brand" validate:"required,max=64"`
	ModelYear   int    `json:"model_year" validate:"required"`
	OdometerKm  *int   `json:"odometer_km" validate:"required"`
	CurrentYear int    `json:"current_year" validate:"omitempty,min=1900,max=9999"`
}

// query converts the request; currentYear fills in a missing current_year.
func (r valuationRequest) query(currentYear int) domain.VehicleQuery {
	brand, _ := domain.ParseBrand(r.Brand)
	q := domain.VehicleQuery{
		Brand:       brand,
		ModelYear:   r.ModelYear,
		OdometerKm:  *r.OdometerKm,
		CurrentYear: r.CurrentYear,
	}
	if q.CurrentYear == 0 {
		q.CurrentYear = currentYear
	}
	return q
}

type scanRequest struct {
	BatchSize int     `json:"batch_size" validate:"omitempty,min=1,max=1000"`
	Seed      *uint64 `json:"seed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var errEmptyBody = errors.New("empty body")

func isJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// decodeJSON reads a JSON body into dst and validates it. An empty body
// returns errEmptyBody so optional payloads can fall back to defaults.
func decodeJSON(r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return v.Struct(dst)
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written response.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, body any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		logger.Error("error encoding response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("error writing response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownBrand):
		writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, logger, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
