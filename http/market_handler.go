package http

import (
	"errors"
	"math/rand/v2"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"okto-simulator/repository"
	"okto-simulator/service"
)

type MarketHandler struct {
	service  *service.MarketScanService
	repo     repository.ScanRepository
	validate *validator.Validate
	logger   *zap.Logger
}

func NewMarketHandler(
	service *service.MarketScanService,
	repo repository.ScanRepository,
	logger *zap.Logger,
) *MarketHandler {
	return &MarketHandler{
		service:  service,
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

// Scan generates a new batch synchronously and stores it as the latest.
func (h *MarketHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	req, ok := readScanRequest(w, r, h.validate, h.logger)
	if !ok {
		return
	}

	result := h.service.Scan(req.rng(), req.BatchSize)
	if err := h.repo.SaveLatest(r.Context(), result); err != nil {
		h.logger.Warn("failed to store scan", zap.String("scan_id", result.ID), zap.Error(err))
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

func (h *MarketHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	result, ok := h.repo.Latest(r.Context())
	if !ok {
		writeJSON(w, h.logger, http.StatusNotFound, errorResponse{Error: "no scan yet"})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

// readScanRequest accepts an empty body as "all defaults".
func readScanRequest(w http.ResponseWriter, r *http.Request, v *validator.Validate, logger *zap.Logger) (scanRequest, bool) {
	var req scanRequest
	if r.ContentLength == 0 {
		return req, true
	}
	if !isJSON(r) {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return req, false
	}
	if err := decodeJSON(r, v, &req); err != nil && !errors.Is(err, errEmptyBody) {
		logger.Debug("invalid scan request", zap.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// rng returns a seeded source when a seed was given, otherwise a fresh one.
func (r scanRequest) rng() *rand.Rand {
	if r.Seed != nil {
		return rand.New(rand.NewPCG(*r.Seed, *r.Seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
