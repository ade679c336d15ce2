package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"okto-simulator/service"
)

type ValuationHandler struct {
	service  *service.ValuationService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewValuationHandler(service *service.ValuationService, logger *zap.Logger) *ValuationHandler {
	return &ValuationHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *ValuationHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	if !isJSON(r) {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req valuationRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		h.logger.Debug("invalid valuation request", zap.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Estimate(r.Context(), req.query(h.service.CurrentYear()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}
