package http

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"okto-simulator/domain"
	"okto-simulator/repository"
	"okto-simulator/service"
)

// SimulatorHandler drives the delayed valuation and market flows. POST
// starts a run (superseding any pending one), GET reports its state and
// DELETE abandons it.
type SimulatorHandler struct {
	valuation    *service.ValuationService
	market       *service.MarketScanService
	repo         repository.ScanRepository
	valuationSim *service.Simulation[domain.ValuationResult]
	marketSim    *service.Simulation[domain.MarketScanResult]
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewSimulatorHandler(
	valuation *service.ValuationService,
	market *service.MarketScanService,
	repo repository.ScanRepository,
	valuationSim *service.Simulation[domain.ValuationResult],
	marketSim *service.Simulation[domain.MarketScanResult],
	logger *zap.Logger,
) *SimulatorHandler {
	return &SimulatorHandler{
		valuation:    valuation,
		market:       market,
		repo:         repo,
		valuationSim: valuationSim,
		marketSim:    marketSim,
		validate:     validator.New(),
		logger:       logger,
	}
}

func (h *SimulatorHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, h.logger, http.StatusOK, h.valuationSim.Status())
	case http.MethodDelete:
		h.valuationSim.Cancel()
		writeJSON(w, h.logger, http.StatusOK, h.valuationSim.Status())
	case http.MethodPost:
		h.startValuation(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (h *SimulatorHandler) startValuation(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req valuationRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		h.logger.Debug("invalid simulator request", zap.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	query := req.query(h.valuation.CurrentYear())
	if err := h.valuation.Validate(query); err != nil {
		writeError(w, h.logger, err)
		return
	}

	// The run outlives the request; only Cancel or a newer run stops it.
	run := h.valuationSim.Start(context.WithoutCancel(r.Context()),
		func(ctx context.Context) (domain.ValuationResult, error) {
			return h.valuation.Estimate(ctx, query)
		})

	h.logger.Info("valuation simulation started", zap.Uint64("sequence", run.Sequence))
	writeJSON(w, h.logger, http.StatusAccepted, h.valuationSim.Status())
}

func (h *SimulatorHandler) Market(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, h.logger, http.StatusOK, h.marketSim.Status())
	case http.MethodDelete:
		h.marketSim.Cancel()
		writeJSON(w, h.logger, http.StatusOK, h.marketSim.Status())
	case http.MethodPost:
		h.startMarket(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (h *SimulatorHandler) startMarket(w http.ResponseWriter, r *http.Request) {
	req, ok := readScanRequest(w, r, h.validate, h.logger)
	if !ok {
		return
	}

	rng := req.rng()
	run := h.marketSim.Start(context.WithoutCancel(r.Context()),
		func(context.Context) (domain.MarketScanResult, error) {
			return h.market.Scan(rng, req.BatchSize), nil
		})

	// The scan becomes the latest one only once it is revealed.
	go func() {
		result, err := run.Wait(context.Background())
		if err != nil {
			return
		}
		if err := h.repo.SaveLatest(context.Background(), result); err != nil {
			h.logger.Warn("failed to store scan", zap.String("scan_id", result.ID), zap.Error(err))
		}
	}()

	h.logger.Info("market simulation started", zap.Uint64("sequence", run.Sequence))
	writeJSON(w, h.logger, http.StatusAccepted, h.marketSim.Status())
}
