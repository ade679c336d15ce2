package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"okto-simulator/domain"
	"okto-simulator/service"
)

func pollValuation(t *testing.T, h *SimulatorHandler, want service.Phase) service.Snapshot[domain.ValuationResult] {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		w := httptest.NewRecorder()
		h.Valuation(w, httptest.NewRequest(http.MethodGet, "/simulator/valuation", nil))

		var snap service.Snapshot[domain.ValuationResult]
		if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		if snap.Phase == want {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s, last phase %s", want, snap.Phase)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSimulatorValuation_Lifecycle(t *testing.T) {
	deps := newTestDeps(20 * time.Millisecond)
	h := deps.handlers.Simulator

	w := httptest.NewRecorder()
	h.Valuation(w, jsonRequest(http.MethodPost, "/simulator/valuation",
		`{"brand": "Toyota", "model_year": 2021, "odometer_km": 45000}`))

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	snap := pollValuation(t, h, "complete")
	if snap.Result == nil || snap.Result.EstimatedPrice != 58_200_000 {
		t.Errorf("expected estimate 58200000, got %+v", snap.Result)
	}
}

func TestSimulatorValuation_RejectsInvalidInputUpFront(t *testing.T) {
	deps := newTestDeps(time.Millisecond)

	w := httptest.NewRecorder()
	deps.handlers.Simulator.Valuation(w, jsonRequest(http.MethodPost, "/simulator/valuation",
		`{"brand": "Toyota", "model_year": 2030, "odometer_km": 45000}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSimulatorValuation_RejectsUnknownBrandUpFront(t *testing.T) {
	deps := newTestDeps(time.Millisecond)
	h := deps.handlers.Simulator

	w := httptest.NewRecorder()
	h.Valuation(w, jsonRequest(http.MethodPost, "/simulator/valuation",
		`{"brand": "Lada", "model_year": 2020, "odometer_km": 45000}`))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if snap := h.valuationSim.Status(); snap.Phase != "idle" || snap.Sequence != 0 {
		t.Errorf("no run should have started, got %+v", snap)
	}
}

func TestSimulatorValuation_Cancel(t *testing.T) {
	deps := newTestDeps(time.Hour)
	h := deps.handlers.Simulator

	w := httptest.NewRecorder()
	h.Valuation(w, jsonRequest(http.MethodPost, "/simulator/valuation",
		`{"brand": "Mazda", "model_year": 2020, "odometer_km": 1000}`))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.Valuation(w, httptest.NewRequest(http.MethodDelete, "/simulator/valuation", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	pollValuation(t, h, "idle")
}

func TestSimulatorMarket_StoresRevealedScan(t *testing.T) {
	deps := newTestDeps(10 * time.Millisecond)
	h := deps.handlers.Simulator

	w := httptest.NewRecorder()
	h.Market(w, jsonRequest(http.MethodPost, "/simulator/market", `{"seed": 3}`))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	var started service.Snapshot[domain.MarketScanResult]
	_ = json.NewDecoder(w.Body).Decode(&started)
	if started.Phase != "scanning" {
		t.Errorf("expected scanning, got %s", started.Phase)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if latest, ok := deps.repo.Latest(t.Context()); ok {
			if len(latest.Listings) != service.DefaultBatchSize {
				t.Errorf("expected %d listings, got %d", service.DefaultBatchSize, len(latest.Listings))
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("scan was never stored")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if phase := deps.handlers.Simulator.marketSim.Status().Phase; phase != "analyzed" {
		t.Errorf("expected analyzed, got %s", phase)
	}
}

func TestSimulator_MethodNotAllowed(t *testing.T) {
	deps := newTestDeps(time.Millisecond)

	w := httptest.NewRecorder()
	deps.handlers.Simulator.Market(w, httptest.NewRequest(http.MethodPut, "/simulator/market", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
