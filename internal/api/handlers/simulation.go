package handlers

import (
	"log/slog"
	"net/http"

	"energy-market/internal/analysis"
	"energy-market/internal/api/models"
	"energy-market/internal/config"
	"energy-market/internal/data"
	"energy-market/internal/simulation"

	"github.com/gin-gonic/gin"
)

// SimulationHandler runs scenarios and keeps finished results in a TTL cache
// so their ledgers can be fetched by id.
type SimulationHandler struct {
	results *data.ResultCache[*simulation.Result]
	limits  Limits
	logger  *slog.Logger
}

func NewSimulationHandler(results *data.ResultCache[*simulation.Result], limits Limits, logger *slog.Logger) *SimulationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulationHandler{results: results, limits: limits, logger: logger}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}

	sc, code, err := resolveScenario(req.Config, h.limits)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewError(code, err.Error()))
		return
	}

	res, err := simulation.New(simulation.WithLogger(h.logger)).Run(c.Request.Context(), sc)
	if err != nil {
		h.logger.Error("simulation failed", "err", err)
		c.JSON(http.StatusInternalServerError, models.NewError("SIMULATION_ERROR", err.Error()))
		return
	}

	resp := models.SimulateResponse{
		ID:      h.results.Put(res),
		Status:  "completed",
		Summary: analysis.Summarize(res),
	}
	if req.Options.IncludeLedger {
		resp.Ledger = res.Ledger
	}
	if req.Options.IncludeParticipants {
		resp.Participants = res.Participants
	}
	c.JSON(http.StatusOK, resp)
}

// GetLedger handles GET /api/v1/simulate/:id/ledger
func (h *SimulationHandler) GetLedger(c *gin.Context) {
	id := c.Param("id")
	res, ok := h.results.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.NewError("NOT_FOUND", "no cached simulation with id "+id))
		return
	}
	ledger := res.Ledger
	if ledger == nil {
		ledger = []simulation.LedgerRow{}
	}
	c.JSON(http.StatusOK, models.LedgerResponse{ID: id, Ledger: ledger})
}

// CompareSimulations handles POST /api/v1/simulate/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}

	if err := h.limits.checkVariations(len(req.Variations)); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("LIMIT_EXCEEDED", err.Error()))
		return
	}

	engine := simulation.New(simulation.WithLogger(h.logger))
	var (
		ok     []analysis.NamedSummary
		failed []models.ComparisonResult
	)
	for _, v := range req.Variations {
		merged := config.MergeScenario(req.BaseConfig, v.Config)
		sc, _, err := resolveScenario(merged, h.limits)
		if err != nil {
			failed = append(failed, models.ComparisonResult{Name: v.Name, Error: err.Error()})
			continue
		}
		res, err := engine.Run(c.Request.Context(), sc)
		if err != nil {
			failed = append(failed, models.ComparisonResult{Name: v.Name, Error: err.Error()})
			continue
		}
		ok = append(ok, analysis.NamedSummary{Name: v.Name, Summary: analysis.Summarize(res)})
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	for i, r := range analysis.RankByWelfare(ok) {
		comparison = append(comparison, models.ComparisonResult{Rank: i + 1, Name: r.Name, Summary: r.Summary})
	}
	comparison = append(comparison, failed...)

	c.JSON(http.StatusOK, models.CompareResponse{Comparison: comparison})
}
