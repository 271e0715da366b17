package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"energy-market/internal/analysis"
	"energy-market/internal/api/models"
	"energy-market/internal/config"
	"energy-market/internal/simulation"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// StreamHandler runs a scenario over a websocket, sending one "slot" message
// per cleared slot and a final "summary".
type StreamHandler struct {
	upgrader websocket.Upgrader
	limits   Limits
	logger   *slog.Logger
}

func NewStreamHandler(limits Limits, logger *slog.Logger) *StreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamHandler{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		limits:   limits,
		logger:   logger,
	}
}

// Stream handles GET /api/v1/simulate/stream. The client sends the scenario
// config as the first JSON message.
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	var cfg config.Config
	if err := conn.ReadJSON(&cfg); err != nil {
		writeStreamError(conn, "INVALID_REQUEST", err.Error())
		return
	}
	sc, code, err := resolveScenario(cfg, h.limits)
	if err != nil {
		writeStreamError(conn, code, err.Error())
		return
	}
	// one day at a time keeps slot messages in order
	sc.Workers = 1

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	engine := simulation.New(
		simulation.WithLogger(h.logger),
		simulation.WithSlotObserver(func(r simulation.SlotReport) {
			if ctx.Err() != nil {
				return
			}
			if err := conn.WriteJSON(models.StreamMessage{Type: "slot", Data: r}); err != nil {
				h.logger.Debug("stream client gone", "err", err)
				cancel()
			}
		}),
	)

	res, err := engine.Run(ctx, sc)
	if err != nil {
		writeStreamError(conn, "SIMULATION_ERROR", err.Error())
		return
	}
	_ = conn.WriteJSON(models.StreamMessage{Type: "summary", Data: models.SimulateResponse{
		Status:  "completed",
		Summary: analysis.Summarize(res),
	}})
}

func writeStreamError(conn *websocket.Conn, code, message string) {
	_ = conn.WriteJSON(models.StreamMessage{Type: "error", Data: models.NewError(code, message).Error})
}
