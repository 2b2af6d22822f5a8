package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"ChartPull/internal/domain/models"
	domrepo "ChartPull/internal/domain/repository"
	"ChartPull/internal/usecase"
	xhttp "ChartPull/pkg/http"
	"ChartPull/pkg/logger"
)

// StreamEchoHandler pushes the current trading day's datasets over a
// websocket at a fixed refresh interval.
type StreamEchoHandler struct {
	logger   *logger.Logger
	charts   *usecase.ChartDataUseCase
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewStreamEchoHandler(log *logger.Logger, charts *usecase.ChartDataUseCase, refreshInterval time.Duration) *StreamEchoHandler {
	if refreshInterval <= 0 {
		refreshInterval = 15 * time.Second
	}
	return &StreamEchoHandler{
		logger:   log,
		charts:   charts,
		interval: refreshInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Chart front ends are served from arbitrary origins in dev.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// streamFrame is one websocket payload.
type streamFrame struct {
	Timeframe string          `json:"timeframe"`
	Date      string          `json:"date"`
	Candles   []models.Candle `json:"candles"`
	SentAt    time.Time       `json:"sent_at"`
}

func (h *StreamEchoHandler) Stream(c echo.Context) error {
	var req models.StreamRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	// Drain client frames so control messages (close, ping) are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		day, err := h.charts.ResolveDay("")
		if err != nil {
			return err
		}
		data, err := h.charts.GetChartData(ctx, day)
		if err == nil {
			frame := streamFrame{
				Timeframe: string(tf),
				Date:      data.Date,
				Candles:   data.Data[string(tf)],
				SentAt:    time.Now(),
			}
			if err := conn.WriteJSON(frame); err != nil {
				return nil // client went away
			}
		} else {
			h.logger.Warn("stream refresh failed", logger.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
