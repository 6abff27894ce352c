package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/candle"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/market"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/monitor"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/notification"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/signal"
	"github.com/gopinath0332-del/zerodha-alog/internal/service/strategy"
	"github.com/samber/lo"
)

type Registry interface {
	Start(cfg monitor.Config) (*monitor.Monitor, error)
	Stop(ctx context.Context, key monitor.Key) error
	Status(key monitor.Key) (monitor.State, error)
	List() []monitor.State
}

type AlertTester interface {
	SendTest(ctx context.Context) []notification.Result
}

var (
	_ Registry    = (*monitor.Registry)(nil)
	_ AlertTester = (*notification.Dispatcher)(nil)
)

const stopTimeout = 45 * time.Second

type Handler struct {
	registry Registry
	alerts   AlertTester
	metrics  http.Handler
}

func NewHandler(registry Registry, alerts AlertTester, metrics http.Handler) *Handler {
	return &Handler{registry: registry, alerts: alerts, metrics: metrics}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}

	api := r.Group("/api")
	api.GET("/monitors", h.list)
	api.POST("/monitors", h.start)
	api.GET("/monitors/:instrument/:strategy", h.status)
	api.DELETE("/monitors/:instrument/:strategy", h.stop)
	api.POST("/alerts/test", h.testAlert)
}

type startReq struct {
	Instrument      string `json:"instrument" binding:"required"`
	Strategy        string `json:"strategy" binding:"required"`
	CandleType      string `json:"candle_type"`
	Interval        string `json:"interval"`
	LookbackDays    int    `json:"lookback_days"`
	StartupLookback int    `json:"startup_lookback"`
	strategy.Params
}

func (req startReq) config() monitor.Config {
	return monitor.Config{
		Instrument:      req.Instrument,
		Strategy:        signal.Strategy(strings.ToLower(req.Strategy)),
		CandleType:      candle.Type(strings.ToLower(req.CandleType)),
		Interval:        market.Interval(req.Interval),
		LookbackDays:    req.LookbackDays,
		StartupLookback: req.StartupLookback,
		Params:          req.Params,
	}
}

func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"monitors": h.registry.List()})
}

func (h *Handler) start(c *gin.Context) {
	var req startReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.registry.Start(req.config())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m.Snapshot())
}

func keyOf(c *gin.Context) monitor.Key {
	return monitor.Key{
		Instrument: strings.ToUpper(c.Param("instrument")),
		Strategy:   signal.Strategy(strings.ToLower(c.Param("strategy"))),
	}
}

func (h *Handler) status(c *gin.Context) {
	state, err := h.registry.Status(keyOf(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) stop(c *gin.Context) {
	key := keyOf(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), stopTimeout)
	defer cancel()
	if err := h.registry.Stop(ctx, key); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stopped": key.String()})
}

type alertResult struct {
	Sink       string `json:"sink"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

func (h *Handler) testAlert(c *gin.Context) {
	results := h.alerts.SendTest(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"results": lo.Map(results, func(r notification.Result, _ int) alertResult {
		res := alertResult{Sink: r.Sink, OK: r.OK(), DurationMs: r.Duration.Milliseconds()}
		if r.Err != nil {
			res.Error = r.Err.Error()
		}
		return res
	})})
}

func writeError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, monitor.ErrAlreadyRunning):
		code = http.StatusConflict
	case errors.Is(err, monitor.ErrConfiguration):
		code = http.StatusBadRequest
	case errors.Is(err, monitor.ErrNotRunning):
		code = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
