// Package httpapi exposes the ordering engine over HTTP: the WhatsApp webhook,
// its verification handshake and a health check.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/engine"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TurnHandler runs one customer turn
type TurnHandler interface {
	HandleInboundTurn(ctx context.Context, customerID string, ev models.InboundEvent) (engine.TurnResult, error)
}

// Handler serves the webhook endpoints
type Handler struct {
	turns       TurnHandler
	verifyToken string
	logger      *zap.Logger
}

// NewHandler creates a Handler
func NewHandler(turns TurnHandler, verifyToken string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{turns: turns, verifyToken: verifyToken, logger: logger}
}

// NewRouter wires the routes onto a gin engine
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))

	r.GET("/health", h.Health)
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	r.POST("/events", h.Event)
	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Verify answers the subscription handshake
func (h *Handler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "subscribe" || h.verifyToken == "" || token != h.verifyToken {
		h.logger.Warn("webhook verification rejected", zap.String("mode", mode))
		c.String(http.StatusForbidden, "forbidden")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive handles a notification. It always answers 200 so the platform does
// not redeliver; failures are logged.
func (h *Handler) Receive(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	handled := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			names := make(map[string]string, len(change.Value.Contacts))
			for _, contact := range change.Value.Contacts {
				names[contact.WaID] = contact.Profile.Name
			}
			for _, msg := range change.Value.Messages {
				if msg.From == "" {
					continue
				}
				ev := toEvent(msg, names[msg.From])
				ensureMessageID(&ev)
				h.run(c.Request.Context(), ev)
				handled++
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "handled": handled})
}

// ensureMessageID gives an id-less event its own id so duplicate suppression
// never treats two such events as one
func ensureMessageID(ev *models.InboundEvent) {
	if ev.MessageID == "" {
		ev.MessageID = uuid.NewString()
	}
}

func (h *Handler) run(ctx context.Context, ev models.InboundEvent) {
	res, err := h.turns.HandleInboundTurn(ctx, ev.CustomerID, ev)
	switch {
	case errors.Is(err, engine.ErrDuplicateEvent):
		h.logger.Debug("duplicate webhook delivery", zap.String("message_id", ev.MessageID))
	case err != nil:
		h.logger.Error("turn failed",
			zap.String("customer", ev.CustomerID),
			zap.String("message_id", ev.MessageID),
			zap.Error(err))
	default:
		h.logger.Info("turn handled",
			zap.String("customer", ev.CustomerID),
			zap.String("kind", string(ev.Kind)),
			zap.String("step", string(res.Step)),
			zap.String("failure", string(res.Failure)),
			zap.Int("replies", res.Replies))
	}
}

// Event accepts an already-decoded InboundEvent, for transports other than WhatsApp
func (h *Handler) Event(c *gin.Context) {
	var ev models.InboundEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid event"})
		return
	}
	if ev.CustomerID == "" || ev.Kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "customer_id and kind are required"})
		return
	}
	ensureMessageID(&ev)

	res, err := h.turns.HandleInboundTurn(c.Request.Context(), ev.CustomerID, ev)
	if errors.Is(err, engine.ErrDuplicateEvent) {
		c.JSON(http.StatusOK, gin.H{"duplicate": true})
		return
	}
	if err != nil {
		h.logger.Error("turn failed", zap.String("customer", ev.CustomerID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"step":    res.Step,
		"failure": res.Failure,
		"replies": res.Replies,
	})
}
