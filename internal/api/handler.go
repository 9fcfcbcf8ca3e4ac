// Package api exposes the attendance, fee and result services over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"schoolboard/internal/attendance"
	"schoolboard/internal/events"
	"schoolboard/internal/fees"
	"schoolboard/internal/logger"
	"schoolboard/internal/results"
	apperrors "schoolboard/pkg/errors"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Healthy(ctx context.Context) bool
}

// Deps is everything the handlers need. DB and Redis may be nil when the
// corresponding backend is not configured.
type Deps struct {
	Attendance *attendance.Service
	Fees       *fees.Service
	Results    *results.Service
	Bus        *events.Bus

	DB    Pinger
	Redis Pinger

	StreamHeartbeat time.Duration
	StreamBuffer    int
}

type Handler struct {
	attendance *attendance.Service
	fees       *fees.Service
	results    *results.Service
	bus        *events.Bus
	db         Pinger
	redis      Pinger
	heartbeat  time.Duration
	buffer     int
	log        zerolog.Logger
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		attendance: d.Attendance,
		fees:       d.Fees,
		results:    d.Results,
		bus:        d.Bus,
		db:         d.DB,
		redis:      d.Redis,
		heartbeat:  d.StreamHeartbeat,
		buffer:     d.StreamBuffer,
		log:        logger.With("api"),
	}
	if h.heartbeat <= 0 {
		h.heartbeat = 25 * time.Second
	}
	if h.buffer <= 0 {
		h.buffer = 16
	}
	return h
}

// fail answers err with 400 for validation problems, 403 for role
// violations and a generic 500 for everything else.
func (h *Handler) fail(c *gin.Context, log zerolog.Logger, op string, err error) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		log.Error().Err(err).Msg(op + " failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	db, redis := probe(ctx, h.db), probe(ctx, h.redis)
	status, code := "ok", http.StatusOK
	if db == "down" || redis == "down" {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "db": db, "redis": redis})
}

func probe(ctx context.Context, p Pinger) string {
	switch {
	case p == nil:
		return "disabled"
	case p.Healthy(ctx):
		return "ok"
	default:
		return "down"
	}
}
