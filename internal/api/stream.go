package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"schoolboard/internal/events"
	"schoolboard/internal/metrics"
)

// stream holds the connection open and writes one "data:" frame per
// attendance event. The bus callback never blocks: when the connection falls
// behind by more than the buffer, events are dropped.
func (h *Handler) stream(c *gin.Context) {
	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	log := h.log.With().Str("stream_id", uuid.NewString()).Str("ip", c.ClientIP()).Logger()

	ch := make(chan events.Event, h.buffer)
	unsubscribe := h.bus.Subscribe(func(ev events.Event) {
		select {
		case ch <- ev:
		default:
			metrics.StreamDropped.Inc()
			log.Warn().Str("student_id", ev.StudentID).Msg("stream buffer full, event dropped")
		}
	})
	defer unsubscribe()

	metrics.StreamsOpen.Inc()
	defer metrics.StreamsOpen.Dec()
	log.Debug().Msg("stream opened")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			data, err := json.Marshal(ev)
			if err != nil {
				log.Error().Err(err).Msg("encode attendance event")
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			w.Flush()
		case <-ticker.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			w.Flush()
		}
	}
}
