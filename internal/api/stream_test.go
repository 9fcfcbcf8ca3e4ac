package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolboard/internal/events"
)

func openStream(t *testing.T, f *fixture) (*bufio.Reader, *http.Response, context.CancelFunc) {
	t.Helper()
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+StreamPath, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return bufio.NewReader(resp.Body), resp, cancel
}

func TestStreamDeliversEventsAndUnsubscribes(t *testing.T) {
	f := newFixture(t, options{heartbeat: time.Hour})
	body, resp, cancel := openStream(t, f)
	defer cancel()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

	require.Eventually(t, func() bool { return f.bus.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	f.bus.Publish(events.Event{StudentID: "s1", LessonID: 3, Present: true, Date: "2024-03-05"})
	line, err := body.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, `data: {"studentId":"s1","lessonId":3,"present":true,"date":"2024-03-05"}`+"\n", line)
	blank, err := body.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "\n", blank)

	cancel()
	require.Eventually(t, func() bool { return f.bus.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStreamRepeatedConnectionsDoNotLeak(t *testing.T) {
	f := newFixture(t, options{heartbeat: time.Hour})
	for i := 0; i < 5; i++ {
		_, _, cancel := openStream(t, f)
		require.Eventually(t, func() bool { return f.bus.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
		cancel()
		require.Eventually(t, func() bool { return f.bus.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
	}
}

func TestStreamHeartbeat(t *testing.T) {
	f := newFixture(t, options{heartbeat: 20 * time.Millisecond})
	body, _, cancel := openStream(t, f)
	defer cancel()

	line, err := body.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, ": ping"), line)
}

func TestStreamMarkThroughAPI(t *testing.T) {
	f := newFixture(t, options{heartbeat: time.Hour})
	body, _, cancel := openStream(t, f)
	defer cancel()
	require.Eventually(t, func() bool { return f.bus.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	w := f.do(http.MethodPost, "/api/attendance/mark", `{"studentId":"s9","lessonId":1,"present":true,"date":"2024-03-05"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	line, err := body.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"studentId":"s9"`)
}
