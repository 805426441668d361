package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-gabbai/internal/config"
)

const nunPath = "/calendars/synagogue-nun.ics"

func serve(s *FeedServer, method, path string, header http.Header) *http.Response {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w.Result()
}

func knownSlugs(slugs ...string) func(string) bool {
	return func(s string) bool {
		for _, k := range slugs {
			if k == s {
				return true
			}
		}
		return false
	}
}

func TestHandler_ServingContent(t *testing.T) {
	srv := NewFeedServer("", "0", nil)
	ics := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR")
	srv.Update("synagogue-nun", ics)

	resp := serve(srv, http.MethodGet, nunPath, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))
	assert.NotEmpty(t, resp.Header.Get(config.HeaderLastModified))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, ics, body)
}

func TestHandler_FeedsAreSeparate(t *testing.T) {
	srv := NewFeedServer("", "0", nil)
	srv.Update("synagogue-nun", []byte("NUN"))
	srv.Update("beth-shalom", []byte("SHALOM"))

	resp := serve(srv, http.MethodGet, "/calendars/beth-shalom.ics", nil)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "SHALOM", string(body))
	assert.ElementsMatch(t, []string{"synagogue-nun", "beth-shalom"}, srv.Slugs())

	srv.Remove("beth-shalom")
	resp = serve(srv, http.MethodGet, "/calendars/beth-shalom.ics", nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandler_Caching(t *testing.T) {
	srv := NewFeedServer("", "0", nil)
	srv.Update("synagogue-nun", []byte("DATA_VERSION_1"))

	first := serve(srv, http.MethodGet, nunPath, nil)
	_ = first.Body.Close()
	etag := first.Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag)

	second := serve(srv, http.MethodGet, nunPath, http.Header{config.HeaderIfNoneMatch: {etag}})
	defer func() { _ = second.Body.Close() }()
	assert.Equal(t, http.StatusNotModified, second.StatusCode)
	body, _ := io.ReadAll(second.Body)
	assert.Empty(t, body)

	later := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	third := serve(srv, http.MethodGet, nunPath, http.Header{config.HeaderIfModifiedSince: {later}})
	_ = third.Body.Close()
	assert.Equal(t, http.StatusNotModified, third.StatusCode)

	srv.Update("synagogue-nun", []byte("DATA_VERSION_2"))
	fourth := serve(srv, http.MethodGet, nunPath, http.Header{config.HeaderIfNoneMatch: {etag}})
	_ = fourth.Body.Close()
	assert.Equal(t, http.StatusOK, fourth.StatusCode, "a new version invalidates the old ETag")
}

func TestHandler_Head(t *testing.T) {
	srv := NewFeedServer("", "0", nil)
	srv.Update("synagogue-nun", []byte("DATA"))

	resp := serve(srv, http.MethodHead, nunPath, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewFeedServer("", "0", nil)

	resp := serve(srv, http.MethodPost, nunPath, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
}

func TestHandler_Initializing(t *testing.T) {
	srv := NewFeedServer("", "0", knownSlugs("synagogue-nun"))

	resp := serve(srv, http.MethodGet, nunPath, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

func TestHandler_NotFound(t *testing.T) {
	srv := NewFeedServer("", "0", knownSlugs("synagogue-nun"))
	srv.Update("synagogue-nun", []byte("DATA"))

	for _, path := range []string{"/calendars/unknown.ics", "/calendars/synagogue-nun", "/calendars/.ics", "/other"} {
		t.Run(path, func(t *testing.T) {
			resp := serve(srv, http.MethodGet, path, nil)
			_ = resp.Body.Close()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

// Run with -race.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewFeedServer("", "0", nil)
	h := srv.Handler()
	var wg sync.WaitGroup
	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				srv.Update("synagogue-nun", []byte(fmt.Sprintf("VERSION:%d-%d", id, i)))
				time.Sleep(time.Microsecond)
			}
		}(w)
	}
	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, nunPath, nil))
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("unexpected status during race test: %d", w.Code)
				}
			}
		}()
	}
	wg.Wait()
}

func TestServer_Lifecycle(t *testing.T) {
	const port = "18099"

	srv := NewFeedServer("", port, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start(ctx) }()

	url := "http://127.0.0.1:" + port + nunPath
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "server failed to listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	srv.Update("synagogue-nun", []byte("BEGIN:VCALENDAR\nEND:VCALENDAR"))

	resp, err = http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err, "graceful shutdown returns nil")
	case <-time.After(5 * time.Second):
		t.Fatal("server shutdown timed out")
	}
}

func TestServer_StartRequiresPort(t *testing.T) {
	err := NewFeedServer("", "", nil).Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRequired)
}
