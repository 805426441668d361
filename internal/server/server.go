// Package server publishes the synagogue calendar feeds over HTTP at
// /calendars/{slug}.ics.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-gabbai/internal/config"
)

// cacheItem stores a rendered feed and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123, as HTTP headers require
}

// FeedServer serves one iCalendar document per synagogue slug.
type FeedServer struct {
	BindAddr string
	Port     string

	// Known reports whether a slug belongs to a published synagogue.
	// Unknown slugs get 404, known ones without content yet get 503.
	// A nil Known treats every slug as known.
	Known func(slug string) bool

	// feeds maps a slug to its current document. The map lock is only taken
	// to find a slot; each slot swaps atomically, so readers never wait on a
	// refresh in progress.
	mu    sync.RWMutex
	feeds map[string]*atomic.Pointer[cacheItem]
}

// NewFeedServer creates a server bound to bindAddr:port. An empty bindAddr means localhost.
func NewFeedServer(bindAddr, port string, known func(string) bool) *FeedServer {
	if bindAddr == "" {
		bindAddr = config.LocalhostBindAddr
	}
	return &FeedServer{
		BindAddr: bindAddr,
		Port:     port,
		Known:    known,
		feeds:    make(map[string]*atomic.Pointer[cacheItem]),
	}
}

// Handler returns the routing of the server.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteCalendars+"{file}", s.handleFeedRequest)
	return mux
}

// Start listens until ctx is cancelled, then shuts down gracefully.
// It blocks, and returns an error when the listener cannot start or the
// shutdown exceeds config.ShutdownTimeout.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	// Timeouts protect against slow clients holding connections open.
	srv := &http.Server{
		Addr:         s.BindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	// Wait for either a shutdown request or a startup failure (port in use).
	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil
	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the feed of one slug.
// The ETag is the SHA-256 of the document, so unchanged content keeps
// answering 304 to clients across refreshes.
func (s *FeedServer) Update(slug string, data []byte) {
	hash := sha256.Sum256(data)
	item := &cacheItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
	s.slot(slug).Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySlug, slug,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, item.etag,
	)
}

// Remove stops serving a slug.
func (s *FeedServer) Remove(slug string) {
	s.mu.Lock()
	delete(s.feeds, slug)
	s.mu.Unlock()
}

// Slugs lists the slugs with content.
func (s *FeedServer) Slugs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.feeds))
	for k, p := range s.feeds {
		if p.Load() != nil {
			out = append(out, k)
		}
	}
	return out
}

// slot returns the pointer of a slug, creating it on first use.
func (s *FeedServer) slot(slug string) *atomic.Pointer[cacheItem] {
	s.mu.RLock()
	p, ok := s.feeds[slug]
	s.mu.RUnlock()
	if ok {
		return p
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok = s.feeds[slug]; !ok {
		p = new(atomic.Pointer[cacheItem])
		s.feeds[slug] = p
	}
	return p
}

func (s *FeedServer) load(slug string) *cacheItem {
	s.mu.RLock()
	p, ok := s.feeds[slug]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return p.Load()
}

// handleFeedRequest serves one feed with HTTP caching support.
//
// Unknown slugs get 404. A known slug without content yet gets 503 with
// Retry-After, so calendar clients come back after the first refresh.
// Conditional requests are answered from the ETag, then Last-Modified.
func (s *FeedServer) handleFeedRequest(w http.ResponseWriter, r *http.Request) {
	// 1. Method check (GET/HEAD only).
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	// 2. Route to the tenant.
	slug, ok := strings.CutSuffix(r.PathValue("file"), config.ExtICS)
	if !ok || slug == "" || (s.Known != nil && !s.Known(slug)) {
		http.Error(w, config.HTTPMsgNotFound, http.StatusNotFound)
		return
	}

	// 3. Availability check.
	item := s.load(slug)
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	// 4. Headers, then conditional handling.
	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil && !serverTime.After(clientTime) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	// 5. Body (HEAD stops at the headers).
	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
