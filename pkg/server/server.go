// Package server serves a suggestion dictionary over HTTP with gin. The
// dictionary is generated on first use, cached with a TTL and, when source
// paths are watched, invalidated as soon as a model source changes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-suggest/pkg/orchestrator"
	"github.com/goliatone/go-suggest/pkg/render"
	"github.com/goliatone/go-suggest/pkg/suggest"
)

// Generator is the slice of the orchestrator the server depends on.
type Generator interface {
	Generate(ctx context.Context, req orchestrator.Request) (suggest.Result, error)
	RenderDictionary(ctx context.Context, dict suggest.Dictionary, rendererName string, options render.RenderOptions) ([]byte, error)
	Renderer(name string) (render.Renderer, error)
}

// Option configures a Server.
type Option func(*Server)

// WithCacheTTL sets how long a generated dictionary is reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithDelimiter sets the default token delimiter of the match endpoint.
func WithDelimiter(delimiter string) Option {
	return func(s *Server) {
		if delimiter != "" {
			s.delimiter = delimiter
		}
	}
}

// WithRenderOptions sets the defaults applied to rendered endpoints.
// Query parameters override Mode and Variable per request.
func WithRenderOptions(options render.RenderOptions) Option {
	return func(s *Server) {
		s.renderOptions = options
	}
}

// WithWatchPaths invalidates the cache when any of the files or directories
// change.
func WithWatchPaths(paths ...string) Option {
	return func(s *Server) {
		s.watchPaths = append(s.watchPaths, paths...)
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server exposes the dictionary endpoints.
type Server struct {
	generator     Generator
	request       orchestrator.Request
	cacheTTL      time.Duration
	delimiter     string
	renderOptions render.RenderOptions
	watchPaths    []string
	logger        *slog.Logger

	cache *resultCache
	// generation serialises cache misses so concurrent requests trigger a
	// single Generate call.
	generation sync.Mutex
}

// New constructs a Server that answers with the dictionary generated for req.
func New(generator Generator, req orchestrator.Request, options ...Option) (*Server, error) {
	if generator == nil {
		return nil, errors.New("server: generator is required")
	}
	s := &Server{
		generator: generator,
		request:   req,
		cacheTTL:  DefaultCacheTTL,
		delimiter: suggest.DefaultDelimiter,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.cache = newResultCache(s.cacheTTL)
	return s, nil
}

// Handler returns the gin engine with every route registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.health)
	r.GET("/suggestions", s.dictionary)
	r.GET("/suggestions.js", s.script)

	group := r.Group("/suggestions")
	{
		group.GET("/match", s.match)
		group.GET("/collisions", s.collisions)
	}
	return r
}

// Invalidate drops the cached dictionary and every rendered artifact.
func (s *Server) Invalidate() {
	s.cache.flush()
	s.logger.Info("suggestion cache invalidated")
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if len(s.watchPaths) > 0 {
		watcher, err := NewWatcher(s.watchPaths, DefaultDebounce, s.Invalidate, s.logger)
		if err != nil {
			return err
		}
		watcher.Start()
		defer watcher.Stop()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving suggestions", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) snapshot(ctx context.Context) (*snapshot, error) {
	if snap, ok := s.cache.snapshot(); ok {
		return snap, nil
	}

	s.generation.Lock()
	defer s.generation.Unlock()

	if snap, ok := s.cache.snapshot(); ok {
		return snap, nil
	}

	epoch := s.cache.currentEpoch()
	result, err := s.generator.Generate(ctx, s.request)
	if err != nil {
		return nil, err
	}
	snap := &snapshot{
		result: result,
		store:  suggest.NewStoreFromDictionary(result.Dictionary),
		epoch:  epoch,
	}
	if s.cache.setSnapshot(snap) {
		s.logger.Debug("dictionary cached", slog.Int("entries", len(result.Dictionary)))
	} else {
		s.logger.Debug("dictionary invalidated during generation, not cached")
	}
	return snap, nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// dictionary serves the dictionary as JSON, or in the renderer named by the
// format query parameter.
func (s *Server) dictionary(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	s.rendered(c, format, s.renderOptions)
}

func (s *Server) script(c *gin.Context) {
	options := s.renderOptions
	if mode := c.Query("mode"); mode != "" {
		parsed, err := render.ParseMode(mode)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		options.Mode = parsed
	}
	if variable := c.Query("variable"); variable != "" {
		options.Variable = variable
	}
	s.rendered(c, "js", options)
}

func (s *Server) rendered(c *gin.Context, rendererName string, options render.RenderOptions) {
	renderer, err := s.generator.Renderer(rendererName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := renderCacheKey(renderer.Name(), options)
	if out, ok := s.cache.rendered(key); ok {
		c.Data(http.StatusOK, renderer.ContentType(), out)
		return
	}

	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	out, err := s.generator.RenderDictionary(c.Request.Context(), snap.result.Dictionary, renderer.Name(), options)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.cache.setRendered(key, out, snap.epoch)
	c.Data(http.StatusOK, renderer.ContentType(), out)
}

func (s *Server) match(c *gin.Context) {
	text := c.Query("q")
	delimiter := c.DefaultQuery("delimiter", s.delimiter)

	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	suggestions := snap.store.Suggest(text, delimiter)
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	c.JSON(http.StatusOK, gin.H{
		"text":        text,
		"suggestions": suggestions,
	})
}

func (s *Server) collisions(c *gin.Context) {
	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	collisions := snap.result.Collisions
	if collisions == nil {
		collisions = []suggest.Collision{}
	}
	c.JSON(http.StatusOK, gin.H{
		"collisions": collisions,
		"excluded":   snap.result.Excluded,
	})
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("generate dictionary", slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}

func renderCacheKey(renderer string, options render.RenderOptions) string {
	return strings.Join([]string{
		"render",
		renderer,
		string(options.Mode),
		options.ScriptVariable(),
		fmt.Sprintf("%t:%t", options.Sanitize, options.Indent),
	}, "|")
}
