// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ragserve/ragserve/internal/domain/entities"
	"github.com/ragserve/ragserve/internal/domain/usecases"
	"github.com/rs/zerolog"
)

// Server is the HTTP server for the query API.
type Server struct {
	queryUseCase *usecases.QueryUseCase
	addUseCase   *usecases.AddUseCase
	addr         string
	log          zerolog.Logger
	engine       *gin.Engine
}

// NewServer creates a new HTTP server.
func NewServer(
	queryUC *usecases.QueryUseCase,
	addUC *usecases.AddUseCase,
	addr string,
	log zerolog.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &Server{
		queryUseCase: queryUC,
		addUseCase:   addUC,
		addr:         addr,
		log:          log,
		engine:       engine,
	}

	engine.Use(gin.Recovery(), s.requestLogger())
	engine.GET("/health", s.handleHealth)
	engine.POST("/query", s.handleQuery)
	engine.POST("/add", s.handleAdd)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.log.Info().Str("addr", s.addr).Msg("ragserve listening")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type queryResponse struct {
	Answer  string          `json:"answer"`
	Sources []sourceSnippet `json:"sources"`
}

type sourceSnippet struct {
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// handleHealth reports liveness only; it never probes downstream services.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleQuery answers POST /query?q=...
func (s *Server) handleQuery(c *gin.Context) {
	resp, err := s.queryUseCase.Query(c.Request.Context(), &entities.QueryRequest{
		Question: c.Query("q"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	sources := make([]sourceSnippet, len(resp.Sources))
	for i, src := range resp.Sources {
		sources[i] = sourceSnippet{
			DocumentID: src.DocumentID,
			Text:       src.Text,
			Score:      src.Score,
		}
	}

	c.JSON(http.StatusOK, queryResponse{
		Answer:  resp.Answer,
		Sources: sources,
	})
}

// handleAdd appends text to the knowledge store via POST /add?text=...
// Form data is accepted as a fallback for curl-style clients.
func (s *Server) handleAdd(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		text = c.PostForm("text")
	}

	result, err := s.addUseCase.Add(c.Request.Context(), text)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": result.ID})
}

// writeError maps the error taxonomy to HTTP statuses. Nothing is retried
// here and nothing is swallowed: every failure reaches the caller as a
// structured kind plus message.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "internal"

	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		status, kind = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, entities.ErrRetrievalUnavailable):
		status, kind = http.StatusServiceUnavailable, "retrieval_unavailable"
	case errors.Is(err, entities.ErrGenerationFailed):
		status, kind = http.StatusServiceUnavailable, "generation_failed"
	case errors.Is(err, entities.ErrStoreUnavailable):
		status, kind = http.StatusServiceUnavailable, "store_unavailable"
	case errors.Is(err, entities.ErrEmbeddingFailed):
		status, kind = http.StatusInternalServerError, "embedding_failed"
	}

	c.JSON(status, gin.H{"error": kind, "message": err.Error()})
}

// requestLogger logs every request with method, path, status and duration.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
