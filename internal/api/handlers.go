package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"textaug/internal/augment"
	"textaug/internal/batch"
	"textaug/internal/registry"
	"textaug/internal/wordstore"
	"textaug/pkg/options"
)

// WordStore is the subset of the word store used by the handlers.
type WordStore interface {
	Add(ctx context.Context, set string, words ...string) error
	Remove(ctx context.Context, set, word string) error
	All(ctx context.Context, set string) ([]string, error)
}

// Limits bounds the work of a single request.
type Limits struct {
	MaxThreads int
	MaxItems   int
}

type Handlers struct {
	store    WordStore
	limits   Limits
	defaults registry.Spec
	logger   *slog.Logger
}

// NewHandlers creates the HTTP handlers. store may be nil, in which case the
// word set routes answer 503 and requests naming a word set are rejected.
// defaults fills the augmenter fields a request leaves unset.
func NewHandlers(store WordStore, limits Limits, defaults registry.Spec, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{store: store, limits: limits, defaults: defaults, logger: logger}
}

type AugmentRequest struct {
	Augmenter   registry.Spec `json:"augmenter"`
	Text        *string       `json:"text,omitempty"`
	Texts       []string      `json:"texts,omitempty"`
	N           *int          `json:"n,omitempty"`
	NumThread   int           `json:"num_thread,omitempty"`
	Seed        *uint64       `json:"seed,omitempty"`
	StopwordSet string        `json:"stopword_set,omitempty"`
	TargetSet   string        `json:"target_set,omitempty"`
}

type AugmentResponse struct {
	ID      string   `json:"id"`
	Results []string `json:"results"`
}

type WordsRequest struct {
	Words []string `json:"words" binding:"required,min=1"`
}

type WordsResponse struct {
	Set   string   `json:"set"`
	Words []string `json:"words"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// NewRouter registers all routes on a new gin engine.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.POST("/augment", h.HandleAugment)
	v1.GET("/words/:set", h.HandleListWords)
	v1.POST("/words/:set", h.HandleAddWords)
	v1.DELETE("/words/:set/:word", h.HandleRemoveWord)
	return r
}

const requestIDHeader = "X-Request-ID"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (h *Handlers) requestLogger(c *gin.Context, handler string) *slog.Logger {
	return h.logger.With(slog.String("request_id", c.GetString("request_id")), slog.String("handler", handler))
}

// HandleAugment handles POST /api/v1/augment.
//
// Exactly one of text (n samples) or texts (one output per element) must be
// set. Unset augmenter fields come from the configured defaults. Word sets
// from the store are merged into the augmenter: stopword_set as extra
// stopwords, target_set as the substitute pool.
func (h *Handlers) HandleAugment(c *gin.Context) {
	logger := h.requestLogger(c, "HandleAugment")

	var req AugmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	var data any
	items := 0
	n := 1
	if req.N != nil {
		n = *req.N
	}
	switch {
	case req.Text != nil && req.Texts == nil:
		data, items = *req.Text, n
	case req.Text == nil && req.Texts != nil:
		data, items = req.Texts, len(req.Texts)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "exactly one of text or texts is required", Code: "INVALID_REQUEST"})
		return
	}
	if h.limits.MaxItems > 0 && items > h.limits.MaxItems {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "too many items requested", Code: "TOO_MANY_ITEMS"})
		return
	}
	req.Augmenter = req.Augmenter.WithDefaults(h.defaults)
	if req.TargetSet != "" && req.Augmenter.TargetMap != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "target_set cannot be combined with target_map", Code: "INVALID_REQUEST"})
		return
	}
	threads := max(req.NumThread, 1)
	if h.limits.MaxThreads > 0 {
		threads = min(threads, h.limits.MaxThreads)
	}

	extra, err := h.storeOptions(c.Request.Context(), req)
	if err != nil {
		h.fail(c, logger, err)
		return
	}
	aug, err := registry.Build(req.Augmenter, logger, extra...)
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	var bopts []batch.Option
	bopts = append(bopts, batch.WithLogger(logger))
	if req.Seed != nil {
		bopts = append(bopts, batch.WithSeed(*req.Seed))
	}
	results, err := batch.New(aug, bopts...).Augment(c.Request.Context(), data, n, threads)
	if err != nil {
		h.fail(c, logger, err)
		return
	}
	logger.Info("augmented",
		slog.String("augmenter", aug.Name()),
		slog.Int("items", len(results)),
		slog.Int("threads", threads))
	c.JSON(http.StatusOK, AugmentResponse{ID: c.GetString("request_id"), Results: results})
}

var (
	errStoreDisabled = errors.New("word store is not configured")
	errStore         = errors.New("word store failure")
)

func (h *Handlers) storeOptions(ctx context.Context, req AugmentRequest) ([]options.Options, error) {
	if req.StopwordSet == "" && req.TargetSet == "" {
		return nil, nil
	}
	if h.store == nil {
		return nil, errStoreDisabled
	}
	var opts []options.Options
	if req.StopwordSet != "" {
		words, err := h.store.All(ctx, req.StopwordSet)
		if err != nil {
			return nil, errors.Join(errStore, err)
		}
		opts = append(opts, options.WithStopwords(words...))
	}
	if req.TargetSet != "" {
		words, err := h.store.All(ctx, req.TargetSet)
		if err != nil {
			return nil, errors.Join(errStore, err)
		}
		if len(words) > 0 {
			opts = append(opts, options.WithTargetWords(words...))
		}
	}
	return opts, nil
}

func (h *Handlers) fail(c *gin.Context, logger *slog.Logger, err error) {
	status, code := http.StatusInternalServerError, "AUGMENT_FAILED"
	switch {
	case errors.Is(err, augment.ErrConfiguration):
		status, code = http.StatusBadRequest, "INVALID_CONFIG"
	case errors.Is(err, augment.ErrInvalidInput):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, wordstore.ErrInvalidSet):
		status, code = http.StatusBadRequest, "INVALID_SET"
	case errors.Is(err, errStoreDisabled):
		status, code = http.StatusServiceUnavailable, "STORE_DISABLED"
	case errors.Is(err, errStore):
		status, code = http.StatusBadGateway, "STORE_FAILED"
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.String("error", err.Error()))
	} else {
		logger.Warn("request rejected", slog.String("error", err.Error()))
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// HandleListWords handles GET /api/v1/words/:set.
func (h *Handlers) HandleListWords(c *gin.Context) {
	logger := h.requestLogger(c, "HandleListWords")
	if h.store == nil {
		h.fail(c, logger, errStoreDisabled)
		return
	}
	set := c.Param("set")
	words, err := h.store.All(c.Request.Context(), set)
	if err != nil {
		h.fail(c, logger, errors.Join(errStore, err))
		return
	}
	if words == nil {
		words = []string{}
	}
	c.JSON(http.StatusOK, WordsResponse{Set: set, Words: words})
}

// HandleAddWords handles POST /api/v1/words/:set.
func (h *Handlers) HandleAddWords(c *gin.Context) {
	logger := h.requestLogger(c, "HandleAddWords")
	if h.store == nil {
		h.fail(c, logger, errStoreDisabled)
		return
	}
	var req WordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Code: "INVALID_REQUEST"})
		return
	}
	words := make([]string, 0, len(req.Words))
	for _, w := range req.Words {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no words given", Code: "INVALID_REQUEST"})
		return
	}
	if err := h.store.Add(c.Request.Context(), c.Param("set"), words...); err != nil {
		h.fail(c, logger, errors.Join(errStore, err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok", "added": len(words)})
}

// HandleRemoveWord handles DELETE /api/v1/words/:set/:word.
func (h *Handlers) HandleRemoveWord(c *gin.Context) {
	logger := h.requestLogger(c, "HandleRemoveWord")
	if h.store == nil {
		h.fail(c, logger, errStoreDisabled)
		return
	}
	if err := h.store.Remove(c.Request.Context(), c.Param("set"), c.Param("word")); err != nil {
		h.fail(c, logger, errors.Join(errStore, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
