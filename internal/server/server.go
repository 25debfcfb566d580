// Package server exposes the tokenizer over HTTP: POST /encode and
// POST /decode plus /health and /vocab introspection endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-gpt2-bpe/internal/config"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Codec encodes text to token ids and decodes ids back to text.
type Codec interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
}

// VocabInfo reports vocabulary statistics for the /vocab endpoint.
type VocabInfo interface {
	VocabSize() int
	MergeCount() int
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	workers        int
	requestTimeout time.Duration
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   1 << 20,
		workers:        4,
		requestTimeout: 30 * time.Second,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes for POST /encode.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of concurrent encode/decode calls.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

type handler struct {
	codec Codec
	info  VocabInfo
	opts  options
	sem   chan struct{} // semaphore for worker pool
	log   *slog.Logger
}

// NewHandler returns an http.Handler serving /health, /vocab,
// POST /encode and POST /decode.
func NewHandler(codec Codec, info VocabInfo, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		codec: codec,
		info:  info,
		opts:  opts,
		log:   opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/vocab", h.handleVocab)
	mux.HandleFunc("/encode", h.handleEncode)
	mux.HandleFunc("/decode", h.handleDecode)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleVocab(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{
		"vocab_size": h.info.VocabSize(),
		"merges":     h.info.MergeCount(),
	})
}

type encodeRequest struct {
	Text string `json:"text"`
}

type encodeResponse struct {
	IDs   []int `json:"ids"`
	Count int   `json:"count"`
}

type decodeRequest struct {
	IDs []int `json:"ids"`
}

type decodeResponse struct {
	Text string `json:"text"`
}

func (h *handler) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req encodeRequest
	if !h.readRequest(w, r, &req) {
		return
	}
	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	// Encode errors are unreachable with a consistent vocabulary/merge
	// pair, so they indicate a server-side asset problem.
	h.run(w, r, "encode", len(req.Text), http.StatusInternalServerError, func() (any, int, error) {
		ids, err := h.codec.Encode(req.Text)
		if err != nil {
			return nil, 0, err
		}
		return encodeResponse{IDs: ids, Count: len(ids)}, len(ids), nil
	})
}

func (h *handler) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if !h.readRequest(w, r, &req) {
		return
	}

	// Decode errors mean the caller sent ids outside the vocabulary.
	h.run(w, r, "decode", len(req.IDs), http.StatusBadRequest, func() (any, int, error) {
		text, err := h.codec.Decode(req.IDs)
		if err != nil {
			return nil, 0, err
		}
		return decodeResponse{Text: text}, len(req.IDs), nil
	})
}

// readRequest enforces method and body rules shared by the POST endpoints.
func (h *handler) readRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// run executes op under the worker semaphore and per-request timeout,
// writes the response, and logs the outcome with structured fields.
func (h *handler) run(w http.ResponseWriter, r *http.Request, opName string, inputLen, failStatus int, op func() (any, int, error)) {
	// Acquire a worker slot, honouring cancellation while waiting.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
			// slot acquired
		case <-r.Context().Done():
			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
			return
		}
		defer func() { <-h.sem }()
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	type result struct {
		body  any
		count int
		err   error
	}
	resCh := make(chan result, 1)
	go func() {
		body, count, err := op()
		resCh <- result{body: body, count: count, err: err}
	}()

	start := time.Now()
	select {
	case <-ctx.Done():
		err := ctx.Err()
		h.log.WarnContext(r.Context(), opName+" timed out",
			slog.Int("input_len", inputLen),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusGatewayTimeout, opName+" timed out")
	case res := <-resCh:
		durationMS := time.Since(start).Milliseconds()
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) || errors.Is(res.err, context.Canceled) {
				writeError(w, http.StatusGatewayTimeout, opName+" timed out")
				return
			}
			h.log.ErrorContext(r.Context(), opName+" failed",
				slog.Int("input_len", inputLen),
				slog.Int64("duration_ms", durationMS),
				slog.String("error", res.err.Error()),
			)
			writeError(w, failStatus, res.err.Error())
			return
		}
		h.log.InfoContext(r.Context(), opName+" complete",
			slog.Int("input_len", inputLen),
			slog.Int("count", res.count),
			slog.Int64("duration_ms", durationMS),
		)
		writeJSON(w, http.StatusOK, res.body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server — wires handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	codec           Codec
	info            VocabInfo
	shutdownTimeout time.Duration
}

func New(cfg config.Config, codec Codec, info VocabInfo) *Server {
	return &Server{
		cfg:             cfg,
		codec:           codec,
		info:            info,
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	if s.codec == nil {
		return errors.New("server requires a constructed tokenizer")
	}

	h := NewHandler(s.codec, s.info,
		WithWorkers(s.cfg.Server.Workers),
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout)*time.Second),
	)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

// ProbeHTTP hits the /health endpoint of a running server.
func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
