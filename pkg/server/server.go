// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness and build version
//	GET  /palettes           the ColorBrewer catalogue
//	GET  /settings           every settings property with its default
//	GET  /settings/{object}  the editable instances of one object
//	POST /render             render a table (see [RenderRequest])
//
// POST /render accepts either a JSON [RenderRequest] or a delimited text
// body (Content-Type text/csv or text/tab-separated-values) whose roles
// are given as query parameters x, y, group and value. The output format
// is selected with ?format=svg|png|pdf|json (default svg).
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tableheatmap/pkg/buildinfo"
	errs "github.com/matzehuels/tableheatmap/pkg/errors"
	"github.com/matzehuels/tableheatmap/pkg/observability"
	"github.com/matzehuels/tableheatmap/pkg/palette"
	"github.com/matzehuels/tableheatmap/pkg/pipeline"
	"github.com/matzehuels/tableheatmap/pkg/settings"
	"github.com/matzehuels/tableheatmap/pkg/table"
)

// DefaultMaxBodySize limits request bodies to 10 MiB.
const DefaultMaxBodySize = 10 << 20

// Server serves the render API.
type Server struct {
	runner      *pipeline.Runner
	logger      *log.Logger
	maxBodySize int64
	timeout     time.Duration
	width       float64
	height      float64
	router      chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMaxBodySize limits request bodies.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) { s.maxBodySize = n }
}

// WithTimeout bounds the time spent on one request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithViewport sets the viewport used when a request does not give one.
func WithViewport(width, height float64) Option {
	return func(s *Server) { s.width, s.height = width, height }
}

// New returns a server rendering through runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:      runner,
		logger:      log.Default(),
		maxBodySize: DefaultMaxBodySize,
		timeout:     30 * time.Second,
		width:       pipeline.DefaultWidth,
		height:      pipeline.DefaultHeight,
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/palettes", s.handlePalettes)
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", s.handleProperties)
		r.Get("/{object}", s.handleSettings)
	})
	r.Post("/render", s.handleRender)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// observe reports every request to the HTTP hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"id", middleware.GetReqID(r.Context()),
			"duration", d.Round(time.Microsecond))
	})
}

// ===== Handlers =====

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Short()})
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		palette.Info
		Colors []string `json:"colors"`
	}
	cat := palette.Catalogue()
	out := make([]entry, len(cat))
	for i, info := range cat {
		colors, _ := palette.Lookup(info.Name, info.Max)
		out[i] = entry{Info: info, Colors: colors}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settings.Properties())
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	object := chi.URLParam(r, "object")
	inst := settings.Enumerate(settings.Default(), object)
	if inst == nil {
		writeError(w, errs.New(errs.ErrCodeNotFound, "unknown settings object %q (must be one of: %s)",
			object, strings.Join(settings.ObjectNames(), ", ")))
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

// RenderRequest is the JSON body of POST /render.
type RenderRequest struct {
	Table   *table.Table     `json:"table"`
	Objects settings.Objects `json:"objects,omitempty"`
	Width   float64          `json:"width,omitempty"`
	Height  float64          `json:"height,omitempty"`
	Animate bool             `json:"animate,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodySize)
	opts, err := s.renderOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Render-ID", res.ID)
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := errs.ValidateOutputFormat(format); err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Formats: []string{format},
		Width:   s.width,
		Height:  s.height,
		Logger:  s.logger,
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "read body")
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "text/csv", "text/tab-separated-values":
		opts.Data = body
		opts.InputFormat = table.FormatCSV
		if mediaType == "text/tab-separated-values" {
			opts.InputFormat = table.FormatTSV
		}
		opts.Source = "request." + opts.InputFormat
		opts.Schema = table.NewSchema(q.Get("x"), q.Get("y"), q.Get("group"), q["value"], q.Get("valueFormat"))
		if err := opts.Schema.Validate(); err != nil {
			return opts, err
		}
		if err := assignmentObjects(&opts, q["set"]); err != nil {
			return opts, err
		}
	case "", "application/json":
		var req RenderRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request")
		}
		if req.Table == nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "request has no table")
		}
		opts.Table = req.Table
		opts.Objects = req.Objects
		opts.Animate = req.Animate
		if req.Width > 0 {
			opts.Width = req.Width
		}
		if req.Height > 0 {
			opts.Height = req.Height
		}
	default:
		return opts, errs.New(errs.ErrCodeUnsupported, "unsupported content type %q", mediaType)
	}

	if err := viewportParams(&opts, q.Get("width"), q.Get("height")); err != nil {
		return opts, err
	}
	if v := q.Get("animate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "animate: %q is not a boolean", v)
		}
		opts.Animate = b
	}
	opts.Background = q.Get("background")
	return opts, nil
}

func assignmentObjects(opts *pipeline.Options, pairs []string) error {
	if len(pairs) == 0 {
		return nil
	}
	s, err := settings.ParseAssignments(pairs)
	if err != nil {
		return err
	}
	opts.Objects = s.Objects()
	return nil
}

func viewportParams(opts *pipeline.Options, width, height string) error {
	for _, p := range []struct {
		name string
		raw  string
		dst  *float64
	}{{"width", width, &opts.Width}, {"height", height, &opts.Height}} {
		if p.raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(p.raw, 64)
		if err != nil || v <= 0 {
			return errs.New(errs.ErrCodeInvalidInput, "%s must be a positive number, got %q", p.name, p.raw)
		}
		*p.dst = v
	}
	return nil
}

// ===== Responses =====

type errorBody struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large", Code: errs.ErrCodeInvalidInput})
		return
	}
	writeJSON(w, errs.HTTPStatus(err), errorBody{Error: errs.UserMessage(err), Code: errs.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
