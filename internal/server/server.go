package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kartoza/water-potability/internal/api"
	"github.com/kartoza/water-potability/internal/config"
	"github.com/kartoza/water-potability/internal/decor"
	"github.com/kartoza/water-potability/internal/llm"
	"github.com/kartoza/water-potability/internal/potability"
	"github.com/kartoza/water-potability/internal/predict"
	"github.com/kartoza/water-potability/internal/render"
)

//go:embed static/*
var staticFS embed.FS

//go:embed templates/*.html
var templateFS embed.FS

// maxFormBytes bounds a submitted form.
const maxFormBytes = 16 << 10

// Server holds all the components for the web application
type Server struct {
	cfg        config.Config
	httpServer *http.Server
	router     *mux.Router
	svc        *predict.Service
	decor      *decor.Loader
	page       *template.Template
	logger     *zap.Logger
}

// New creates a new Server. The generator is used for every submission.
func New(cfg config.Config, gen llm.Generator, logger *zap.Logger) (*Server, error) {
	if gen == nil {
		return nil, errors.New("a generator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	page, err := template.New("index.html").Funcs(template.FuncMap{
		"formatValue": potability.FormatValue,
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	decorTimeout, err := cfg.DecorationTimeout()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
		svc:    predict.NewService(gen, logger),
		decor:  decor.NewLoader(cfg.Decoration.AnimationURL, decorTimeout, nil, logger),
		page:   page,
		logger: logger,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() error {
	// API routes
	apiRouter := s.router.PathPrefix("/api").Subrouter()
	api.NewHandler(s.svc, s.cfg, s.logger).RegisterRoutes(apiRouter)

	// Form page
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	s.router.HandleFunc("/predict", s.handlePredict).Methods("POST")

	// Static assets (embedded)
	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("could not load embedded static files: %w", err)
	}
	s.router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	return nil
}

// inputView is one numeric control on the form.
type inputView struct {
	Field potability.Field
	Value float64
	Error string
}

// pageData feeds templates/index.html.
type pageData struct {
	Version   string
	Inputs    []inputView
	Animation json.RawMessage
	Submitted bool
	Blocks    []render.Block
	RequestID string
}

func (s *Server) newPageData(r *http.Request, m potability.MeasurementSet, errs potability.FieldErrors) pageData {
	inputs := make([]inputView, 0, len(potability.Fields))
	for _, f := range potability.Fields {
		inputs = append(inputs, inputView{Field: f, Value: m.Get(f.Key), Error: errs[f.Key]})
	}
	return pageData{
		Version:   s.cfg.Version,
		Inputs:    inputs,
		Animation: s.decor.Load(r.Context()),
	}
}

// handleIndex serves the form populated with defaults
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.newPageData(r, potability.Defaults(), nil))
}

// handlePredict handles a form submission: one model round trip, then the
// page is rendered again with the submitted values and the result.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	m, err := potability.FromValues(r.PostForm)
	if err != nil {
		fieldErrs, _ := potability.AsFieldErrors(err)
		s.logger.Debug("form rejected", zap.Error(err))
		s.renderPage(w, http.StatusBadRequest, s.newPageData(r, m, fieldErrs))
		return
	}

	res := s.svc.Predict(r.Context(), m)

	data := s.newPageData(r, res.Measurements, nil)
	data.Submitted = true
	data.Blocks = res.Blocks
	data.RequestID = res.RequestID
	s.renderPage(w, http.StatusOK, data)
}

// renderPage executes the template into a buffer first so a template
// failure never leaves a half-written page.
func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("page render failed", zap.Error(err))
		http.Error(w, "page render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// Start begins listening for HTTP connections
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Stop is called. It returns nil after
// a graceful shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
