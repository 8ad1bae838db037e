// Package server exposes the bridge calculation over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rgehrsitz/cppbridge/internal/calculation"
	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/rgehrsitz/cppbridge/internal/output"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

const maxBodySize = 64 * 1024

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Status    int                       `json:"status"`
	Message   string                    `json:"message"`
	RequestID string                    `json:"request_id,omitempty"`
	Errors    []*domain.ValidationError `json:"errors,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Mortality string `json:"mortality"`
	Policy    string `json:"policy"`
}

// Server routes requests to one shared calculation engine
type Server struct {
	engine  *calculation.CalculationEngine
	logger  *zap.Logger
	schema  *gojsonschema.Schema
	metrics fasthttp.RequestHandler
	srv     *fasthttp.Server
}

// New builds a server around an engine. A nil logger discards logs.
func New(engine *calculation.CalculationEngine, logger *zap.Logger) (*Server, error) {
	if engine == nil {
		return nil, errors.New("server requires a calculation engine")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schema, err := compileRequestSchema()
	if err != nil {
		return nil, err
	}

	s := &Server{
		engine:  engine,
		logger:  logger,
		schema:  schema,
		metrics: fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()),
	}
	s.srv = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "cppbridge",
		MaxRequestBodySize: maxBodySize,
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		IdleTimeout:        60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler wrapped in the request middleware
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.withMiddleware(s.route)
}

// ListenAndServe serves on addr until Shutdown
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("server starting", zap.String("addr", addr), zap.String("policy", s.engine.Policy.Name()))
	return s.srv.ListenAndServe(addr)
}

// Serve serves on an existing listener until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

func routeName(ctx *fasthttp.RequestCtx) string {
	switch path := string(ctx.Path()); path {
	case "/v1/calculate", "/v1/breakeven", "/health", "/metrics":
		return path
	default:
		return "other"
	}
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch {
	case path == "/v1/calculate" && ctx.IsPost():
		s.handleCalculate(ctx)
	case path == "/v1/breakeven" && ctx.IsPost():
		s.handleBreakeven(ctx)
	case path == "/health" && ctx.IsGet():
		s.writeJSON(ctx, fasthttp.StatusOK, HealthResponse{
			Status:    "ok",
			Mortality: s.engine.Model.Table().Source(),
			Policy:    s.engine.Policy.Name(),
		})
	case path == "/metrics" && ctx.IsGet():
		s.metrics(ctx)
	case path == "/v1/calculate", path == "/v1/breakeven", path == "/health", path == "/metrics":
		s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed", nil)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, "Not found", nil)
	}
}

func (s *Server) withMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()

		requestID := string(ctx.Request.Header.Peek(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.SetUserValue(RequestIDHeader, requestID)
		ctx.Response.Header.Set(RequestIDHeader, requestID)

		// Any origin may embed the calculator.
		ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
		ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		ctx.Response.Header.Set("Access-Control-Expose-Headers", RequestIDHeader)

		if ctx.IsOptions() {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
		} else {
			next(ctx)
		}

		route := routeName(ctx)
		status := ctx.Response.StatusCode()
		elapsed := time.Since(start)
		RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		)
	}
}

// decodeInput runs the schema, then the domain validation. It writes the
// error reply itself and returns false when the request is rejected.
func (s *Server) decodeInput(ctx *fasthttp.RequestCtx) (domain.ScenarioInput, bool) {
	body := ctx.PostBody()
	if len(body) == 0 {
		s.writeError(ctx, fasthttp.StatusBadRequest, "Request body is required", nil)
		return domain.ScenarioInput{}, false
	}

	violations, err := schemaViolations(s.schema, body)
	if err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return domain.ScenarioInput{}, false
	}
	if len(violations) > 0 {
		s.rejectInvalid(ctx, violations)
		return domain.ScenarioInput{}, false
	}

	var req domain.CalculationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return domain.ScenarioInput{}, false
	}

	in, err := req.ToInput()
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			s.rejectInvalid(ctx, verrs)
			return domain.ScenarioInput{}, false
		}
		s.writeError(ctx, fasthttp.StatusBadRequest, err.Error(), nil)
		return domain.ScenarioInput{}, false
	}
	return in, true
}

func (s *Server) rejectInvalid(ctx *fasthttp.RequestCtx, violations []*domain.ValidationError) {
	for _, v := range violations {
		ValidationFailures.WithLabelValues(v.Field).Inc()
	}
	s.writeError(ctx, fasthttp.StatusUnprocessableEntity, "Validation failed", violations)
}

func (s *Server) handleCalculate(ctx *fasthttp.RequestCtx) {
	in, ok := s.decodeInput(ctx)
	if !ok {
		return
	}
	out, err := s.engine.Evaluate(ctx, in)
	if err != nil {
		s.logger.Error("calculation failed", zap.String("request_id", requestIDOf(ctx)), zap.Error(err))
		s.writeError(ctx, fasthttp.StatusInternalServerError, "Calculation failed", nil)
		return
	}
	RecommendationsTotal.WithLabelValues(out.Recommendation, string(in.Health)).Inc()
	s.writeJSON(ctx, fasthttp.StatusOK, out)
}

func (s *Server) handleBreakeven(ctx *fasthttp.RequestCtx) {
	in, ok := s.decodeInput(ctx)
	if !ok {
		return
	}
	analysis, err := s.engine.AnalyzeBreakeven(ctx, in)
	if err != nil {
		s.logger.Error("breakeven analysis failed", zap.String("request_id", requestIDOf(ctx)), zap.Error(err))
		s.writeError(ctx, fasthttp.StatusInternalServerError, "Breakeven analysis failed", nil)
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, analysis)
}

func requestIDOf(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(RequestIDHeader).(string)
	return id
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := output.MarshalJSON(v, false)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, message string, violations []*domain.ValidationError) {
	s.writeJSON(ctx, status, ErrorResponse{
		Status:    status,
		Message:   message,
		RequestID: requestIDOf(ctx),
		Errors:    violations,
	})
}
