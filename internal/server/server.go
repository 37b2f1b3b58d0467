// Package server exposes a TAD file over HTTP: the array count, per-array
// metadata as JSON and raw array data.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/samcharles93/tad/internal/inspect"
	"github.com/samcharles93/tad/internal/logger"
	"github.com/samcharles93/tad/pkg/tad"
	"github.com/samcharles93/tad/pkg/tadio"
)

// HeaderRequestID carries the id assigned to every request.
const HeaderRequestID = "X-Request-Id"

// Server serves one file. Every request opens its own stream, so requests
// never share scan state.
type Server struct {
	fileName string
	hints    tad.TagList
	registry *tadio.Registry
	log      logger.Logger
}

// Config configures a Server.
type Config struct {
	FileName string
	Hints    tad.TagList
	Registry *tadio.Registry
	Logger   logger.Logger
}

// ErrStdio is returned by New for the standard stream name. Requests
// each open their own stream, and standard input cannot be reopened.
var ErrStdio = fmt.Errorf("%w: cannot serve standard input", tad.ErrUnsupportedFeature)

// New returns a Server for cfg.FileName.
func New(cfg Config) (*Server, error) {
	if cfg.FileName == tadio.StdioName {
		return nil, ErrStdio
	}
	s := &Server{
		fileName: cfg.FileName,
		hints:    cfg.Hints.Clone(),
		registry: cfg.Registry,
		log:      cfg.Logger,
	}
	if s.registry == nil {
		s.registry = tadio.DefaultRegistry()
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	return s, nil
}

// Register mounts the routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/arrays", s.handleCount)
	e.GET("/arrays/:index", s.handleMetadata)
	e.GET("/arrays/:index/data", s.handleData)
}

type countResponse struct {
	File   string `json:"file"`
	State  string `json:"state"`
	Count  *int   `json:"count"`
	Reason string `json:"reason,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message   string `json:"message"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id"`
}

func (s *Server) open(c *echo.Context) (*tadio.Importer, logger.Logger) {
	id := uuid.NewString()
	c.Response().Header().Set(HeaderRequestID, id)
	log := s.log.With("request_id", id, "file", s.fileName)
	return s.registry.NewImporter(s.fileName, s.hints), log
}

func (s *Server) handleCount(c *echo.Context) error {
	im, log := s.open(c)
	defer closeImporter(im, log)

	count, err := im.ArrayCount()
	if err != nil {
		return s.writeError(c, log, err)
	}
	resp := countResponse{File: s.fileName, State: count.String()}
	if count.Known() {
		n := count.N
		resp.State = "known"
		resp.Count = &n
	} else if cerr := im.CountErr(); cerr != nil {
		resp.Reason = cerr.Error()
	}
	return writeJSON(c, http.StatusOK, resp)
}

func (s *Server) handleMetadata(c *echo.Context) error {
	im, log := s.open(c)
	defer closeImporter(im, log)

	index, err := parseIndex(c.Param("index"))
	if err != nil {
		return s.writeError(c, log, err)
	}
	a, err := im.ReadArray(index)
	if err != nil {
		return s.writeError(c, log, err)
	}
	opts := inspect.Options{
		Statistics: queryBool(c.QueryParam("statistics")),
		Checksum:   true,
	}
	return writeJSON(c, http.StatusOK, inspect.Summarize(index, a, opts))
}

func (s *Server) handleData(c *echo.Context) error {
	im, log := s.open(c)
	defer closeImporter(im, log)

	index, err := parseIndex(c.Param("index"))
	if err != nil {
		return s.writeError(c, log, err)
	}
	a, err := im.ReadArray(index)
	if err != nil {
		return s.writeError(c, log, err)
	}

	res := c.Response()
	h := res.Header()
	h.Set(echo.HeaderContentType, "application/octet-stream")
	h.Set(echo.HeaderContentLength, strconv.Itoa(a.DataSize()))
	h.Set("X-Tad-Type", a.ComponentType().String())
	h.Set("X-Tad-Components", strconv.Itoa(a.ComponentCount()))
	h.Set("X-Tad-Dimensions", inspect.ShapeString(a.Dimensions()))
	res.WriteHeader(http.StatusOK)
	_, err = res.Write(a.Data())
	return err
}

var errBadIndex = fmt.Errorf("%w: array index must be a non-negative integer", tad.ErrInvalidData)

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", errBadIndex, s)
	}
	return n, nil
}

func queryBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadIndex):
		return http.StatusBadRequest
	case errors.Is(err, tad.ErrIndexOutOfRange):
		return http.StatusNotFound
	}
	switch tad.KindOf(err) {
	case tad.KindInvalidData:
		return http.StatusUnprocessableEntity
	case tad.KindUnsupportedFeature:
		return http.StatusNotImplemented
	case tad.KindSeekingNotSupported:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *echo.Context, log logger.Logger, err error) error {
	status := statusFor(err)
	kind := tad.KindOf(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err, "kind", kind.String())
	} else {
		log.Debug("request rejected", "error", err, "kind", kind.String())
	}
	return writeJSON(c, status, errorResponse{Error: errorBody{
		Message:   err.Error(),
		Kind:      kind.String(),
		RequestID: c.Response().Header().Get(HeaderRequestID),
	}})
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res.WriteHeader(status)
	_, err = res.Write(b)
	return err
}

func closeImporter(im *tadio.Importer, log logger.Logger) {
	if err := im.Close(); err != nil {
		log.Warn("close failed", "error", err)
	}
}
