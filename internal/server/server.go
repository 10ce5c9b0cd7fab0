// Package server exposes translation over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/hanpama/jsonschema2sdl/internal/compiler"
	"github.com/hanpama/jsonschema2sdl/internal/config"
	"github.com/hanpama/jsonschema2sdl/internal/document"
	eventbus "github.com/hanpama/jsonschema2sdl/internal/eventbus"
	events "github.com/hanpama/jsonschema2sdl/internal/events"
	"github.com/hanpama/jsonschema2sdl/internal/jsonschema"
	"github.com/hanpama/jsonschema2sdl/internal/naming"
	reqid "github.com/hanpama/jsonschema2sdl/internal/reqid"
	"github.com/hanpama/jsonschema2sdl/internal/translate"
)

// Handler is an http.Handler serving the translation endpoints:
//
//	POST /translate  one root schema
//	POST /compile    several root schemas assembled into one document
//	GET  /healthz    liveness
type Handler struct {
	opt Options
	mux *http.ServeMux
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses (useful for dev).
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// RefSuffix is appended to reference names that the request does not map
	// explicitly.
	RefSuffix config.RefSuffix
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option      { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                      { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option         { return func(o *Options) { o.MaxBodyBytes = n } }
func WithRefSuffix(s config.RefSuffix) Option { return func(o *Options) { o.RefSuffix = s } }

// New creates the HTTP handler.
func New(opts ...Option) *Handler {
	op := Options{Timeout: 10 * time.Second, RefSuffix: config.DefaultConfig().RefSuffix}
	for _, f := range opts {
		f(&op)
	}
	h := &Handler{opt: op, mux: http.NewServeMux()}
	h.mux.HandleFunc("/translate", h.post(h.serveTranslate))
	h.mux.HandleFunc("/compile", h.post(h.serveCompile))
	h.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}

	ctx, rid := reqid.NewContext(ctx)
	w.Header().Set(reqid.Header, rid)
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	route := r.URL.Path
	start := time.Now()
	eventbus.Publish(ctx, events.HTTPStart{Request: r, Route: route})
	defer func() {
		eventbus.Publish(ctx, events.HTTPFinish{Request: r, Route: route, Status: rec.status, Duration: time.Since(start)})
	}()

	h.mux.ServeHTTP(rec, r.WithContext(ctx))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) post(next func(http.ResponseWriter, *http.Request, []byte)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			h.writeJSON(w, http.StatusMethodNotAllowed, badRequest("method not allowed"))
			return
		}
		body, status, err := readBody(r, h.opt.MaxBodyBytes)
		if err != nil {
			h.writeJSON(w, status, badRequest(err.Error()))
			return
		}
		next(w, r, body)
	}
}

// ------------------ Request parsing ------------------

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	RootName  string          `json:"rootName"`
	Schema    json.RawMessage `json:"schema"`
	Direction string          `json:"direction,omitempty"`
	// Refs maps reference tokens to type names. Tokens missing here fall back
	// to a name derived from the reference.
	Refs map[string]string `json:"refs,omitempty"`
	// ResolveRefs set to false with no Refs translates without a resolver, so
	// any reference fails.
	ResolveRefs *bool `json:"resolveRefs,omitempty"`
	// Validate is shorthand for Check "schema".
	Validate bool   `json:"validate,omitempty"`
	Check    string `json:"check,omitempty"`
}

// CompileRequest is the body of POST /compile.
type CompileRequest struct {
	Roots    []CompileRoot     `json:"roots"`
	Refs     map[string]string `json:"refs,omitempty"`
	Validate bool              `json:"validate,omitempty"`
	Check    string            `json:"check,omitempty"`
}

type CompileRoot struct {
	RootName  string          `json:"rootName"`
	Schema    json.RawMessage `json:"schema"`
	Direction string          `json:"direction,omitempty"`
}

func checkLevel(validate bool, check string) (document.Check, error) {
	if validate {
		return document.CheckSchema, nil
	}
	return document.ParseCheck(check)
}

var errBodyTooLarge = errors.New("body too large")

func readBody(r *http.Request, maxBody int64) ([]byte, int, error) {
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" && !strings.HasPrefix(ct, "application/json;") {
		return nil, http.StatusUnsupportedMediaType, errors.New("unsupported Content-Type")
	}
	defer r.Body.Close()
	reader := io.Reader(r.Body)
	if maxBody > 0 {
		reader = io.LimitReader(r.Body, maxBody+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("failed to read body")
	}
	if maxBody > 0 && int64(len(body)) > maxBody {
		return nil, http.StatusRequestEntityTooLarge, errBodyTooLarge
	}
	return body, http.StatusOK, nil
}

func (h *Handler) unit(name string, raw json.RawMessage, direction string, refs map[string]string, resolve bool) (compiler.Unit, error) {
	if name == "" {
		return compiler.Unit{}, errors.New("missing 'rootName'")
	}
	if len(raw) == 0 || string(raw) == "null" {
		return compiler.Unit{}, errors.New("missing 'schema'")
	}
	d, err := translate.ParseDirection(direction)
	if err != nil {
		return compiler.Unit{}, err
	}
	node, err := jsonschema.ParseJSON(raw)
	if err != nil {
		return compiler.Unit{}, err
	}
	u := compiler.Unit{Name: name, Schema: node, Direction: d}
	if resolve || refs != nil {
		suffix := h.opt.RefSuffix.For(d)
		u.Resolver = func(ref string) string {
			if mapped, ok := refs[ref]; ok {
				return mapped
			}
			return naming.RefTypeName(ref, suffix)
		}
	}
	return u, nil
}

// ------------------ Endpoints ------------------

func (h *Handler) serveTranslate(w http.ResponseWriter, r *http.Request, body []byte) {
	var req TranslateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, badRequest("invalid JSON"))
		return
	}
	check, err := checkLevel(req.Validate, req.Check)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, badRequest(err.Error()))
		return
	}
	resolve := req.ResolveRefs == nil || *req.ResolveRefs
	u, err := h.unit(req.RootName, req.Schema, req.Direction, req.Refs, resolve)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, badRequest(err.Error()))
		return
	}
	doc, err := compiler.Assemble(r.Context(), []compiler.Unit{u}, check)
	if err != nil {
		h.writeError(w, err)
		return
	}
	res := doc.Results[0]
	h.writeJSON(w, http.StatusOK, translateResponse{
		TypeName:        res.TypeName,
		TypeDefinitions: res.TypeDefinitions,
		SDL:             doc.SDL,
	})
}

func (h *Handler) serveCompile(w http.ResponseWriter, r *http.Request, body []byte) {
	var req CompileRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, badRequest("invalid JSON"))
		return
	}
	if len(req.Roots) == 0 {
		h.writeJSON(w, http.StatusBadRequest, badRequest("missing 'roots'"))
		return
	}
	check, err := checkLevel(req.Validate, req.Check)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, badRequest(err.Error()))
		return
	}
	units := make([]compiler.Unit, 0, len(req.Roots))
	for _, root := range req.Roots {
		u, err := h.unit(root.RootName, root.Schema, root.Direction, req.Refs, true)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, badRequest(err.Error()))
			return
		}
		units = append(units, u)
	}
	doc, err := compiler.Assemble(r.Context(), units, check)
	if err != nil {
		h.writeError(w, err)
		return
	}
	names := make([]string, len(doc.Results))
	for i, res := range doc.Results {
		names[i] = res.TypeName
	}
	h.writeJSON(w, http.StatusOK, compileResponse{
		TypeNames:       names,
		TypeDefinitions: doc.Definitions,
		SDL:             doc.SDL,
	})
}

// ------------------ Response formatting ------------------

// Error kinds reported to clients.
const (
	KindUnrecognizedShape = "unrecognized_shape"
	KindMissingResolver   = "missing_resolver"
	KindNullOnly          = "null_only"
	KindInvalidSDL        = "invalid_sdl"
	KindTimeout           = "timeout"
	KindBadRequest        = "bad_request"
)

type translateResponse struct {
	TypeName        string   `json:"typeName"`
	TypeDefinitions []string `json:"typeDefinitions"`
	SDL             string   `json:"sdl"`
}

type compileResponse struct {
	TypeNames       []string `json:"typeNames"`
	TypeDefinitions []string `json:"typeDefinitions"`
	SDL             string   `json:"sdl"`
}

type errorEntry struct {
	Message    string `json:"message"`
	Kind       string `json:"kind"`
	Breadcrumb string `json:"breadcrumb,omitempty"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
}

type errorResponse struct {
	Errors []errorEntry `json:"errors"`
}

func badRequest(msg string) errorResponse {
	return errorResponse{Errors: []errorEntry{{Message: msg, Kind: KindBadRequest}}}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr document.ValidationError
	switch {
	case errors.As(err, &verr):
		out := errorResponse{Errors: make([]errorEntry, len(verr))}
		for i, v := range verr {
			out.Errors[i] = errorEntry{Message: v.Message, Kind: KindInvalidSDL, Line: v.Line, Column: v.Column}
		}
		h.writeJSON(w, http.StatusBadRequest, out)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Errors: []errorEntry{{Message: err.Error(), Kind: KindTimeout}}})
	default:
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Errors: []errorEntry{{
			Message:    err.Error(),
			Kind:       errorKind(err),
			Breadcrumb: translate.Breadcrumb(err),
		}}})
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, translate.ErrUnrecognizedShape):
		return KindUnrecognizedShape
	case errors.Is(err, translate.ErrMissingResolver):
		return KindMissingResolver
	case errors.Is(err, translate.ErrNullOnly):
		return KindNullOnly
	}
	return KindBadRequest
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if h.opt.Pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}
