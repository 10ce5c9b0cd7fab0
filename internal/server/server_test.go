package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	eventbus "github.com/hanpama/jsonschema2sdl/internal/eventbus"
	events "github.com/hanpama/jsonschema2sdl/internal/events"
	reqid "github.com/hanpama/jsonschema2sdl/internal/reqid"
)

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestTranslate(t *testing.T) {
	h := New()
	w := post(t, h, "/translate", `{
		"rootName": "User",
		"schema": {
			"type": "object",
			"properties": {"id": {"type": "string"}, "age": {"type": "integer"}},
			"required": ["id"]
		}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[translateResponse](t, w)
	require.Equal(t, "User", res.TypeName)
	want := []string{"type User {\n  id: String!\n  age: Int\n}"}
	if diff := cmp.Diff(want, res.TypeDefinitions); diff != "" {
		t.Fatalf("definitions mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, want[0]+"\n", res.SDL)
}

func TestTranslateRefs(t *testing.T) {
	h := New()
	body := `{
		"rootName": "Order",
		"direction": "input",
		"refs": {"#/definitions/money": "Money"},
		"schema": {
			"type": "object",
			"properties": {
				"total": {"$ref": "#/definitions/money"},
				"buyer": {"$ref": "#/definitions/customer"}
			}
		}
	}`
	w := post(t, h, "/translate", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[translateResponse](t, w)
	require.Equal(t, []string{"input Order {\n  total: Money\n  buyer: CustomerInput\n}"}, res.TypeDefinitions)
}

func TestTranslateErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		kind       string
		breadcrumb string
	}{
		{
			name:       "unrecognized",
			body:       `{"rootName": "Cfg", "schema": {"type": "object", "properties": {"x": {"description": "?"}}}}`,
			kind:       KindUnrecognizedShape,
			breadcrumb: "Cfg.T0.x",
		},
		{
			name:       "missing resolver",
			body:       `{"rootName": "Cart", "resolveRefs": false, "schema": {"$ref": "#/definitions/item"}}`,
			kind:       KindMissingResolver,
			breadcrumb: "Cart",
		},
		{
			name:       "null only",
			body:       `{"rootName": "N", "schema": {"anyOf": [{"type": "null"}]}}`,
			kind:       KindNullOnly,
			breadcrumb: "N",
		},
		{
			name: "bad direction",
			body: `{"rootName": "A", "direction": "sideways", "schema": {"type": "string"}}`,
			kind: KindBadRequest,
		},
		{
			name: "missing schema",
			body: `{"rootName": "A"}`,
			kind: KindBadRequest,
		},
		{
			name: "missing root name",
			body: `{"schema": {"type": "string"}}`,
			kind: KindBadRequest,
		},
		{
			name: "invalid JSON",
			body: `{"rootName": `,
			kind: KindBadRequest,
		},
		{
			name: "syntax check",
			body: `{"rootName": "P", "check": "syntax", "schema": {"enum": ["in-progress"]}}`,
			kind: KindInvalidSDL,
		},
		{
			name: "unknown check",
			body: `{"rootName": "P", "check": "strict", "schema": {"type": "string"}}`,
			kind: KindBadRequest,
		},
		{
			name: "invalid sdl",
			body: `{"rootName": "E", "validate": true, "schema": {"type": "object", "properties": {}}}`,
			kind: KindInvalidSDL,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, New(), "/translate", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			res := decode[errorResponse](t, w)
			require.NotEmpty(t, res.Errors)
			require.Equal(t, tt.kind, res.Errors[0].Kind)
			require.Equal(t, tt.breadcrumb, res.Errors[0].Breadcrumb)
			require.NotEmpty(t, res.Errors[0].Message)
		})
	}
}

func TestCompile(t *testing.T) {
	w := post(t, New(), "/compile", `{
		"roots": [
			{"rootName": "Query", "schema": {"type": "object", "properties": {"me": {"$ref": "user.json"}}}},
			{"rootName": "User", "schema": {"type": "object", "properties": {"name": {"type": "string"}}}}
		],
		"validate": true
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[compileResponse](t, w)
	require.Equal(t, []string{"Query", "User"}, res.TypeNames)
	require.Equal(t, "type Query {\n  me: User\n}\n\ntype User {\n  name: String\n}\n", res.SDL)
}

func TestCompileCollision(t *testing.T) {
	w := post(t, New(), "/compile", `{"roots": [
		{"rootName": "A", "schema": {"type": "object", "properties": {"x": {"type": "string"}}}},
		{"rootName": "A", "schema": {"type": "object", "properties": {"y": {"type": "string"}}}}
	]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	res := decode[errorResponse](t, w)
	require.Equal(t, KindInvalidSDL, res.Errors[0].Kind)

	w = post(t, New(), "/compile", `{"roots": []}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	New().ServeHTTP(w, httptest.NewRequest("GET", "/translate", nil))
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.Equal(t, http.MethodPost, w.Header().Get("Allow"))
}

func TestUnsupportedContentType(t *testing.T) {
	req := httptest.NewRequest("POST", "/translate", bytes.NewBufferString(`rootName=A`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	New().ServeHTTP(w, req)
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestMaxBodyBytes(t *testing.T) {
	h := New(WithMaxBodyBytes(10))
	w := post(t, h, "/translate", `{"rootName": "A", "schema": {"type": "string"}}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestPretty(t *testing.T) {
	w := post(t, New(WithPretty()), "/translate", `{"rootName": "S", "schema": {"type": "string"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "\n  \"typeName\": \"String\"")
}

func TestTimeoutDefaults(t *testing.T) {
	require.Equal(t, 10*time.Second, New().opt.Timeout)
	require.Zero(t, New(WithTimeout(0)).opt.Timeout, "0 disables the default timeout")
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	New().ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok\n", w.Body.String())
}

func TestRequestIDAndEvents(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	var ids []string
	var finish events.HTTPFinish
	eventbus.Subscribe(func(ctx context.Context, e events.TranslateStart) {
		id, _ := reqid.FromContext(ctx)
		ids = append(ids, id)
	})
	eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) {
		id, _ := reqid.FromContext(ctx)
		ids = append(ids, id)
		finish = e
	})

	w := post(t, New(), "/translate", `{"rootName": "X", "schema": {"anyOf": [{"type": "null"}]}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	id := w.Header().Get(reqid.Header)
	require.NotEmpty(t, id)
	require.Equal(t, []string{id, id}, ids)
	require.Equal(t, "/translate", finish.Route)
	require.Equal(t, http.StatusBadRequest, finish.Status)
}
