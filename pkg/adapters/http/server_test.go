package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	calls map[string]int
}

func (c *countingObserver) ObserveHTTP(method, route string, status int) {
	c.calls[method+" "+route+" "+http.StatusText(status)]++
}

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()
	ctx := context.Background()
	m := session.NewManager(memory.NewStore())
	_, err := m.Create(ctx, "orders", domain.ClassDiagram)
	require.NoError(t, err)

	pkg := domain.NewElement("pkg", domain.KindPackage, "model")
	pkg.Bounds.X, pkg.Bounds.Y = 100, 50
	cls := domain.NewElement("cls", domain.KindClass, "Order")
	cls.Owner = "pkg"
	cls.Bounds.X, cls.Bounds.Y = 10, 20
	other := domain.NewElement("other", domain.KindClass, "Customer")
	rel := domain.NewRelationship("rel", domain.KindClassAssociation, "places",
		domain.Port{Element: "other", Direction: domain.Right},
		domain.Port{Element: "cls", Direction: domain.Left})

	for _, a := range []domain.Action{
		domain.Create(pkg), domain.Create(cls), domain.Create(other), domain.Create(rel),
		domain.Select("cls", false, false),
	} {
		_, err := m.Dispatch(ctx, "orders", a)
		require.NoError(t, err)
	}
	return m
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestServer_Routes(t *testing.T) {
	h := NewHandler(newTestManager(t))

	tests := []struct {
		path     string
		status   int
		contains []string
	}{
		{"/health", http.StatusOK, []string{`"status":"ok"`}},
		{"/info", http.StatusOK, []string{`"app":"canvas-http"`, `"version":"0.1.0"`}},
		{"/diagrams", http.StatusOK, []string{`"id":"orders"`, `"elements":4`, `"can_undo":true`}},
		{"/diagrams/orders", http.StatusOK, []string{`"selection":["cls"]`}},
		{"/diagrams/missing", http.StatusNotFound, []string{"diagram not found"}},
		{"/diagrams/orders/elements/cls", http.StatusOK, []string{`"absolute":{"x":110,"y":70}`, `"owner":"pkg"`}},
		{"/diagrams/orders/elements/ghost", http.StatusNotFound, nil},
		{"/diagrams/orders/containers/pkg", http.StatusOK, []string{`"owned_elements":["cls"]`}},
		{"/diagrams/orders/containers/rel", http.StatusUnprocessableEntity, []string{"not a container"}},
		{"/diagrams/orders/relationships/rel", http.StatusOK, []string{`"source":{"element":"other","direction":"Right"}`}},
		{"/diagrams/orders/relationships/pkg", http.StatusUnprocessableEntity, nil},
		{"/diagrams/orders/selection", http.StatusOK, []string{`["cls"]`}},
		{"/diagrams/orders/graph", http.StatusOK, []string{"graph TD", `subgraph pkg["model"]`, `other ---|"places"| cls`}},
		{"/diagrams/orders/elements?owner=pkg", http.StatusOK, []string{`"id":"cls"`}},
		{"/diagrams/orders/elements?owner=cls", http.StatusOK, []string{"[]"}},
		{"/diagrams/orders/elements?owner=rel", http.StatusUnprocessableEntity, nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(t, h, tt.path)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			for _, s := range tt.contains {
				assert.Contains(t, w.Body.String(), s)
			}
		})
	}
}

func TestServer_ListElements(t *testing.T) {
	h := NewHandler(newTestManager(t))

	w := get(t, h, "/diagrams/orders/elements")
	require.Equal(t, http.StatusOK, w.Code)

	var elements []domain.Element
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &elements))
	ids := make([]string, len(elements))
	for i, el := range elements {
		ids[i] = el.ID
	}
	assert.Equal(t, []string{"cls", "other", "pkg", "rel"}, ids)
}

func TestServer_CORS(t *testing.T) {
	h := NewHandler(newTestManager(t))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/diagrams", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Access-Control-Allow-Methods"), "GET"))
}

func TestServer_Observer(t *testing.T) {
	obs := &countingObserver{calls: map[string]int{}}
	h := NewHandler(newTestManager(t), WithObserver(obs))

	get(t, h, "/diagrams/orders/elements/cls")
	get(t, h, "/diagrams/orders/elements/ghost")
	get(t, h, "/nope")

	assert.Equal(t, 1, obs.calls["GET /diagrams/{diagramID}/elements/{elementID} OK"])
	assert.Equal(t, 1, obs.calls["GET /diagrams/{diagramID}/elements/{elementID} Not Found"])
	assert.Equal(t, 1, obs.calls["GET unmatched Not Found"])
}
