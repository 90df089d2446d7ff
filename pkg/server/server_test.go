package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/spec"
	"github.com/matzehuels/chartcore/pkg/tooltip"
)

func testSpec() *spec.ChartSpec {
	return &spec.ChartSpec{
		Width:  400,
		Height: 300,
		Data: []spec.Record{
			{"name": "a", "v": 1.0},
			{"name": "b", "v": 2.0},
			{"name": "c", "v": 3.0},
			{"name": "d", "v": 4.0},
		},
		Axes: []spec.AxisSpec{
			{ID: "0", Dim: spec.DimX, DataKey: spec.K("name")},
			{ID: "0", Dim: spec.DimY},
		},
		Series: []spec.SeriesSpec{
			{Key: "v", Kind: spec.KindLine, DataKey: spec.K("v")},
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Options{})
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func createChart(t *testing.T, s *Server, c *spec.ChartSpec) string {
	t.Helper()
	rec := postJSON(t, s, "/v1/charts", c)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var resp createResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp.ID
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCreateAndGetSpec(t *testing.T) {
	s := newTestServer(t)
	id := createChart(t, s, testSpec())

	rec := get(t, s, "/v1/charts/"+id)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var c spec.ChartSpec
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode spec: %v", err)
	}
	if len(c.Data) != 4 || len(c.Series) != 1 {
		t.Errorf("spec round-trip lost content: %d records, %d series", len(c.Data), len(c.Series))
	}
}

func TestCreateRejectsInvalidSpec(t *testing.T) {
	s := newTestServer(t)

	bad := testSpec()
	bad.Series[0].YAxisID = "missing"
	rec := postJSON(t, s, "/v1/charts", bad)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}

	// Malformed JSON
	req := httptest.NewRequest(http.MethodPost, "/v1/charts", bytes.NewReader([]byte("{")))
	raw := httptest.NewRecorder()
	s.Router().ServeHTTP(raw, req)
	if raw.Code != http.StatusBadRequest {
		t.Errorf("malformed status = %d, want 400", raw.Code)
	}
}

func TestLayout(t *testing.T) {
	s := newTestServer(t)
	id := createChart(t, s, testSpec())

	rec := get(t, s, "/v1/charts/"+id+"/layout")
	if rec.Code != http.StatusOK {
		t.Fatalf("layout status = %d: %s", rec.Code, rec.Body)
	}
	var l chart.Layout
	if err := json.Unmarshal(rec.Body.Bytes(), &l); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if len(l.Axes) != 2 {
		t.Errorf("axes = %d, want 2", len(l.Axes))
	}
	if len(l.Series) != 1 || len(l.Series[0].Items) != 4 {
		t.Error("series geometry missing from layout")
	}

	// Second request is served from cache and must be identical.
	again := get(t, s, "/v1/charts/"+id+"/layout")
	if !bytes.Equal(rec.Body.Bytes(), again.Body.Bytes()) {
		t.Error("cached layout differs from computed layout")
	}
}

func TestLayoutUnknownChart(t *testing.T) {
	rec := get(t, newTestServer(t), "/v1/charts/nope/layout")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPointer(t *testing.T) {
	s := newTestServer(t)
	id := createChart(t, s, testSpec())

	// Default offsets: y axis 60 left, x axis 30 bottom. The plot spans
	// x [60, 400], so the first category band is [60, 145].
	rec := postJSON(t, s, "/v1/charts/"+id+"/pointer", pointerRequest{X: 80, Y: 100})
	if rec.Code != http.StatusOK {
		t.Fatalf("pointer status = %d: %s", rec.Code, rec.Body)
	}
	var st tooltip.State
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if !st.Active || st.Index != 0 {
		t.Errorf("state = %+v, want active index 0", st)
	}
	if st.Label != "a" {
		t.Errorf("label = %v, want a", st.Label)
	}

	// Outside the plot resolves inactive.
	rec = postJSON(t, s, "/v1/charts/"+id+"/pointer", pointerRequest{X: 10, Y: 10})
	_ = json.Unmarshal(rec.Body.Bytes(), &st)
	if st.Active {
		t.Error("pointer outside plot should be inactive")
	}
}

func TestPointerSyncPropagates(t *testing.T) {
	s := newTestServer(t)

	a := testSpec()
	a.SyncID = "grid"
	b := testSpec()
	b.SyncID = "grid"

	idA := createChart(t, s, a)
	idB := createChart(t, s, b)

	rec := postJSON(t, s, fmt.Sprintf("/v1/charts/%s/pointer", idA), pointerRequest{X: 200, Y: 100})
	if rec.Code != http.StatusOK {
		t.Fatalf("pointer status = %d", rec.Code)
	}

	rec = get(t, s, fmt.Sprintf("/v1/charts/%s/tooltip", idB))
	var st tooltip.State
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if !st.Active {
		t.Fatal("synced chart should have an active tooltip")
	}
	// x=200 falls in the second band [145, 230] of a 4-category axis.
	if st.Index != 1 {
		t.Errorf("synced index = %d, want 1", st.Index)
	}
}

func TestBrush(t *testing.T) {
	s := newTestServer(t)
	id := createChart(t, s, testSpec())

	rec := postJSON(t, s, "/v1/charts/"+id+"/brush", brushRequest{StartIndex: 1, EndIndex: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("brush status = %d: %s", rec.Code, rec.Body)
	}
	var w spec.Window
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("decode window: %v", err)
	}
	if w.StartIndex != 1 || w.EndIndex != 2 {
		t.Errorf("window = %+v", w)
	}

	// The narrowed layout shows only the windowed categories.
	lrec := get(t, s, "/v1/charts/"+id+"/layout")
	var l chart.Layout
	if err := json.Unmarshal(lrec.Body.Bytes(), &l); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if len(l.Series) != 1 || len(l.Series[0].Items) != 2 {
		t.Error("windowed layout should carry 2 items")
	}
}

func TestDelete(t *testing.T) {
	s := newTestServer(t)
	id := createChart(t, s, testSpec())

	req := httptest.NewRequest(http.MethodDelete, "/v1/charts/"+id, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	if got := get(t, s, "/v1/charts/"+id); got.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", got.Code)
	}

	// Delete is not idempotent at the HTTP level: the id is gone.
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/charts/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}
