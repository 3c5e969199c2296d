package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/time/rate"

	"github.com/Simplici0/metal-lca/internal/catalog"
	"github.com/Simplici0/metal-lca/internal/db"
	"github.com/Simplici0/metal-lca/internal/estimator"
	"github.com/Simplici0/metal-lca/internal/importer"
	"github.com/Simplici0/metal-lca/internal/lca"
	"github.com/Simplici0/metal-lca/internal/migrations"
	"github.com/Simplici0/metal-lca/internal/seed"
)

var fixedNow = time.UnixMilli(1700000000123).UTC()

func newTestServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()

	database, err := db.Open(ctx, db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(ctx, database))
	_, err = seed.Run(ctx, database, seed.DefaultConfig())
	require.NoError(t, err)

	store := catalog.NewStore(database)
	table, err := store.LoadTable(ctx)
	require.NoError(t, err)
	benchmarks, err := store.LoadBenchmarks(ctx)
	require.NoError(t, err)

	return &server{
		log:        zerolog.Nop(),
		est:        estimator.NewEngine(table),
		catalog:    store,
		table:      table,
		benchmarks: benchmarks,
		batchLimit: 2,
		now:        func() time.Time { return fixedNow },
	}
}

func assessmentBody(t *testing.T, in lca.Inputs, sc lca.Scenario) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(assessmentRequest{Inputs: in, Scenario: sc})
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t).routes()

	rec := do(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestValidate(t *testing.T) {
	h := newTestServer(t).routes()

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/lca/validate", assessmentBody(t, lca.DefaultInputs(), lca.Linear)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true}`, rec.Body.String())

	in := lca.DefaultInputs()
	in.Quantity = -5
	rec = do(h, httptest.NewRequest(http.MethodPost, "/api/lca/validate", assessmentBody(t, in, lca.Linear)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"errors":{"quantity":"Quantity must be greater than 0"}}`, rec.Body.String())
}

func TestCompute_Baseline(t *testing.T) {
	h := newTestServer(t).routes()

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/lca/compute", assessmentBody(t, lca.DefaultInputs(), lca.Linear)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp computeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, lca.Results{
		CO2Footprint:     12.5,
		EnergyUse:        185.3,
		RecycledContent:  35,
		WaterUse:         850,
		WasteGenerated:   45.2,
		CircularityScore: 65,
	}, resp.Results)
	assert.Equal(t, lca.GradeC, resp.Grade)
	assert.Equal(t, 11.5, resp.EmissionFactor)
	assert.False(t, resp.CustomFactor)
	assert.Len(t, resp.KPIs, 6)
}

func TestCompute_CustomFactorAndCircular(t *testing.T) {
	h := newTestServer(t).routes()

	in := lca.DefaultInputs()
	in.Metal = lca.Copper
	in.MaterialSource = lca.Recycled
	factor := 2.5
	in.CustomEmissionFactor = &factor

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/lca/compute", assessmentBody(t, in, lca.Circular)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp computeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 7.0, resp.Results.CO2Footprint, 1e-9)
	assert.Equal(t, 95.0, resp.Results.RecycledContent)
	assert.Equal(t, 2.5, resp.EmissionFactor)
	assert.True(t, resp.CustomFactor)
}

func TestCompute_RejectsInvalidInputs(t *testing.T) {
	h := newTestServer(t).routes()

	in := lca.DefaultInputs()
	in.TransportDistance = 0
	in.Metal = "gold"
	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/lca/compute", assessmentBody(t, in, "spiral")))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Distance must be greater than 0", body.Errors[lca.FieldTransportDistance])
	assert.Contains(t, body.Errors, lca.FieldMetal)
	assert.Contains(t, body.Errors, lca.FieldScenario)
}

func TestCompute_MalformedBody(t *testing.T) {
	h := newTestServer(t).routes()

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/lca/compute", strings.NewReader(`{"inputs":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, httptest.NewRequest(http.MethodPost, "/api/lca/compute", strings.NewReader(`{"inputs":{},"extra":1}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatch_KeepsOrderAndPerItemErrors(t *testing.T) {
	h := newTestServer(t).routes()

	bad := lca.DefaultInputs()
	bad.Quantity = 0
	copper := lca.DefaultInputs()
	copper.Metal = lca.Copper

	body, err := json.Marshal(batchRequest{Items: []assessmentRequest{
		{Inputs: lca.DefaultInputs(), Scenario: lca.Linear},
		{Inputs: bad, Scenario: lca.Linear},
		{Inputs: copper, Scenario: lca.Circular},
	}})
	require.NoError(t, err)

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/lca/batch", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []outcomeResponse `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)

	assert.Equal(t, 0, resp.Items[0].Index)
	require.NotNil(t, resp.Items[0].Results)
	assert.Equal(t, 12.5, resp.Items[0].Results.CO2Footprint)

	assert.Nil(t, resp.Items[1].Results)
	assert.Equal(t, "Quantity must be greater than 0", resp.Items[1].Errors[lca.FieldQuantity])

	require.NotNil(t, resp.Items[2].Results)
	assert.Equal(t, 55.0, resp.Items[2].Results.RecycledContent)
}

func TestBatch_RejectsEmpty(t *testing.T) {
	h := newTestServer(t).routes()

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/lca/batch", strings.NewReader(`{"items":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func importRequest(t *testing.T, target string, rows ...[]any) *http.Request {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	header := make([]any, len(importer.Columns))
	for i, c := range importer.Columns {
		header[i] = c
	}
	rows = append([][]any{header}, rows...)
	for i, row := range rows {
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &row))
	}
	xlsx, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "inputs.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImport(t *testing.T) {
	h := newTestServer(t).routes()

	req := importRequest(t, "/api/lca/import?scenario=circular",
		[]any{"aluminum", "primary", "grid-mix", "truck", 500, "recycling", 1000},
		[]any{"copper", "recycled", "coal", "rail", "far", "landfill", 10},
		[]any{"copper", "primary", "coal", "rail", 100, "landfill", -1},
	)
	rec := do(h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Scenario lca.Scenario      `json:"scenario"`
		Items    []outcomeResponse `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, lca.Circular, resp.Scenario)
	require.Len(t, resp.Items, 3)

	assert.Equal(t, 2, resp.Items[0].Line)
	require.NotNil(t, resp.Items[0].Results)
	assert.Equal(t, 55.0, resp.Items[0].Results.RecycledContent)

	assert.Equal(t, 3, resp.Items[1].Line)
	assert.Contains(t, resp.Items[1].Error, "transportDistance must be numeric")

	assert.Equal(t, 2, resp.Items[2].Index)
	assert.Equal(t, 4, resp.Items[2].Line)
	assert.Equal(t, "Quantity must be greater than 0", resp.Items[2].Errors[lca.FieldQuantity])
}

func TestImport_BadRequests(t *testing.T) {
	h := newTestServer(t).routes()

	rec := do(h, importRequest(t, "/api/lca/import?scenario=spiral"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, importRequest(t, "/api/lca/import"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), importer.ErrEmptySheet.Error())

	rec = do(h, httptest.NewRequest(http.MethodPost, "/api/lca/import", strings.NewReader("x")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFlow(t *testing.T) {
	h := newTestServer(t).routes()

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/flows/circular", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp flowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, lca.Circular, resp.Profile.Scenario)
	assert.NotEmpty(t, resp.Diagram.Nodes)
	assert.NotEmpty(t, resp.Diagram.Links)

	rec = do(h, httptest.NewRequest(http.MethodGet, "/api/flows/spiral", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalog(t *testing.T) {
	h := newTestServer(t).routes()

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Baselines, 2)
	assert.Len(t, resp.EmissionFactors, 4)
	assert.Equal(t, 15.0, resp.Benchmarks["co2Footprint"])
}

func TestReportPreview(t *testing.T) {
	h := newTestServer(t).routes()

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/reports/preview", assessmentBody(t, lca.DefaultInputs(), lca.Linear)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Title    string    `json:"title"`
		Filename string    `json:"filename"`
		Grade    lca.Grade `json:"grade"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "LCA Report Preview", resp.Title)
	assert.Equal(t, "LCA_Report_aluminum_linear_1700000000123.pdf", resp.Filename)
	assert.Equal(t, lca.GradeC, resp.Grade)
}

func TestReportDownload(t *testing.T) {
	h := newTestServer(t).routes()

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{format: "pdf", contentType: "application/pdf", prefix: "%PDF"},
		{format: "xlsx", contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", prefix: "PK"},
		{format: "txt", contentType: "text/plain; charset=utf-8", prefix: "LCA Report Preview"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			in := lca.DefaultInputs()
			in.Metal = lca.Copper
			rec := do(h, httptest.NewRequest(http.MethodPost, "/api/reports/"+tt.format, assessmentBody(t, in, lca.Circular)))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			want := fmt.Sprintf(`attachment; filename="LCA_Report_copper_circular_1700000000123.%s"`, tt.format)
			assert.Equal(t, want, rec.Header().Get("Content-Disposition"))
			assert.True(t, strings.HasPrefix(rec.Body.String(), tt.prefix))
		})
	}
}

func TestReportDownload_Errors(t *testing.T) {
	h := newTestServer(t).routes()

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/reports/docx", assessmentBody(t, lca.DefaultInputs(), lca.Linear)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	in := lca.DefaultInputs()
	in.Quantity = -5
	rec = do(h, httptest.NewRequest(http.MethodPost, "/api/reports/pdf", assessmentBody(t, in, lca.Linear)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestCompute_CancelledRequest(t *testing.T) {
	srv := newTestServer(t)
	srv.est = estimator.NewEngine(srv.table, estimator.WithLatency(time.Hour))
	h := srv.routes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/lca/compute", assessmentBody(t, lca.DefaultInputs(), lca.Linear)).WithContext(ctx)

	rec := do(h, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t)
	srv.limiter = newIPRateLimiter(rate.Every(time.Hour), 2)
	h := srv.routes()

	for i := 0; i < 2; i++ {
		rec := do(h, httptest.NewRequest(http.MethodGet, "/api/flows/linear", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/flows/linear", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	other := httptest.NewRequest(http.MethodGet, "/api/flows/linear", nil)
	other.RemoteAddr = "198.51.100.7:4000"
	assert.Equal(t, http.StatusOK, do(h, other).Code)

	// Health checks are not limited.
	assert.Equal(t, http.StatusOK, do(h, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
}

func TestRecoveredPanicIsLogged(t *testing.T) {
	var buf bytes.Buffer
	srv := newTestServer(t)
	srv.log = zerolog.New(&buf)

	mux, ok := srv.routes().(*chi.Mux)
	require.True(t, ok)
	mux.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := do(mux, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"status":500`)
	assert.Contains(t, buf.String(), `"path":"/boom"`)
}

func TestDebugRoutesOnlyInDev(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv.routes(), httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	srv.dev = true
	rec = do(srv.routes(), httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
