package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Simplici0/metal-lca/internal/catalog"
	"github.com/Simplici0/metal-lca/internal/estimator"
	"github.com/Simplici0/metal-lca/internal/flow"
	"github.com/Simplici0/metal-lca/internal/importer"
	"github.com/Simplici0/metal-lca/internal/kpi"
	"github.com/Simplici0/metal-lca/internal/lca"
	"github.com/Simplici0/metal-lca/internal/logging"
	"github.com/Simplici0/metal-lca/internal/report"
)

const (
	maxBodyBytes   = 1 << 20
	maxImportBytes = 10 << 20
	maxBatchItems  = 500
)

type server struct {
	log        zerolog.Logger
	est        estimator.Estimator
	catalog    *catalog.Store
	table      lca.Table
	benchmarks kpi.Benchmarks
	batchLimit int
	limiter    *ipRateLimiter
	now        func() time.Time
	// dev mounts the pprof endpoints under /debug.
	dev bool
}

type assessmentRequest struct {
	Inputs   lca.Inputs   `json:"inputs"`
	Scenario lca.Scenario `json:"scenario"`
}

type batchRequest struct {
	Items []assessmentRequest `json:"items"`
}

type computeResponse struct {
	Results        lca.Results `json:"results"`
	Grade          lca.Grade   `json:"grade"`
	EmissionFactor float64     `json:"emissionFactor"`
	CustomFactor   bool        `json:"customFactor"`
	KPIs           []kpi.Card  `json:"kpis"`
}

type outcomeResponse struct {
	Index   int               `json:"index"`
	Line    int               `json:"line,omitempty"`
	Results *lca.Results      `json:"results,omitempty"`
	Grade   lca.Grade         `json:"grade,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type flowResponse struct {
	Profile flow.Profile `json:"profile"`
	Diagram flow.Diagram `json:"diagram"`
}

type catalogResponse struct {
	Baselines       []catalog.Baseline       `json:"baselines"`
	EmissionFactors []catalog.EmissionFactor `json:"emissionFactors"`
	Benchmarks      kpi.Benchmarks           `json:"benchmarks"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(logging.Middleware(s.log))
	r.Use(middleware.Recoverer)

	if s.dev {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})

	r.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}
		r.Post("/lca/validate", s.handleValidate)
		r.Post("/lca/compute", s.handleCompute)
		r.Post("/lca/batch", s.handleBatch)
		r.Post("/lca/import", s.handleImport)
		r.Get("/flows/{scenario}", s.handleFlow)
		r.Get("/catalog", s.handleCatalog)
		r.Post("/reports/preview", s.handleReportPreview)
		r.Post("/reports/{format}", s.handleReportDownload)
	})

	return r
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAssessment(w, r)
	if !ok {
		return
	}

	if err := lca.Validate(req.Inputs, req.Scenario); err != nil {
		s.writeEstimateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (s *server) handleCompute(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAssessment(w, r)
	if !ok {
		return
	}

	res, err := s.estimate(r.Context(), req)
	if err != nil {
		s.writeEstimateError(w, r, err)
		return
	}

	a := report.NewAssessment(s.table, s.benchmarks, req.Inputs, req.Scenario, res)
	writeJSON(w, http.StatusOK, computeResponse{
		Results:        res,
		Grade:          lca.GradeFor(res.CircularityScore),
		EmissionFactor: a.EmissionFactor,
		CustomFactor:   a.CustomFactor,
		KPIs:           kpi.Board(res, s.benchmarks),
	})
}

func (s *server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var body batchRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if len(body.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items must not be empty")
		return
	}
	if len(body.Items) > maxBatchItems {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d items per batch", maxBatchItems))
		return
	}

	reqs := make([]estimator.Request, len(body.Items))
	for i, item := range body.Items {
		reqs[i] = estimator.Request{Inputs: item.Inputs, Scenario: item.Scenario}
	}

	outcomes, err := estimator.EstimateBatch(r.Context(), s.est, reqs, s.batchLimit)
	if err != nil {
		s.writeEstimateError(w, r, err)
		return
	}

	resp := make([]outcomeResponse, len(outcomes))
	for i, o := range outcomes {
		resp[i] = toOutcome(o)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": resp})
}

func (s *server) handleImport(w http.ResponseWriter, r *http.Request) {
	sc := lca.Scenario(r.URL.Query().Get("scenario"))
	if sc == "" {
		sc = lca.Linear
	}
	if !sc.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported scenario %q", sc))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	rows, err := importer.ReadInputs(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(rows) > maxBatchItems {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d rows per import", maxBatchItems))
		return
	}

	// Rows that failed to parse keep their slot; the rest are estimated.
	resp := make([]outcomeResponse, len(rows))
	var reqs []estimator.Request
	var slots []int
	for i, row := range rows {
		if row.Err != nil {
			resp[i] = outcomeResponse{Index: i, Line: row.Line, Error: row.Err.Error()}
			continue
		}
		reqs = append(reqs, estimator.Request{Inputs: row.Inputs, Scenario: sc})
		slots = append(slots, i)
	}

	outcomes, err := estimator.EstimateBatch(r.Context(), s.est, reqs, s.batchLimit)
	if err != nil {
		s.writeEstimateError(w, r, err)
		return
	}
	for j, o := range outcomes {
		i := slots[j]
		out := toOutcome(o)
		out.Index = i
		out.Line = rows[i].Line
		resp[i] = out
	}

	writeJSON(w, http.StatusOK, map[string]any{"scenario": sc, "items": resp})
}

func (s *server) handleFlow(w http.ResponseWriter, r *http.Request) {
	sc := lca.Scenario(chi.URLParam(r, "scenario"))
	if !sc.Valid() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown scenario %q", sc))
		return
	}
	writeJSON(w, http.StatusOK, flowResponse{Profile: flow.Describe(sc), Diagram: flow.ForScenario(sc)})
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	baselines, err := s.catalog.ListBaselines(ctx)
	if err != nil {
		s.internalError(w, r, "failed to load baselines", err)
		return
	}
	factors, err := s.catalog.ListEmissionFactors(ctx)
	if err != nil {
		s.internalError(w, r, "failed to load emission factors", err)
		return
	}
	benchmarks, err := s.catalog.LoadBenchmarks(ctx)
	if err != nil {
		s.internalError(w, r, "failed to load benchmarks", err)
		return
	}

	writeJSON(w, http.StatusOK, catalogResponse{Baselines: baselines, EmissionFactors: factors, Benchmarks: benchmarks})
}

func (s *server) handleReportPreview(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.buildReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	format := report.Format(chi.URLParam(r, "format"))
	if !format.Valid() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unsupported report format %q", format))
		return
	}

	rep, ok := s.buildReport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case report.FormatPDF:
		err = report.WritePDF(&buf, rep)
	case report.FormatXLSX:
		err = report.WriteXLSX(&buf, rep)
	default:
		err = report.WriteText(&buf, rep)
	}
	if err != nil {
		s.internalError(w, r, "failed to render report", err)
		return
	}

	filename := report.FilenameWithExt(rep.Inputs.Metal, rep.Scenario, rep.GeneratedAt, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *server) buildReport(w http.ResponseWriter, r *http.Request) (report.Report, bool) {
	req, ok := decodeAssessment(w, r)
	if !ok {
		return report.Report{}, false
	}

	res, err := s.estimate(r.Context(), req)
	if err != nil {
		s.writeEstimateError(w, r, err)
		return report.Report{}, false
	}

	a := report.NewAssessment(s.table, s.benchmarks, req.Inputs, req.Scenario, res)
	return report.Build(a, s.now()), true
}

// estimate runs the request through the asynchronous boundary and waits for
// it, giving up when the client goes away.
func (s *server) estimate(ctx context.Context, req assessmentRequest) (lca.Results, error) {
	return estimator.Start(ctx, s.est, req.Inputs, req.Scenario).Wait(ctx)
}

func (s *server) writeEstimateError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *lca.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, verr)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "estimate cancelled")
	default:
		s.internalError(w, r, "estimate failed", err)
	}
}

func (s *server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	writeError(w, http.StatusInternalServerError, msg)
}

func toOutcome(o estimator.Outcome) outcomeResponse {
	out := outcomeResponse{Index: o.Index}

	var verr *lca.ValidationError
	switch {
	case o.Err == nil:
		res := o.Results
		out.Results = &res
		out.Grade = lca.GradeFor(res.CircularityScore)
	case errors.As(o.Err, &verr):
		out.Errors = verr.Fields
	default:
		out.Error = o.Err.Error()
	}
	return out
}

func decodeAssessment(w http.ResponseWriter, r *http.Request) (assessmentRequest, bool) {
	var req assessmentRequest
	if !decodeJSON(w, r, &req) {
		return assessmentRequest{}, false
	}
	return req, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
