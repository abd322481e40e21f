package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hatchend/feasibility/internal/config"
	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	return NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "test")
}

func TestHandleEvaluateSuccess(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "test", "test_config.yaml"))
	if err != nil {
		t.Fatalf("failed to read test config: %v", err)
	}

	rr := performUpload(t, newTestHandler(), "/api/evaluate", string(data), "test_config.yaml")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp evaluateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Fatalf("expected evaluation ID, got %q", resp.ID)
	}
	if resp.Report == nil || resp.Report.Development == nil {
		t.Fatal("expected a development report")
	}
	if resp.Report.Clinic != nil {
		t.Fatal("expected no clinic report for the development model")
	}
	if got := resp.Report.Development.Appraisal.Parameters.SizeSqft; got != 20000 {
		t.Fatalf("expected uploaded size 20000, got %v", got)
	}
	if got := resp.Report.Development.Appraisal.Schedule.Phases[0].Start; got != "2027-01" {
		t.Fatalf("expected schedule to start 2027-01, got %s", got)
	}
	if !strings.Contains(resp.RecommendationsHTML[constants.ModelDevelopment], "<ol>") {
		t.Fatalf("expected rendered recommendations, got %q", resp.RecommendationsHTML)
	}
	if !strings.HasPrefix(resp.CSV, "table,") {
		t.Fatalf("expected CSV data in response, got %q", resp.CSV)
	}
	if resp.Duration == "" || resp.Config == nil || resp.ConfigYAML == "" {
		t.Fatal("expected duration and config echo in response")
	}

	found := false
	for _, w := range resp.Warnings {
		if strings.Contains(w, "Landscaping") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unknown budget category warning, got %v", resp.Warnings)
	}
}

func TestHandleEvaluateWarningsListedOnce(t *testing.T) {
	content := "model: development\noutput:\n  format: xlsx\ndevelopment:\n  occupancyPct: 120\n"
	rr := performUpload(t, newTestHandler(), "/api/evaluate", content, "warn.yaml")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp evaluateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	counts := map[string]int{}
	for _, w := range resp.Warnings {
		counts[w]++
	}
	occupancy, xlsx := 0, 0
	for w, n := range counts {
		if n > 1 {
			t.Errorf("warning %q listed %d times", w, n)
		}
		if strings.Contains(w, "occupancyPct") {
			occupancy++
		}
		if strings.Contains(w, "xlsx") {
			xlsx++
		}
	}
	if occupancy != 1 || xlsx != 1 {
		t.Errorf("expected one occupancy and one xlsx warning, got %v", resp.Warnings)
	}
}

func TestHandleEvaluateErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		status   int
		contains string
	}{
		{"Invalid YAML", "development: [", http.StatusBadRequest, "error reading config data"},
		{"Unknown model", "model: hotel", http.StatusBadRequest, "invalid configuration"},
		{"Bad start date", "project:\n  startDate: soon", http.StatusBadRequest, "invalid configuration"},
		{"Zero size", "model: development\ndevelopment:\n  sizeSqft: 0", http.StatusUnprocessableEntity, "sizeSqft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := performUpload(t, newTestHandler(), "/api/evaluate", tt.content, "config.yaml")
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if !strings.Contains(resp["error"], tt.contains) {
				t.Fatalf("expected error containing %q, got %q", tt.contains, resp["error"])
			}
		})
	}
}

func TestHandleEvaluateUploadTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 64, "test")

	rr := performUpload(t, handler, "/api/evaluate", strings.Repeat("a", 128), "config.yaml")
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "upload exceeds limit") {
		t.Fatalf("expected upload limit error message, got %q", resp["error"])
	}
}

func TestHandleEvaluateMissingFile(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp["error"] != "missing configuration file" {
		t.Fatalf("expected missing file error, got %q", resp["error"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/evaluate"},
		{http.MethodGet, "/api/export/xlsx"},
		{http.MethodGet, "/api/development/evaluate"},
		{http.MethodPut, "/api/clinic/evaluate"},
		{http.MethodGet, "/api/editor/export"},
		{http.MethodPost, "/api/defaults"},
		{http.MethodPost, "/api/version"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			newTestHandler().ServeHTTP(rr, req)
			if rr.Code != http.StatusMethodNotAllowed {
				t.Fatalf("expected status 405, got %d", rr.Code)
			}
		})
	}
}

func TestHandleDevelopment(t *testing.T) {
	handler := newTestHandler()

	rr := performJSON(t, handler, "/api/development/evaluate?start=2026-04", map[string]interface{}{
		"salesPricePerSqft": 900,
		"durationMonths":    24,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp developmentResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Fatalf("expected evaluation ID, got %q", resp.ID)
	}
	p := resp.Report.Appraisal.Parameters
	if p.SalesPricePerSqft != 900 || p.DurationMonths != 24 {
		t.Fatalf("expected overrides applied, got price %v duration %d", p.SalesPricePerSqft, p.DurationMonths)
	}
	if p.SizeSqft != config.Default().Development.SizeSqft {
		t.Fatalf("expected default size to be kept, got %v", p.SizeSqft)
	}
	if got := resp.Report.Appraisal.Schedule.Phases[0].Start; got != "2026-04" {
		t.Fatalf("expected schedule start 2026-04, got %s", got)
	}
	if len(resp.Report.Appraisal.Cashflow.Months) != 24 {
		t.Fatalf("expected 24 cashflow months, got %d", len(resp.Report.Appraisal.Cashflow.Months))
	}
	if resp.RecommendationsHTML == "" {
		t.Fatal("expected rendered recommendations")
	}
}

func TestHandleDevelopmentErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"Unknown field", "/api/development/evaluate", `{"floors": 3}`, http.StatusBadRequest},
		{"Malformed JSON", "/api/development/evaluate", `{"sizeSqft": `, http.StatusBadRequest},
		{"Bad start month", "/api/development/evaluate?start=April", `{}`, http.StatusBadRequest},
		{"Zero duration", "/api/development/evaluate", `{"durationMonths": 0}`, http.StatusUnprocessableEntity},
		{"Zero exit yield", "/api/development/evaluate", `{"exitYieldPct": 0}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			newTestHandler().ServeHTTP(rr, req)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleClinic(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/clinic/evaluate", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 for an empty body, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp clinicResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got := resp.Report.Plan.Revenue[0].Total; got < 702309 || got > 702310 {
		t.Fatalf("expected default year one revenue 702309.6, got %v", got)
	}
	if len(resp.Report.Risks) == 0 || resp.RecommendationsHTML == "" {
		t.Fatal("expected risks and recommendations")
	}

	rr = performJSON(t, handler, "/api/clinic/evaluate", map[string]interface{}{"operatingHoursWeekly": 0})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 for zero operating hours, got %d", rr.Code)
	}
}

func TestHandleExportWorkbook(t *testing.T) {
	rr := performUpload(t, newTestHandler(), "/api/export/xlsx", "model: clinic\n", "config.yaml")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("unexpected content type %q", ct)
	}
	id := rr.Header().Get("X-Evaluation-ID")
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected evaluation ID header, got %q", id)
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), id+".xlsx") {
		t.Fatalf("unexpected content disposition %q", rr.Header().Get("Content-Disposition"))
	}

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer func() {
		_ = f.Close()
	}()
	sheets := f.GetSheetList()
	if len(sheets) == 0 || sheets[0] != "Clinic Summary" {
		t.Fatalf("unexpected sheets %v", sheets)
	}
}

func TestHandleExportWorkbookInvalidConfig(t *testing.T) {
	rr := performUpload(t, newTestHandler(), "/api/export/xlsx", "model: [", "config.yaml")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleConfigExport(t *testing.T) {
	payload := map[string]interface{}{
		"clinic": map[string]interface{}{
			"cryoPrice": 50.0,
		},
		"development": map[string]interface{}{
			"sizeSqft": 12000.0,
		},
		"model": "both",
		"output": map[string]interface{}{
			"format": "pretty",
		},
		"logging": map[string]interface{}{
			"level": "info",
		},
	}

	rr := performJSON(t, newTestHandler(), "/api/editor/export", payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	var top []string
	for _, line := range strings.Split(strings.TrimRight(resp["configYaml"], "\n"), "\n") {
		if line == "" || strings.HasPrefix(line, " ") {
			continue
		}
		top = append(top, strings.SplitN(line, ":", 2)[0])
	}

	expected := []string{"logging", "output", "model", "clinic", "development"}
	if strings.Join(top, ",") != strings.Join(expected, ",") {
		t.Fatalf("expected top-level keys %v, got %v", expected, top)
	}
}

func TestHandleConfigExportInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/editor/export", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/defaults", nil)
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var got config.Configuration
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode defaults: %v", err)
	}
	want := config.Default()
	if got.Development != want.Development || got.Clinic != want.Clinic {
		t.Fatal("expected default parameters of both models")
	}
}

func TestHandleVersion(t *testing.T) {
	tests := []struct {
		version  string
		expected string
	}{
		{"1.2.3", "1.2.3"},
		{"  ", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			handler := NewHandler(nil, 0, tt.version)
			req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp["version"] != tt.expected {
				t.Fatalf("expected version %q, got %q", tt.expected, resp["version"])
			}
		})
	}
}

func TestStaticAssetsServed(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 for index, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Feasibility Dashboards") {
		t.Fatalf("expected HTML body to contain title, got %q", rr.Body.String())
	}

	cssReq := httptest.NewRequest(http.MethodGet, "/styles.css", nil)
	cssRR := httptest.NewRecorder()
	handler.ServeHTTP(cssRR, cssReq)

	if cssRR.Code != http.StatusOK {
		t.Fatalf("expected status 200 for css, got %d", cssRR.Code)
	}
	if !strings.Contains(cssRR.Body.String(), ":root") {
		t.Fatalf("expected CSS body to contain styles, got %q", cssRR.Body.String())
	}
}

func performUpload(t *testing.T, handler http.Handler, path, content, filename string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func performJSON(t *testing.T, handler http.Handler, path string, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}
