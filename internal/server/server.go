// Package server exposes the development appraisal and clinic business plan
// over HTTP and serves the embedded web UI.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hatchend/feasibility/internal/advisory"
	"github.com/hatchend/feasibility/internal/clinic"
	"github.com/hatchend/feasibility/internal/config"
	"github.com/hatchend/feasibility/internal/development"
	"github.com/hatchend/feasibility/internal/report"
	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/datetime"
	"github.com/hatchend/feasibility/pkg/output"
	"github.com/hatchend/feasibility/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the web UI and evaluation API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Single-model endpoints taking JSON parameters over the defaults
	mux.HandleFunc("/api/development/evaluate", h.handleDevelopment)
	mux.HandleFunc("/api/clinic/evaluate", h.handleClinic)

	// Full configuration upload
	mux.HandleFunc("/api/evaluate", h.handleEvaluate)
	mux.HandleFunc("/api/export/xlsx", h.handleExportWorkbook)

	// Config serialization endpoint for editor downloads
	mux.HandleFunc("/api/editor/export", h.handleConfigExport)

	mux.HandleFunc("/api/defaults", h.handleDefaults)
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux
}

type developmentResponse struct {
	ID                  string                    `json:"id"`
	Report              *report.DevelopmentReport `json:"report"`
	RecommendationsHTML string                    `json:"recommendationsHtml,omitempty"`
	Warnings            []string                  `json:"warnings,omitempty"`
	Duration            string                    `json:"duration"`
}

type clinicResponse struct {
	ID                  string               `json:"id"`
	Report              *report.ClinicReport `json:"report"`
	RecommendationsHTML string               `json:"recommendationsHtml,omitempty"`
	Warnings            []string             `json:"warnings,omitempty"`
	Duration            string               `json:"duration"`
}

type evaluateResponse struct {
	ID                  string                 `json:"id"`
	Report              *report.Report         `json:"report"`
	RecommendationsHTML map[string]string      `json:"recommendationsHtml,omitempty"`
	CSV                 string                 `json:"csv"`
	Warnings            []string               `json:"warnings,omitempty"`
	Duration            string                 `json:"duration"`
	Config              map[string]interface{} `json:"config,omitempty"`
	ConfigYAML          string                 `json:"configYaml,omitempty"`
}

func (h *handler) handleDevelopment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDevelopment"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	params := development.Defaults()
	if !h.decodeParameters(w, r, &params, op) {
		return
	}

	startMonth, err := datetime.ParseMonth(r.URL.Query().Get("start"), start)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	d, warnings, err := report.GetDevelopmentReport(h.logger, params, nil, startMonth)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	resp := developmentResponse{
		ID:                  uuid.NewString(),
		Report:              d,
		RecommendationsHTML: h.renderInsights(d.Recommendations, op),
		Warnings:            warnings,
		Duration:            time.Since(start).String(),
	}
	h.logger.Info("development evaluated",
		zap.String("op", op),
		zap.String("id", resp.ID),
		zap.Float64("profit", d.Appraisal.Summary.Profit),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleClinic(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleClinic"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	params := clinic.Defaults()
	if !h.decodeParameters(w, r, &params, op) {
		return
	}

	c, warnings, err := report.GetClinicReport(h.logger, params, nil)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	resp := clinicResponse{
		ID:                  uuid.NewString(),
		Report:              c,
		RecommendationsHTML: h.renderInsights(c.Recommendations, op),
		Warnings:            warnings,
		Duration:            time.Since(start).String(),
	}
	h.logger.Info("clinic evaluated",
		zap.String("op", op),
		zap.String("id", resp.ID),
		zap.Float64("yearOneEbitda", c.Plan.Summary.Years[0].EBITDA),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

// decodeParameters overlays a JSON body onto dst. An empty body keeps dst.
func (h *handler) decodeParameters(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode parameters: %v", err), op)
		return false
	}
	return true
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvaluate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	configBytes, ok := h.readUpload(w, r, op)
	if !ok {
		return
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	rep, ok := h.runReport(w, configBytes, op)
	if !ok {
		return
	}

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, rep); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render csv: %v", err), op)
		return
	}

	html := make(map[string]string)
	if rep.Development != nil {
		html[constants.ModelDevelopment] = h.renderInsights(rep.Development.Recommendations, op)
	}
	if rep.Clinic != nil {
		html[constants.ModelClinic] = h.renderInsights(rep.Clinic.Recommendations, op)
	}

	elapsed := time.Since(start)
	response := evaluateResponse{
		ID:                  rep.ID,
		Report:              rep,
		RecommendationsHTML: html,
		CSV:                 csvBuf.String(),
		Warnings:            rep.Warnings,
		Duration:            elapsed.String(),
		Config:              configMap,
		ConfigYAML:          string(configBytes),
	}

	h.logger.Info("report computed",
		zap.String("op", op),
		zap.String("id", rep.ID),
		zap.String("model", rep.Model),
		zap.Int("warnings", len(response.Warnings)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExportWorkbook"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	configBytes, ok := h.readUpload(w, r, op)
	if !ok {
		return
	}
	if _, err := decodeYAMLToMap(configBytes); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	rep, ok := h.runReport(w, configBytes, op)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := output.WriteWorkbook(&buf, rep); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "feasibility-"+rep.ID+".xlsx"))
	w.Header().Set("X-Evaluation-ID", rep.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write workbook response",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// readUpload returns the bytes of the multipart "file" field. On failure it
// has already written the error response.
func (h *handler) readUpload(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return nil, false
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return nil, false
	}
	return buf.Bytes(), true
}

// runReport loads a YAML configuration over the defaults and evaluates it.
// The report carries every warning.
func (h *handler) runReport(w http.ResponseWriter, configBytes []byte, op string) (*report.Report, bool) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}

	rep, err := report.GetReport(h.logger, *cfg, time.Now())
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return nil, false
	}
	return rep, true
}

func (h *handler) renderInsights(insights []advisory.Insight, op string) string {
	html, err := advisory.RenderHTML(insights)
	if err != nil {
		h.logger.Warn("failed to render recommendations",
			zap.String("op", op),
			zap.Error(err),
		)
		return ""
	}
	return html
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, config.Default())
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// leadingKeys are written first, in this order, by the editor export. The
// remaining keys follow alphabetically.
var leadingKeys = []string{"logging", "output", "project", "model"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range leadingKeys {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

// statusFor maps an evaluation error to a response status. Parameter
// boundary violations are the caller's fault.
func statusFor(err error) int {
	if errors.Is(err, validation.ErrNonPositiveDomain) || errors.Is(err, validation.ErrNotFinite) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, report.ErrInvalidConfiguration) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
