package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/api"
	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/importer"
	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "extractions.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	router := gin.New()
	api.NewHandler(st, 20).RegisterRoutes(router.Group("/api"))
	return router, st
}

func templateBytes(t *testing.T) []byte {
	t.Helper()
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	rows := [][]interface{}{
		{"Campo", "Descrição", "Período 1", "Período 2"},
		{"revenue", "Receita Líquida", 1000000, 1100000},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("part write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("multipart close failed: %v", err)
	}
	return body, writer.FormDataContentType()
}

// uploadExtraction posts a template and returns the extraction id from the
// terminal SSE event.
func uploadExtraction(t *testing.T, router *gin.Engine, data []byte) string {
	t.Helper()
	body, contentType := multipartUpload(t, "upload.xlsx", data)

	req := httptest.NewRequest(http.MethodPost, "/api/extractions", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Fatalf("content type=%q, want SSE", ct)
	}

	var lastEvent importer.ProgressEvent
	for _, line := range strings.Split(w.Body.String(), "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &lastEvent); err != nil {
			t.Fatalf("bad SSE payload %q: %v", line, err)
		}
	}

	if lastEvent.Type != "done" {
		t.Fatalf("last event type=%q (%s), want done", lastEvent.Type, lastEvent.Message)
	}
	eventData, ok := lastEvent.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("done event data=%T, want map", lastEvent.Data)
	}
	id, _ := eventData["extractionId"].(string)
	if id == "" {
		t.Fatalf("done event carries no extraction id: %v", eventData)
	}
	return id
}

func TestCreateExtractionStreamsProgress(t *testing.T) {
	router, st := newTestRouter(t)

	id := uploadExtraction(t, router, templateBytes(t))

	detail, err := st.GetExtraction(id)
	if err != nil {
		t.Fatalf("GetExtraction failed: %v", err)
	}
	if detail == nil {
		t.Fatalf("extraction %s not persisted after upload", id)
	}
	if detail.Filename != "upload.xlsx" || detail.PeriodCount != 2 {
		t.Fatalf("persisted extraction=%+v", detail.Extraction)
	}
}

func TestCreateExtractionMissingFile(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/extractions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestGetExtractionRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)
	id := uploadExtraction(t, router, templateBytes(t))

	req := httptest.NewRequest(http.MethodGet, "/api/extractions/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var detail struct {
		ID      string                        `json:"id"`
		Periods []map[string]*json.RawMessage `json:"periods"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if detail.ID != id {
		t.Fatalf("id=%q, want %q", detail.ID, id)
	}
	if len(detail.Periods) != 2 {
		t.Fatalf("periods=%d, want 2", len(detail.Periods))
	}
}

func TestGetExtractionNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/extractions/no-such-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestListExtractions(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadExtraction(t, router, templateBytes(t))

	req := httptest.NewRequest(http.MethodGet, "/api/extractions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	var resp struct {
		Extractions []struct {
			ID string `json:"id"`
		} `json:"extractions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Extractions) != 1 {
		t.Fatalf("listed %d extractions, want 1", len(resp.Extractions))
	}
}

func TestDeleteExtraction(t *testing.T) {
	router, st := newTestRouter(t)
	id := uploadExtraction(t, router, templateBytes(t))

	req := httptest.NewRequest(http.MethodDelete, "/api/extractions/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	detail, err := st.GetExtraction(id)
	if err != nil {
		t.Fatalf("GetExtraction failed: %v", err)
	}
	if detail != nil {
		t.Fatalf("extraction still present after delete")
	}

	// Deleting again is a 404.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/extractions/"+id, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d, want 404", w.Code)
	}
}

func TestGetStatus(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadExtraction(t, router, templateBytes(t))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	var resp struct {
		Status      string `json:"status"`
		Version     string `json:"version"`
		Extractions int    `json:"extractions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Status != "ok" || resp.Version == "" {
		t.Fatalf("status response=%+v", resp)
	}
	if resp.Extractions != 1 {
		t.Fatalf("extractions=%d, want 1", resp.Extractions)
	}
}

func TestListFields(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/fields", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	var resp struct {
		Fields []struct {
			Key             string `json:"key"`
			Label           string `json:"label"`
			FirstPeriodOnly bool   `json:"firstPeriodOnly"`
			Percentage      bool   `json:"percentage"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Fields) != 14 {
		t.Fatalf("fields=%d, want the full catalog of 14", len(resp.Fields))
	}

	byKey := make(map[string]bool, len(resp.Fields))
	for _, f := range resp.Fields {
		if f.Key == "" || f.Label == "" {
			t.Fatalf("field with empty key or label: %+v", f)
		}
		byKey[f.Key] = f.FirstPeriodOnly
	}
	if !byKey["openingCash"] || !byKey["openingDebt"] {
		t.Fatalf("openingCash/openingDebt must be first-period-only: %v", byKey)
	}
	if byKey["revenue"] {
		t.Fatalf("revenue must not be first-period-only")
	}
}
