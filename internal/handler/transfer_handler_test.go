package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lm1285/project3-instrument-management-sub001/internal/dto"
	"github.com/lm1285/project3-instrument-management-sub001/internal/service"
)

type importServiceMock struct {
	report dto.ImportReport
	rows   []map[string]string
}

func (m *importServiceMock) ImportRows(ctx context.Context, rows []map[string]string) dto.ImportReport {
	m.rows = rows
	return m.report
}

type exportServiceMock struct {
	file   *service.ExportFile
	err    error
	format string
}

func (m *exportServiceMock) Export(ctx context.Context, format string) (*service.ExportFile, error) {
	m.format = format
	if m.err != nil {
		return nil, m.err
	}
	return m.file, nil
}

func TestTransferHandlerImport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &importServiceMock{report: dto.ImportReport{ID: "run-1", Total: 1, Imported: 1}}
	handler := NewTransferHandler(mock, &exportServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.ImportRequest{Rows: []map[string]string{{"器具名称": "天平"}}})
	req, _ := http.NewRequest(http.MethodPost, "/instruments/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Import(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mock.rows, 1)
	assert.Contains(t, w.Body.String(), `"imported":1`)
}

func TestTransferHandlerImportInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTransferHandler(&importServiceMock{}, &exportServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/instruments/import", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Import(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransferHandlerExportDefaultsToCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &exportServiceMock{file: &service.ExportFile{
		Data:        []byte("h\nv\n"),
		ContentType: "text/csv",
		Filename:    "instruments-test.csv",
	}}
	handler := NewTransferHandler(&importServiceMock{}, mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/instruments/export", nil)
	c.Request = req

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatCSV, mock.format)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "instruments-test.csv")
}
