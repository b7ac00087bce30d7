package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lm1285/project3-instrument-management-sub001/internal/models"
	appErrors "github.com/lm1285/project3-instrument-management-sub001/pkg/errors"
	"github.com/lm1285/project3-instrument-management-sub001/pkg/export"
)

// Export formats accepted by the export endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var exportHeaders = []string{
	"ManagementNumber", "Name", "Model", "FactoryNumber", "Manufacturer",
	"Type", "MeasurementRange", "Department", "StorageLocation",
	"CalibrationStatus", "CalibrationDate", "RecalibrationDate", "InstrumentStatus",
}

// ExportFile is a rendered inventory export.
type ExportFile struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ExportService renders the inventory list into downloadable documents.
type ExportService struct {
	store recordSource
	csv   *export.CSVExporter
	pdf   *export.PDFExporter
}

// NewExportService builds the exporter.
func NewExportService(store recordSource) *ExportService {
	return &ExportService{
		store: store,
		csv:   export.NewCSVExporter(),
		pdf:   export.NewPDFExporter(),
	}
}

// Export renders the full collection in the requested format.
func (s *ExportService) Export(ctx context.Context, format string) (*ExportFile, error) {
	dataset := export.Dataset{Headers: exportHeaders}
	for _, record := range s.store.GetAll(ctx) {
		dataset.Rows = append(dataset.Rows, exportRow(&record))
	}

	stamp := uuid.NewString()[:8]
	switch format {
	case ExportFormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{
			Data:        data,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("instruments-%s.csv", stamp),
		}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(dataset, "Instrument Inventory")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{
			Data:        data,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("instruments-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func exportRow(record *models.InstrumentRecord) map[string]string {
	return map[string]string{
		"ManagementNumber":  record.ManagementNumber,
		"Name":              record.Name,
		"Model":             record.Model,
		"FactoryNumber":     record.FactoryNumber,
		"Manufacturer":      record.Manufacturer,
		"Type":              string(record.Type),
		"MeasurementRange":  record.MeasurementRange,
		"Department":        string(record.Department),
		"StorageLocation":   record.StorageLocation,
		"CalibrationStatus": string(record.CalibrationStatus),
		"CalibrationDate":   record.CalibrationDate,
		"RecalibrationDate": record.RecalibrationDate,
		"InstrumentStatus":  string(record.InstrumentStatus),
	}
}
