package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lm1285/project3-instrument-management-sub001/internal/dto"
	"github.com/lm1285/project3-instrument-management-sub001/internal/models"
)

type importStore interface {
	Add(ctx context.Context, record models.InstrumentRecord) (*models.InstrumentRecord, error)
}

// ImportObserver is notified with per-run row counts.
type ImportObserver interface {
	ObserveImport(accepted, rejected int)
}

// Canonical field keys produced by column-label normalization.
const (
	fieldName                   = "name"
	fieldModel                  = "model"
	fieldManagementNumber       = "managementNumber"
	fieldFactoryNumber          = "factoryNumber"
	fieldManufacturer           = "manufacturer"
	fieldType                   = "type"
	fieldMeasurementRange       = "measurementRange"
	fieldMeasurementUncertainty = "measurementUncertainty"
	fieldDepartment             = "department"
	fieldStorageLocation        = "storageLocation"
	fieldRemarks                = "remarks"
	fieldCalibrationStatus      = "calibrationStatus"
	fieldCalibrationDate        = "calibrationDate"
	fieldRecalibrationDate      = "recalibrationDate"
	fieldPeriod                 = "period"
	fieldTraceabilityAgency     = "traceabilityAgency"
	fieldTraceabilityCert       = "traceabilityCertificate"
	fieldInstrumentStatus       = "instrumentStatus"
)

// columnSynonyms maps recognized spreadsheet column labels, including the
// Chinese headers the source sheets carry, onto canonical field keys.
var columnSynonyms = map[string]string{
	"器具名称": fieldName, "仪器名称": fieldName, "名称": fieldName,
	"型号": fieldModel, "规格型号": fieldModel,
	"管理编号": fieldManagementNumber, "编号": fieldManagementNumber,
	"出厂编号": fieldFactoryNumber, "出厂号": fieldFactoryNumber,
	"生产厂家": fieldManufacturer, "制造商": fieldManufacturer, "厂家": fieldManufacturer,
	"器具类型": fieldType, "类型": fieldType,
	"测量范围": fieldMeasurementRange, "量程": fieldMeasurementRange,
	"测量不确定度": fieldMeasurementUncertainty, "不确定度": fieldMeasurementUncertainty,
	"科室": fieldDepartment, "部门": fieldDepartment,
	"存放地点": fieldStorageLocation, "存放位置": fieldStorageLocation,
	"备注": fieldRemarks,
	"检定状态": fieldCalibrationStatus, "校准状态": fieldCalibrationStatus,
	"检定日期": fieldCalibrationDate, "校准日期": fieldCalibrationDate,
	"复检日期": fieldRecalibrationDate, "复校日期": fieldRecalibrationDate,
	"周期": fieldPeriod, "检定周期": fieldPeriod,
	"溯源机构": fieldTraceabilityAgency,
	"证书编号": fieldTraceabilityCert, "溯源证书": fieldTraceabilityCert,
	"仪器状态": fieldInstrumentStatus, "状态": fieldInstrumentStatus,
}

var calibrationStatusTranslations = map[string]models.CalibrationStatus{
	"检定": models.CalibrationVerification, "verification": models.CalibrationVerification,
	"校准": models.CalibrationCalibration, "calibration": models.CalibrationCalibration,
	"已校准": models.CalibrationCalibrated, "calibrated": models.CalibrationCalibrated,
	"待检": models.CalibrationToCalibrate, "to-calibrate": models.CalibrationToCalibrate,
	"未检定": models.CalibrationUncalibrated, "uncalibrated": models.CalibrationUncalibrated,
}

var instrumentStatusTranslations = map[string]models.InstrumentStatus{
	"在用": models.StatusInUse, "in-use": models.StatusInUse,
	"超期": models.StatusOverdue, "overdue": models.StatusOverdue,
	"停用": models.StatusStopped, "stopped": models.StatusStopped,
	"已用": models.StatusUsed, "used": models.StatusUsed,
	"可用": models.StatusAvailable, "available": models.StatusAvailable,
	"维修": models.StatusMaintenance, "maintenance": models.StatusMaintenance,
	"未用": models.StatusUnused, "unused": models.StatusUnused,
}

var departmentTranslations = map[string]models.Department{
	"热工": models.DepartmentThermal, "thermal": models.DepartmentThermal,
	"理化": models.DepartmentPhysical, "physical": models.DepartmentPhysical,
}

var typeTranslations = map[string]models.InstrumentType{
	"标准器": models.TypeStandard, "standard": models.TypeStandard,
	"标准物质": models.TypeReferenceMaterial, "reference-material": models.TypeReferenceMaterial,
	"辅助设备": models.TypeAuxiliary, "auxiliary": models.TypeAuxiliary,
}

var importDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"20060102",
	"2006-1-2",
	"2006/1/2",
}

// requiredImportFields must all be present for a row to be accepted; a row
// missing any is rejected wholesale.
var requiredImportFields = []string{
	fieldName, fieldModel, fieldManagementNumber, fieldFactoryNumber, fieldManufacturer,
}

// ImportService maps already-parsed spreadsheet rows onto records and adds
// them one by one, collecting per-row failures into a report.
type ImportService struct {
	store    importStore
	observer ImportObserver
	logger   *zap.Logger
}

// NewImportService builds the importer.
func NewImportService(store importStore, observer ImportObserver, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{store: store, observer: observer, logger: logger}
}

// ImportRows converts and persists the given rows. Row numbers in the report
// are 1-based.
func (s *ImportService) ImportRows(ctx context.Context, rows []map[string]string) dto.ImportReport {
	report := dto.ImportReport{ID: uuid.NewString(), Total: len(rows)}

	for i, row := range rows {
		record, err := rowToRecord(row)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, dto.ImportRowError{Row: i + 1, Message: err.Error()})
			continue
		}
		if _, err := s.store.Add(ctx, *record); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, dto.ImportRowError{Row: i + 1, Message: err.Error()})
			continue
		}
		report.Imported++
	}

	if s.observer != nil {
		s.observer.ObserveImport(report.Imported, report.Failed)
	}
	s.logger.Sugar().Infow("import finished",
		"report_id", report.ID, "total", report.Total, "imported", report.Imported, "failed", report.Failed)
	return report
}

func rowToRecord(row map[string]string) (*models.InstrumentRecord, error) {
	fields := normalizeRow(row)

	for _, required := range requiredImportFields {
		if strings.TrimSpace(fields[required]) == "" {
			return nil, fmt.Errorf("missing required field %q", required)
		}
	}

	record := &models.InstrumentRecord{
		Name:                    fields[fieldName],
		Model:                   fields[fieldModel],
		ManagementNumber:        fields[fieldManagementNumber],
		FactoryNumber:           fields[fieldFactoryNumber],
		Manufacturer:            fields[fieldManufacturer],
		MeasurementRange:        fields[fieldMeasurementRange],
		MeasurementUncertainty:  fields[fieldMeasurementUncertainty],
		StorageLocation:         fields[fieldStorageLocation],
		Remarks:                 fields[fieldRemarks],
		Period:                  fields[fieldPeriod],
		TraceabilityAgency:      fields[fieldTraceabilityAgency],
		TraceabilityCertificate: fields[fieldTraceabilityCert],
	}

	if v := fields[fieldType]; v != "" {
		record.Type = typeTranslations[strings.ToLower(v)]
	}
	if v := fields[fieldDepartment]; v != "" {
		record.Department = departmentTranslations[strings.ToLower(v)]
	}
	if v := fields[fieldCalibrationStatus]; v != "" {
		record.CalibrationStatus = calibrationStatusTranslations[strings.ToLower(v)]
	}
	if v := fields[fieldInstrumentStatus]; v != "" {
		record.InstrumentStatus = instrumentStatusTranslations[strings.ToLower(v)]
	}
	if v := fields[fieldCalibrationDate]; v != "" {
		record.CalibrationDate = parseImportDate(v)
	}
	if v := fields[fieldRecalibrationDate]; v != "" {
		record.RecalibrationDate = parseImportDate(v)
	}

	return record, nil
}

// normalizeRow resolves each column label through the synonym table; labels
// already matching a canonical field key pass through unchanged.
func normalizeRow(row map[string]string) map[string]string {
	fields := make(map[string]string, len(row))
	for label, value := range row {
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)
		if key, ok := columnSynonyms[label]; ok {
			fields[key] = value
			continue
		}
		fields[label] = value
	}
	return fields
}

// parseImportDate normalizes the supported spreadsheet date formats; an
// unparseable value is carried through as-is.
func parseImportDate(value string) string {
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(models.DateLayout)
		}
	}
	return value
}
