package dto

import "github.com/lm1285/project3-instrument-management-sub001/internal/models"

// OperationRequest identifies the target of a named lifecycle operation by
// its management number.
type OperationRequest struct {
	ManagementNumber string `json:"managementNumber" binding:"required"`
	Operator         string `json:"operator"`
}

// DelayRequest extends a record's visibility window by a positive number of
// days.
type DelayRequest struct {
	ManagementNumber string `json:"managementNumber" binding:"required" validate:"required"`
	DelayDays        int    `json:"delayDays" binding:"required,gt=0" validate:"required,gt=0"`
	Operator         string `json:"operator"`
}

// QRLookupRequest carries a decoded QR string, expected to equal a
// management number.
type QRLookupRequest struct {
	Code string `json:"code" binding:"required"`
}

// QRLookupResult reports the outcome of a decoded-string lookup.
type QRLookupResult struct {
	Found  bool                     `json:"found"`
	Record *models.InstrumentRecord `json:"record,omitempty"`
}

// ImportRequest wraps already-parsed spreadsheet rows as label→value maps.
type ImportRequest struct {
	Rows []map[string]string `json:"rows" binding:"required"`
}

// ImportRowError describes a single rejected row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport summarizes a bulk import run.
type ImportReport struct {
	ID       string           `json:"id"`
	Total    int              `json:"total"`
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}
