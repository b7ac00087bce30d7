package models

// InstrumentType classifies a measurement instrument.
type InstrumentType string

const (
	TypeStandard          InstrumentType = "standard"
	TypeReferenceMaterial InstrumentType = "reference-material"
	TypeAuxiliary         InstrumentType = "auxiliary"
)

// Department is the owning lab section.
type Department string

const (
	DepartmentThermal  Department = "thermal"
	DepartmentPhysical Department = "physical"
)

// CalibrationStatus tracks metrological confirmation state.
type CalibrationStatus string

const (
	CalibrationVerification CalibrationStatus = "verification"
	CalibrationCalibration  CalibrationStatus = "calibration"
	CalibrationCalibrated   CalibrationStatus = "calibrated"
	CalibrationToCalibrate  CalibrationStatus = "to-calibrate"
	CalibrationUncalibrated CalibrationStatus = "uncalibrated"
)

// InstrumentStatus captures the operational state of an instrument.
type InstrumentStatus string

const (
	StatusInUse       InstrumentStatus = "in-use"
	StatusOverdue     InstrumentStatus = "overdue"
	StatusStopped     InstrumentStatus = "stopped"
	StatusUsed        InstrumentStatus = "used"
	StatusAvailable   InstrumentStatus = "available"
	StatusMaintenance InstrumentStatus = "maintenance"
	StatusUnused      InstrumentStatus = "unused"
)

// ExcludedFromSearch reports whether the status bars the record from every
// search result, before any text or numeric matching runs.
func (s InstrumentStatus) ExcludedFromSearch() bool {
	return s == StatusUsed || s == StatusStopped
}

// InOutStatus marks whether the instrument is in storage or checked out.
type InOutStatus string

const (
	InOutIn  InOutStatus = "in"
	InOutOut InOutStatus = "out"
)

// Time layouts used for the formatted timestamp fields. Operational
// timestamps are stored as local date-time strings, not epoch numbers.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// EmptyTimeMarker is the cleared value for operational timestamps.
const EmptyTimeMarker = ""

// InstrumentRecord is the sole persisted entity. Optional fields stay empty
// when absent; readers must not assume enum fields are populated.
type InstrumentRecord struct {
	ID               string `json:"id"`
	ManagementNumber string `json:"managementNumber"`

	Name                    string            `json:"name"`
	Model                   string            `json:"model"`
	FactoryNumber           string            `json:"factoryNumber"`
	Manufacturer            string            `json:"manufacturer"`
	Type                    InstrumentType    `json:"type,omitempty"`
	MeasurementRange        string            `json:"measurementRange,omitempty"`
	MeasurementUncertainty  string            `json:"measurementUncertainty,omitempty"`
	Department              Department        `json:"department,omitempty"`
	StorageLocation         string            `json:"storageLocation,omitempty"`
	Remarks                 string            `json:"remarks,omitempty"`
	Attachments             string            `json:"attachments,omitempty"`
	CalibrationStatus       CalibrationStatus `json:"calibrationStatus,omitempty"`
	CalibrationDate         string            `json:"calibrationDate,omitempty"`
	RecalibrationDate       string            `json:"recalibrationDate,omitempty"`
	Period                  string            `json:"period,omitempty"`
	TraceabilityAgency      string            `json:"traceabilityAgency,omitempty"`
	TraceabilityCertificate string            `json:"traceabilityCertificate,omitempty"`

	InstrumentStatus InstrumentStatus `json:"instrumentStatus,omitempty"`
	InOutStatus      InOutStatus      `json:"inOutStatus,omitempty"`

	OutboundTime  string `json:"outboundTime,omitempty"`
	InboundTime   string `json:"inboundTime,omitempty"`
	UsedTime      string `json:"usedTime,omitempty"`
	Operator      string `json:"operator,omitempty"`
	OperationDate string `json:"operationDate,omitempty"`

	DelayDays          int    `json:"delayDays,omitempty"`
	ExpectedReturnDate string `json:"expectedReturnDate,omitempty"`
	DelayOperator      string `json:"delayOperator,omitempty"`
	DelayTime          string `json:"delayTime,omitempty"`
	DisplayUntil       string `json:"displayUntil,omitempty"`

	DeletedTodayRecord bool   `json:"deletedTodayRecord,omitempty"`
	DeletedTime        string `json:"deletedTime,omitempty"`
	RefreshedAt        string `json:"refreshedAt,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// SearchFields returns the values the query engine matches against, in
// evaluation order.
func (r *InstrumentRecord) SearchFields() []string {
	return []string{r.Name, r.Model, r.FactoryNumber, r.ManagementNumber, r.MeasurementRange}
}

// SuggestionFields returns every string-valued field of the record; typeahead
// suggestions are drawn from the full flattened set, not just the searched
// fields.
func (r *InstrumentRecord) SuggestionFields() []string {
	return []string{
		r.Name, r.Model, r.FactoryNumber, r.ManagementNumber, r.MeasurementRange,
		r.Manufacturer, r.MeasurementUncertainty, r.StorageLocation, r.Remarks,
		r.Attachments, string(r.Type), string(r.Department),
		string(r.CalibrationStatus), r.CalibrationDate, r.RecalibrationDate,
		r.Period, r.TraceabilityAgency, r.TraceabilityCertificate,
		string(r.InstrumentStatus), string(r.InOutStatus),
		r.OutboundTime, r.InboundTime, r.UsedTime, r.Operator, r.OperationDate,
		r.ExpectedReturnDate, r.DelayOperator, r.DelayTime, r.DisplayUntil,
		r.DeletedTime, r.RefreshedAt, r.CreatedAt, r.UpdatedAt, r.ID,
	}
}
