package models

// InstrumentPatch carries a merge-patch over an InstrumentRecord: nil fields
// keep the prior value. It intentionally has no ID field; record identity is
// assigned once and never overwritten by a patch.
type InstrumentPatch struct {
	ManagementNumber *string `json:"managementNumber,omitempty"`

	Name                    *string            `json:"name,omitempty"`
	Model                   *string            `json:"model,omitempty"`
	FactoryNumber           *string            `json:"factoryNumber,omitempty"`
	Manufacturer            *string            `json:"manufacturer,omitempty"`
	Type                    *InstrumentType    `json:"type,omitempty"`
	MeasurementRange        *string            `json:"measurementRange,omitempty"`
	MeasurementUncertainty  *string            `json:"measurementUncertainty,omitempty"`
	Department              *Department        `json:"department,omitempty"`
	StorageLocation         *string            `json:"storageLocation,omitempty"`
	Remarks                 *string            `json:"remarks,omitempty"`
	Attachments             *string            `json:"attachments,omitempty"`
	CalibrationStatus       *CalibrationStatus `json:"calibrationStatus,omitempty"`
	CalibrationDate         *string            `json:"calibrationDate,omitempty"`
	RecalibrationDate       *string            `json:"recalibrationDate,omitempty"`
	Period                  *string            `json:"period,omitempty"`
	TraceabilityAgency      *string            `json:"traceabilityAgency,omitempty"`
	TraceabilityCertificate *string            `json:"traceabilityCertificate,omitempty"`

	InstrumentStatus *InstrumentStatus `json:"instrumentStatus,omitempty"`
	InOutStatus      *InOutStatus      `json:"inOutStatus,omitempty"`

	OutboundTime  *string `json:"outboundTime,omitempty"`
	InboundTime   *string `json:"inboundTime,omitempty"`
	UsedTime      *string `json:"usedTime,omitempty"`
	Operator      *string `json:"operator,omitempty"`
	OperationDate *string `json:"operationDate,omitempty"`

	DelayDays          *int    `json:"delayDays,omitempty"`
	ExpectedReturnDate *string `json:"expectedReturnDate,omitempty"`
	DelayOperator      *string `json:"delayOperator,omitempty"`
	DelayTime          *string `json:"delayTime,omitempty"`
	DisplayUntil       *string `json:"displayUntil,omitempty"`

	DeletedTodayRecord *bool   `json:"deletedTodayRecord,omitempty"`
	DeletedTime        *string `json:"deletedTime,omitempty"`
	RefreshedAt        *string `json:"refreshedAt,omitempty"`
}

// Apply merges the patch over the record in place. The record's ID and
// CreatedAt are untouched regardless of the patch contents.
func (p *InstrumentPatch) Apply(r *InstrumentRecord) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&r.ManagementNumber, p.ManagementNumber)
	setString(&r.Name, p.Name)
	setString(&r.Model, p.Model)
	setString(&r.FactoryNumber, p.FactoryNumber)
	setString(&r.Manufacturer, p.Manufacturer)
	if p.Type != nil {
		r.Type = *p.Type
	}
	setString(&r.MeasurementRange, p.MeasurementRange)
	setString(&r.MeasurementUncertainty, p.MeasurementUncertainty)
	if p.Department != nil {
		r.Department = *p.Department
	}
	setString(&r.StorageLocation, p.StorageLocation)
	setString(&r.Remarks, p.Remarks)
	setString(&r.Attachments, p.Attachments)
	if p.CalibrationStatus != nil {
		r.CalibrationStatus = *p.CalibrationStatus
	}
	setString(&r.CalibrationDate, p.CalibrationDate)
	setString(&r.RecalibrationDate, p.RecalibrationDate)
	setString(&r.Period, p.Period)
	setString(&r.TraceabilityAgency, p.TraceabilityAgency)
	setString(&r.TraceabilityCertificate, p.TraceabilityCertificate)

	if p.InstrumentStatus != nil {
		r.InstrumentStatus = *p.InstrumentStatus
	}
	if p.InOutStatus != nil {
		r.InOutStatus = *p.InOutStatus
	}

	setString(&r.OutboundTime, p.OutboundTime)
	setString(&r.InboundTime, p.InboundTime)
	setString(&r.UsedTime, p.UsedTime)
	setString(&r.Operator, p.Operator)
	setString(&r.OperationDate, p.OperationDate)

	if p.DelayDays != nil {
		r.DelayDays = *p.DelayDays
	}
	setString(&r.ExpectedReturnDate, p.ExpectedReturnDate)
	setString(&r.DelayOperator, p.DelayOperator)
	setString(&r.DelayTime, p.DelayTime)
	setString(&r.DisplayUntil, p.DisplayUntil)

	if p.DeletedTodayRecord != nil {
		r.DeletedTodayRecord = *p.DeletedTodayRecord
	}
	setString(&r.DeletedTime, p.DeletedTime)
	setString(&r.RefreshedAt, p.RefreshedAt)
}

// Helper constructors keep mutation code terse.

// StringPtr returns a pointer to the given string.
func StringPtr(v string) *string { return &v }

// IntPtr returns a pointer to the given int.
func IntPtr(v int) *int { return &v }

// BoolPtr returns a pointer to the given bool.
func BoolPtr(v bool) *bool { return &v }

// StatusPtr returns a pointer to the given instrument status.
func StatusPtr(v InstrumentStatus) *InstrumentStatus { return &v }

// InOutPtr returns a pointer to the given in/out status.
func InOutPtr(v InOutStatus) *InOutStatus { return &v }
