package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lm1285/project3-instrument-management-sub001/internal/dto"
	"github.com/lm1285/project3-instrument-management-sub001/internal/models"
	appErrors "github.com/lm1285/project3-instrument-management-sub001/pkg/errors"
)

type instrumentStore interface {
	GetAll(ctx context.Context) []models.InstrumentRecord
	Add(ctx context.Context, record models.InstrumentRecord) (*models.InstrumentRecord, error)
	Update(ctx context.Context, id string, patch models.InstrumentPatch) error
	Remove(ctx context.Context, id string) error
}

// InstrumentService owns record CRUD and the named lifecycle operations:
// check-out, check-in, mark-used, delay, and soft-delete-today.
type InstrumentService struct {
	store    instrumentStore
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewInstrumentService builds the service.
func NewInstrumentService(store instrumentStore, validate *validator.Validate, logger *zap.Logger) *InstrumentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentService{store: store, validate: validate, logger: logger, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *InstrumentService) WithClock(now func() time.Time) *InstrumentService {
	if now != nil {
		s.now = now
	}
	return s
}

// List returns the full persisted collection.
func (s *InstrumentService) List(ctx context.Context) []models.InstrumentRecord {
	return s.store.GetAll(ctx)
}

// Get returns the record with the given id.
func (s *InstrumentService) Get(ctx context.Context, id string) (*models.InstrumentRecord, error) {
	for _, record := range s.store.GetAll(ctx) {
		if record.ID == id {
			return &record, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no record matches id")
}

// Create adds a new record built from the given fields.
func (s *InstrumentService) Create(ctx context.Context, patch models.InstrumentPatch) (*models.InstrumentRecord, error) {
	var record models.InstrumentRecord
	patch.Apply(&record)
	return s.store.Add(ctx, record)
}

// Update merge-patches the resolved record and returns the stored result.
func (s *InstrumentService) Update(ctx context.Context, id string, patch models.InstrumentPatch) (*models.InstrumentRecord, error) {
	if err := s.store.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	if id != "" {
		return s.Get(ctx, id)
	}
	if patch.ManagementNumber != nil {
		return s.findByNumber(ctx, *patch.ManagementNumber)
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "updated record could not be re-read")
}

// Delete removes the record with the given id from the store.
func (s *InstrumentService) Delete(ctx context.Context, id string) error {
	return s.store.Remove(ctx, id)
}

// CheckOut marks the instrument as removed from storage.
func (s *InstrumentService) CheckOut(ctx context.Context, req dto.OperationRequest) (*models.InstrumentRecord, error) {
	now := s.now()
	patch := models.InstrumentPatch{
		InOutStatus:        models.InOutPtr(models.InOutOut),
		Operator:           models.StringPtr(req.Operator),
		OutboundTime:       models.StringPtr(now.Format(models.DateTimeLayout)),
		InboundTime:        models.StringPtr(models.EmptyTimeMarker),
		OperationDate:      models.StringPtr(now.Format(models.DateLayout)),
		DeletedTodayRecord: models.BoolPtr(false),
	}
	return s.applyOperation(ctx, req.ManagementNumber, patch)
}

// CheckIn marks the instrument as returned to storage.
func (s *InstrumentService) CheckIn(ctx context.Context, req dto.OperationRequest) (*models.InstrumentRecord, error) {
	now := s.now()
	patch := models.InstrumentPatch{
		InOutStatus:        models.InOutPtr(models.InOutIn),
		Operator:           models.StringPtr(req.Operator),
		InboundTime:        models.StringPtr(now.Format(models.DateTimeLayout)),
		OperationDate:      models.StringPtr(now.Format(models.DateLayout)),
		DeletedTodayRecord: models.BoolPtr(false),
	}
	return s.applyOperation(ctx, req.ManagementNumber, patch)
}

// MarkUsed flags the instrument as consumed; used records disappear from all
// search results.
func (s *InstrumentService) MarkUsed(ctx context.Context, req dto.OperationRequest) (*models.InstrumentRecord, error) {
	now := s.now()
	patch := models.InstrumentPatch{
		InstrumentStatus: models.StatusPtr(models.StatusUsed),
		Operator:         models.StringPtr(req.Operator),
		UsedTime:         models.StringPtr(now.Format(models.DateTimeLayout)),
		OperationDate:    models.StringPtr(now.Format(models.DateLayout)),
	}
	return s.applyOperation(ctx, req.ManagementNumber, patch)
}

// Delay extends the record's visibility in the daily-operations view by a
// positive number of days.
func (s *InstrumentService) Delay(ctx context.Context, req dto.DelayRequest) (*models.InstrumentRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "delay requires a positive day count")
	}

	now := s.now()
	until := now.AddDate(0, 0, req.DelayDays).Format(models.DateLayout)
	patch := models.InstrumentPatch{
		DelayDays:          models.IntPtr(req.DelayDays),
		ExpectedReturnDate: models.StringPtr(until),
		DelayOperator:      models.StringPtr(req.Operator),
		DelayTime:          models.StringPtr(now.Format(models.DateTimeLayout)),
		DisplayUntil:       models.StringPtr(until),
		DeletedTodayRecord: models.BoolPtr(false),
	}
	return s.applyOperation(ctx, req.ManagementNumber, patch)
}

// DeleteToday hides the record from the daily-operations view without
// removing it from the store.
func (s *InstrumentService) DeleteToday(ctx context.Context, req dto.OperationRequest) (*models.InstrumentRecord, error) {
	patch := models.InstrumentPatch{
		DeletedTodayRecord: models.BoolPtr(true),
		DeletedTime:        models.StringPtr(s.now().Format(models.DateTimeLayout)),
	}
	return s.applyOperation(ctx, req.ManagementNumber, patch)
}

// LookupByCode resolves a decoded QR string as a management number.
func (s *InstrumentService) LookupByCode(ctx context.Context, code string) dto.QRLookupResult {
	record, err := s.findByNumber(ctx, code)
	if err != nil {
		return dto.QRLookupResult{Found: false}
	}
	return dto.QRLookupResult{Found: true, Record: record}
}

// applyOperation locates the record by management number, applies the patch
// through the store, and re-reads the stored result.
func (s *InstrumentService) applyOperation(ctx context.Context, managementNumber string, patch models.InstrumentPatch) (*models.InstrumentRecord, error) {
	record, err := s.findByNumber(ctx, managementNumber)
	if err != nil {
		return nil, err
	}

	// The store resolves by management number when the record carries no id,
	// assigning one as it goes.
	patch.ManagementNumber = models.StringPtr(managementNumber)
	if err := s.store.Update(ctx, record.ID, patch); err != nil {
		return nil, err
	}
	return s.findByNumber(ctx, managementNumber)
}

func (s *InstrumentService) findByNumber(ctx context.Context, managementNumber string) (*models.InstrumentRecord, error) {
	if managementNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "management number is required")
	}
	for _, record := range s.store.GetAll(ctx) {
		if record.ManagementNumber == managementNumber {
			return &record, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no record matches management number")
}
