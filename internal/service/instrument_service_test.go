package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lm1285/project3-instrument-management-sub001/internal/dto"
	"github.com/lm1285/project3-instrument-management-sub001/internal/models"
	"github.com/lm1285/project3-instrument-management-sub001/internal/repository"
	appErrors "github.com/lm1285/project3-instrument-management-sub001/pkg/errors"
)

type memorySlot struct {
	payload  []byte
	occupied bool
}

func (s *memorySlot) Load(_ context.Context) ([]byte, bool, error) {
	if !s.occupied {
		return nil, false, nil
	}
	return s.payload, true, nil
}

func (s *memorySlot) Store(_ context.Context, payload []byte) error {
	s.payload = append([]byte(nil), payload...)
	s.occupied = true
	return nil
}

var operationNow = time.Date(2024, 3, 15, 14, 45, 0, 0, time.Local)

func newInstrumentFixture(t *testing.T) (*InstrumentService, *repository.InstrumentStore) {
	t.Helper()
	store := repository.NewInstrumentStore(&memorySlot{}, 0, nil)
	svc := NewInstrumentService(store, validator.New(), nil).WithClock(func() time.Time {
		return operationNow
	})

	_, err := svc.Create(context.Background(), models.InstrumentPatch{
		ManagementNumber: models.StringPtr("BM-2023-001"),
		Name:             models.StringPtr("精密电子天平"),
		InstrumentStatus: models.StatusPtr(models.StatusAvailable),
	})
	require.NoError(t, err)
	return svc, store
}

func TestCheckOutStampsRecord(t *testing.T) {
	svc, _ := newInstrumentFixture(t)

	record, err := svc.CheckOut(context.Background(), dto.OperationRequest{
		ManagementNumber: "BM-2023-001",
		Operator:         "张工",
	})
	require.NoError(t, err)
	assert.Equal(t, models.InOutOut, record.InOutStatus)
	assert.Equal(t, "张工", record.Operator)
	assert.Equal(t, "2024-03-15 14:45:00", record.OutboundTime)
	assert.Equal(t, models.EmptyTimeMarker, record.InboundTime)
	assert.Equal(t, "2024-03-15", record.OperationDate)
}

func TestCheckInStampsRecord(t *testing.T) {
	svc, _ := newInstrumentFixture(t)
	ctx := context.Background()

	_, err := svc.CheckOut(ctx, dto.OperationRequest{ManagementNumber: "BM-2023-001", Operator: "张工"})
	require.NoError(t, err)

	record, err := svc.CheckIn(ctx, dto.OperationRequest{ManagementNumber: "BM-2023-001", Operator: "李工"})
	require.NoError(t, err)
	assert.Equal(t, models.InOutIn, record.InOutStatus)
	assert.Equal(t, "李工", record.Operator)
	assert.Equal(t, "2024-03-15 14:45:00", record.InboundTime)
	// Check-out's outbound stamp survives the check-in patch.
	assert.Equal(t, "2024-03-15 14:45:00", record.OutboundTime)
}

func TestMarkUsedExcludesFromSearch(t *testing.T) {
	svc, store := newInstrumentFixture(t)
	ctx := context.Background()

	record, err := svc.MarkUsed(ctx, dto.OperationRequest{ManagementNumber: "BM-2023-001", Operator: "张工"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUsed, record.InstrumentStatus)
	assert.Equal(t, "2024-03-15 14:45:00", record.UsedTime)

	search := NewSearchService(store, 0, nil)
	assert.Empty(t, search.Search(ctx, ""))
}

func TestDelaySetsVisibilityWindow(t *testing.T) {
	svc, _ := newInstrumentFixture(t)

	record, err := svc.Delay(context.Background(), dto.DelayRequest{
		ManagementNumber: "BM-2023-001",
		DelayDays:        3,
		Operator:         "张工",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, record.DelayDays)
	assert.Equal(t, "2024-03-18", record.ExpectedReturnDate)
	assert.Equal(t, "2024-03-18", record.DisplayUntil)
	assert.Equal(t, "张工", record.DelayOperator)
	assert.Equal(t, "2024-03-15 14:45:00", record.DelayTime)
	assert.False(t, record.DeletedTodayRecord)
}

func TestDelayRejectsNonPositiveDays(t *testing.T) {
	svc, _ := newInstrumentFixture(t)

	for _, days := range []int{0, -2} {
		_, err := svc.Delay(context.Background(), dto.DelayRequest{
			ManagementNumber: "BM-2023-001",
			DelayDays:        days,
		})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestDeleteTodayHidesWithoutRemoving(t *testing.T) {
	svc, store := newInstrumentFixture(t)
	ctx := context.Background()

	record, err := svc.DeleteToday(ctx, dto.OperationRequest{ManagementNumber: "BM-2023-001"})
	require.NoError(t, err)
	assert.True(t, record.DeletedTodayRecord)
	assert.Equal(t, "2024-03-15 14:45:00", record.DeletedTime)

	// Still present in the store.
	assert.Len(t, store.GetAll(ctx), 1)
}

func TestOperationUnknownNumberFails(t *testing.T) {
	svc, _ := newInstrumentFixture(t)

	_, err := svc.CheckOut(context.Background(), dto.OperationRequest{ManagementNumber: "NOPE"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLookupByCode(t *testing.T) {
	svc, _ := newInstrumentFixture(t)
	ctx := context.Background()

	found := svc.LookupByCode(ctx, "BM-2023-001")
	require.True(t, found.Found)
	assert.Equal(t, "精密电子天平", found.Record.Name)

	missing := svc.LookupByCode(ctx, "QR-GARBAGE")
	assert.False(t, missing.Found)
	assert.Nil(t, missing.Record)
}

func TestUpdateMergePatchKeepsUnspecifiedFields(t *testing.T) {
	svc, store := newInstrumentFixture(t)
	ctx := context.Background()

	records := store.GetAll(ctx)
	require.Len(t, records, 1)
	id := records[0].ID

	updated, err := svc.Update(ctx, id, models.InstrumentPatch{
		StorageLocation: models.StringPtr("3号柜"),
	})
	require.NoError(t, err)
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, "精密电子天平", updated.Name)
	assert.Equal(t, "3号柜", updated.StorageLocation)
}
