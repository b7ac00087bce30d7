package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lm1285/project3-instrument-management-sub001/internal/models"
)

type recordSourceStub struct {
	records []models.InstrumentRecord
}

func (s *recordSourceStub) GetAll(_ context.Context) []models.InstrumentRecord {
	return s.records
}

func searchFixture() *recordSourceStub {
	return &recordSourceStub{records: []models.InstrumentRecord{
		{
			ID:               "1",
			ManagementNumber: "BM-2023-001",
			Name:             "精密电子天平",
			Model:            "FA2004",
			MeasurementRange: "0-220g",
			InstrumentStatus: models.StatusAvailable,
		},
		{
			ID:               "2",
			ManagementNumber: "BM-2023-002",
			Name:             "标准砝码",
			InstrumentStatus: models.StatusInUse,
		},
		{
			ID:               "3",
			ManagementNumber: "BM-2023-003",
			Name:             "旧天平",
			InstrumentStatus: models.StatusUsed,
		},
		{
			ID:               "4",
			ManagementNumber: "BM-2023-004",
			Name:             "停用温度计",
			InstrumentStatus: models.StatusStopped,
		},
	}}
}

func TestSearchEmptyQueryReturnsEligibleSet(t *testing.T) {
	svc := NewSearchService(searchFixture(), 0, nil)
	results := svc.Search(context.Background(), "")
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "2", results[1].ID)
}

func TestSearchExcludesUsedAndStoppedUnconditionally(t *testing.T) {
	svc := NewSearchService(searchFixture(), 0, nil)
	for _, query := range []string{"", "天平", "tianping", "BM-2023"} {
		for _, record := range svc.Search(context.Background(), query) {
			assert.NotEqual(t, models.StatusUsed, record.InstrumentStatus, "query %q", query)
			assert.NotEqual(t, models.StatusStopped, record.InstrumentStatus, "query %q", query)
		}
	}
}

func TestSearchSubstring(t *testing.T) {
	svc := NewSearchService(searchFixture(), 0, nil)
	results := svc.Search(context.Background(), "电子")
	require.Len(t, results, 1)
	assert.Equal(t, "BM-2023-001", results[0].ManagementNumber)
}

func TestSearchPhoneticTransliteration(t *testing.T) {
	svc := NewSearchService(searchFixture(), 0, nil)
	results := svc.Search(context.Background(), "dianzi")
	require.Len(t, results, 1)
	assert.Equal(t, "BM-2023-001", results[0].ManagementNumber)
}

func TestSearchPhoneticInitials(t *testing.T) {
	svc := NewSearchService(searchFixture(), 0, nil)
	results := svc.Search(context.Background(), "jmdz")
	require.Len(t, results, 1)
	assert.Equal(t, "BM-2023-001", results[0].ManagementNumber)
}

func TestSearchNumericSubstring(t *testing.T) {
	svc := NewSearchService(searchFixture(), 0, nil)
	results := svc.Search(context.Background(), "220")
	require.Len(t, results, 1)
	assert.Equal(t, "0-220g", results[0].MeasurementRange)
}

func TestSearchCaseInsensitive(t *testing.T) {
	svc := NewSearchService(searchFixture(), 0, nil)
	results := svc.Search(context.Background(), "fa2004")
	require.Len(t, results, 1)
	assert.Equal(t, "FA2004", results[0].Model)
}

func TestSearchNoMatch(t *testing.T) {
	svc := NewSearchService(searchFixture(), 0, nil)
	assert.Empty(t, svc.Search(context.Background(), "不存在的仪器"))
}

func TestSuggestFiltersAndDeduplicates(t *testing.T) {
	source := &recordSourceStub{records: []models.InstrumentRecord{
		{ID: "1", Name: "电子天平", Model: "FA2004", InstrumentStatus: models.StatusAvailable},
		{ID: "2", Name: "电子天平", Model: "FA2104", InstrumentStatus: models.StatusAvailable},
	}}
	svc := NewSearchService(source, 0, nil)

	suggestions := svc.Suggest(context.Background(), "dianzi")
	assert.Equal(t, []string{"电子天平"}, suggestions)
}

func TestSuggestDrawsFromAllStringFields(t *testing.T) {
	source := &recordSourceStub{records: []models.InstrumentRecord{
		{
			ID:               "1",
			Name:             "天平xyz",
			Remarks:          "xyz备注",
			Operator:         "xyz操作员",
			Period:           "12个月",
			InstrumentStatus: models.StatusAvailable,
		},
	}}
	svc := NewSearchService(source, 0, nil)

	suggestions := svc.Suggest(context.Background(), "xyz")
	assert.Contains(t, suggestions, "天平xyz")
	assert.Contains(t, suggestions, "xyz备注")
	assert.Contains(t, suggestions, "xyz操作员")
	assert.NotContains(t, suggestions, "12个月")
}

func TestSuggestHonorsLimit(t *testing.T) {
	records := make([]models.InstrumentRecord, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, models.InstrumentRecord{
			ID:               string(rune('a' + i)),
			Name:             "天平",
			ManagementNumber: "BM-" + string(rune('a'+i)),
			InstrumentStatus: models.StatusAvailable,
		})
	}
	svc := NewSearchService(&recordSourceStub{records: records}, 5, nil)

	suggestions := svc.Suggest(context.Background(), "bm")
	assert.Len(t, suggestions, 5)
}
