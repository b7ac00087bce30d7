package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lm1285/project3-instrument-management-sub001/internal/models"
	"github.com/lm1285/project3-instrument-management-sub001/internal/repository"
)

func validRow() map[string]string {
	return map[string]string{
		"器具名称": "精密电子天平",
		"型号":   "FA2004",
		"管理编号": "BM-2023-001",
		"出厂编号": "F-88341",
		"生产厂家": "上海天平仪器厂",
	}
}

func newImportFixture() (*ImportService, *repository.InstrumentStore) {
	store := repository.NewInstrumentStore(&memorySlot{}, 0, nil)
	return NewImportService(store, nil, nil), store
}

func TestImportAcceptsChineseHeaders(t *testing.T) {
	svc, store := newImportFixture()

	report := svc.ImportRows(context.Background(), []map[string]string{validRow()})
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Imported)
	assert.Zero(t, report.Failed)
	assert.NotEmpty(t, report.ID)

	records := store.GetAll(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, "精密电子天平", records[0].Name)
	assert.Equal(t, "BM-2023-001", records[0].ManagementNumber)
	assert.NotEmpty(t, records[0].ID)
}

func TestImportColumnSynonyms(t *testing.T) {
	svc, store := newImportFixture()

	row := validRow()
	row["科室"] = "热工"
	report := svc.ImportRows(context.Background(), []map[string]string{row})
	require.Equal(t, 1, report.Imported)
	assert.Equal(t, models.DepartmentThermal, store.GetAll(context.Background())[0].Department)

	// 部门 maps to the same field as 科室.
	row2 := validRow()
	row2["管理编号"] = "BM-2023-002"
	row2["部门"] = "理化"
	report = svc.ImportRows(context.Background(), []map[string]string{row2})
	require.Equal(t, 1, report.Imported)
	assert.Equal(t, models.DepartmentPhysical, store.GetAll(context.Background())[1].Department)
}

func TestImportTranslatesEnums(t *testing.T) {
	svc, store := newImportFixture()

	row := validRow()
	row["检定状态"] = "检定"
	row["仪器状态"] = "在用"
	row["器具类型"] = "标准器"

	report := svc.ImportRows(context.Background(), []map[string]string{row})
	require.Equal(t, 1, report.Imported)

	record := store.GetAll(context.Background())[0]
	assert.Equal(t, models.CalibrationVerification, record.CalibrationStatus)
	assert.Equal(t, models.StatusInUse, record.InstrumentStatus)
	assert.Equal(t, models.TypeStandard, record.Type)
}

func TestImportParsesMultipleDateFormats(t *testing.T) {
	svc, store := newImportFixture()

	rows := []map[string]string{}
	for i, date := range []string{"2023-06-01", "2023/06/01", "2023.06.01", "20230601"} {
		row := validRow()
		row["管理编号"] = validRow()["管理编号"] + string(rune('a'+i))
		row["检定日期"] = date
		rows = append(rows, row)
	}

	report := svc.ImportRows(context.Background(), rows)
	require.Equal(t, 4, report.Imported)
	for _, record := range store.GetAll(context.Background()) {
		assert.Equal(t, "2023-06-01", record.CalibrationDate)
	}
}

func TestImportRejectsRowMissingRequiredField(t *testing.T) {
	svc, store := newImportFixture()

	incomplete := validRow()
	delete(incomplete, "出厂编号")

	report := svc.ImportRows(context.Background(), []map[string]string{incomplete, validRow()})
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 1, report.Errors[0].Row)
	assert.Contains(t, report.Errors[0].Message, "factoryNumber")

	// The rejected row contributed nothing; no partial-field import.
	assert.Len(t, store.GetAll(context.Background()), 1)
}

func TestImportEmptyRows(t *testing.T) {
	svc, _ := newImportFixture()
	report := svc.ImportRows(context.Background(), nil)
	assert.Zero(t, report.Total)
	assert.Zero(t, report.Imported)
	assert.Zero(t, report.Failed)
}
