package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/contracts-hub/internal/domain/catalog"
	"github.com/Spok95/contracts-hub/internal/domain/views"
)

func TestUserSubscriptionsXLSX(t *testing.T) {
	subs := []views.UserSubscription{{
		ID:               "acc-1||yearly||c-1||sub-1",
		Type:             views.TypeShop(catalog.PeriodYearly),
		AccountID:        "acc-1",
		ProductName:      "UA Infrastructure Standard",
		Marketplace:      "canonical-ua",
		StartDate:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		NumberOfMachines: 5,
		MachineType:      "physical",
		Price:            decimal.NewFromInt(125),
		Currency:         "USD",
		ContractID:       "c-1",
		SubscriptionID:   "sub-1",
		ListingID:        "L2",
		Period:           catalog.PeriodYearly,
		Statuses:         []string{"active", "auto-renewing"},
	}}

	buf, err := UserSubscriptionsXLSX(subs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	head, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "id", head)

	id, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "acc-1||yearly||c-1||sub-1", id)

	typ, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "yearly", typ)

	machines, err := f.GetCellValue(sheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "5", machines)

	statuses, err := f.GetCellValue(sheet, "Q2")
	require.NoError(t, err)
	assert.Equal(t, "active, auto-renewing", statuses)
}
