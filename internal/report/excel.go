package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/contracts-hub/internal/domain/views"
)

// UserSubscriptionsXLSX выгружает собранный вид в xlsx: строка на запись.
func UserSubscriptionsXLSX(subs []views.UserSubscription) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"id",
		"type",
		"account_id",
		"product_name",
		"marketplace",
		"start_date",
		"end_date",
		"number_of_machines",
		"machine_type",
		"price",
		"currency",
		"contract_id",
		"subscription_id",
		"listing_id",
		"period",
		"renewal_id",
		"statuses",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, s := range subs {
		excelRow := []interface{}{
			s.ID,
			s.Type.String(),
			s.AccountID,
			s.ProductName,
			s.Marketplace,
			s.StartDate.Format(time.RFC3339),
			s.EndDate.Format(time.RFC3339),
			s.NumberOfMachines,
			s.MachineType,
			s.Price.String(),
			s.Currency,
			s.ContractID,
			s.SubscriptionID,
			s.ListingID,
			string(s.Period),
			s.RenewalID,
			strings.Join(s.Statuses, ", "),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("cell for row %d: %w", row, err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
