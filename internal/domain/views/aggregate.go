package views

import (
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/contracts-hub/internal/domain/contracts"
)

var ErrBadDate = errors.New("views: unparseable item date")

// Форматы дат contracts API: RFC3339, наивный timestamp (трактуем как UTC)
// и голая дата.
var dateLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02", true},
}

func parseDate(s string) (time.Time, error) {
	for _, l := range dateLayouts {
		t, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}
		if l.naive {
			t = t.UTC()
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}

// aggregateItems сворачивает позиции группы: самый ранний старт, самый
// поздний конец, сумма машин. Группа из одной позиции — вырожденный случай
// той же свёртки.
func aggregateItems(items []contracts.ContractItem) (AggregatedValues, error) {
	var agg AggregatedValues
	for i, it := range items {
		start, err := parseDate(it.StartDate)
		if err != nil {
			return AggregatedValues{}, err
		}
		end, err := parseDate(it.EndDate)
		if err != nil {
			return AggregatedValues{}, err
		}
		if i == 0 || start.Before(agg.Start) {
			agg.Start = start
		}
		if i == 0 || end.After(agg.End) {
			agg.End = end
		}
		agg.Machines += it.Value
	}
	return agg, nil
}
