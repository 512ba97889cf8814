package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puntoventa/pos-api/internal/domain"
)

func noDetails(uint) []domain.SaleLineDetail { return nil }

func TestFilterSales(t *testing.T) {
	sales := []domain.SaleRecord{
		{ID: 1, Date: "2026-01-05 10:00:00", Total: 100, Username: "alice"},
		{ID: 2, Date: "2026-01-10 15:30:00", Total: 250, Username: "bob"},
		{ID: 3, Date: "2026-02-01 09:00:00", Total: 50, Username: "alice"},
	}

	details := func(saleID uint) []domain.SaleLineDetail {
		if saleID == 2 {
			return []domain.SaleLineDetail{{ID: 2, Name: "Coca Cola", Quantity: 1, Subtotal: 250}}
		}

		return nil
	}

	t.Run("no filter returns everything", func(t *testing.T) {
		got := FilterSales(sales, noDetails, domain.SaleFilter{})
		assert.Len(t, got, 3)
	})

	t.Run("query matches username case-insensitively", func(t *testing.T) {
		got := FilterSales(sales, noDetails, domain.SaleFilter{Query: "ALICE"})
		require.Len(t, got, 2)
		assert.Equal(t, uint(1), got[0].ID)
		assert.Equal(t, uint(3), got[1].ID)
	})

	t.Run("query matches product name through details", func(t *testing.T) {
		got := FilterSales(sales, details, domain.SaleFilter{Query: "cola"})
		require.Len(t, got, 1)
		assert.Equal(t, uint(2), got[0].ID)
	})

	t.Run("date range is inclusive on both ends", func(t *testing.T) {
		got := FilterSales(sales, noDetails, domain.SaleFilter{
			DateFrom: "2026-01-10",
			DateTo:   "2026-02-01",
		})
		require.Len(t, got, 2)
		assert.Equal(t, uint(2), got[0].ID)
		assert.Equal(t, uint(3), got[1].ID)
	})

	t.Run("min total keeps sales at or above the bound", func(t *testing.T) {
		got := FilterSales(sales, noDetails, domain.SaleFilter{MinTotal: "100"})
		assert.Len(t, got, 2)
	})

	t.Run("unparseable date and number apply no constraint", func(t *testing.T) {
		got := FilterSales(sales, noDetails, domain.SaleFilter{
			DateFrom: "not-a-date",
			MinTotal: "abc",
		})
		assert.Len(t, got, 3)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		got := FilterSales(sales, noDetails, domain.SaleFilter{
			User:     "alice",
			MinTotal: "60",
		})
		require.Len(t, got, 1)
		assert.Equal(t, uint(1), got[0].ID)
	})
}

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i + 1
	}

	t.Run("middle page", func(t *testing.T) {
		page, p, pp, total, pages := Paginate(items, 2, 10)
		assert.Equal(t, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, page)
		assert.Equal(t, 2, p)
		assert.Equal(t, 10, pp)
		assert.Equal(t, 25, total)
		assert.Equal(t, 3, pages)
	})

	t.Run("short last page", func(t *testing.T) {
		page, _, _, _, _ := Paginate(items, 3, 10)
		assert.Equal(t, []int{21, 22, 23, 24, 25}, page)
	})

	t.Run("page past the end clamps to the last page", func(t *testing.T) {
		page, p, _, _, pages := Paginate(items, 99, 10)
		assert.Equal(t, []int{21, 22, 23, 24, 25}, page)
		assert.Equal(t, 3, p)
		assert.Equal(t, 3, pages)
	})

	t.Run("non-positive input normalizes to defaults", func(t *testing.T) {
		page, p, pp, _, _ := Paginate(items, 0, -5)
		assert.Equal(t, items[:10], page)
		assert.Equal(t, 1, p)
		assert.Equal(t, 10, pp)
	})

	t.Run("empty list reports page 1 of 1", func(t *testing.T) {
		page, p, _, total, pages := Paginate([]int{}, 5, 10)
		assert.Empty(t, page)
		assert.Equal(t, 1, p)
		assert.Equal(t, 0, total)
		assert.Equal(t, 1, pages)
	})
}

func TestDayStats(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	sales := []domain.SaleRecord{
		{ID: 1, Date: "2026-03-14 09:00:00", Total: 100},
		{ID: 2, Date: "2026-03-14 17:45:00", Total: 300},
		{ID: 3, Date: "2026-03-15 10:00:00", Total: 999},
	}

	stats := DayStats(sales, day)

	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 400.0, stats.Total)
	assert.Equal(t, 300.0, stats.Largest)
	assert.Equal(t, 200.0, stats.Average)
}

func TestDayStats_NoSales(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

	stats := DayStats(nil, day)

	assert.Equal(t, domain.DayStats{}, stats)
}

func TestOverallStats(t *testing.T) {
	sales := []domain.SaleRecord{
		{ID: 1, Date: "2026-03-14 09:00:00", Total: 100},
		{ID: 2, Date: "2026-03-14 17:45:00", Total: 300},
		{ID: 3, Date: "2026-03-15 10:00:00", Total: 50},
	}

	stats := OverallStats(sales)

	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 450.0, stats.Total)
	assert.Equal(t, 150.0, stats.Average)
	assert.Equal(t, 300.0, stats.Largest)
	assert.Equal(t, 50.0, stats.Smallest)
	assert.Equal(t, 2, stats.DaysWithSales)
}

func TestOverallStats_Empty(t *testing.T) {
	assert.Equal(t, domain.OverallStats{}, OverallStats(nil))
}

func TestSalesByMonth_ZeroFillsEmptyBuckets(t *testing.T) {
	now := time.Now()
	thisMonth := now.Format("2006-01")
	sales := []domain.SaleRecord{
		{ID: 1, Date: now.Format("2006-01-02 15:04:05"), Total: 120},
		{ID: 2, Date: now.Format("2006-01-02 15:04:05"), Total: 80},
	}

	buckets := SalesByMonth(sales, 6)

	require.Len(t, buckets, 6)
	last := buckets[5]
	assert.Equal(t, thisMonth, last.Month)
	assert.Equal(t, 2, last.Count)
	assert.Equal(t, 200.0, last.Total)
	for _, b := range buckets[:5] {
		assert.Zero(t, b.Count, "bucket %s", b.Month)
		assert.Zero(t, b.Total, "bucket %s", b.Month)
	}
}

func TestSalesByMonth_BucketsAreOldestFirst(t *testing.T) {
	buckets := SalesByMonth(nil, 3)

	require.Len(t, buckets, 3)
	for i := 1; i < len(buckets); i++ {
		assert.Less(t, buckets[i-1].Month, buckets[i].Month)
	}
}

func TestSalesByWeek_ZeroFillsEmptyBuckets(t *testing.T) {
	now := time.Now()
	year, week := now.ISOWeek()
	thisWeek := fmt.Sprintf("%d-W%02d", year, week)
	sales := []domain.SaleRecord{
		{ID: 1, Date: now.Format("2006-01-02 15:04:05"), Total: 75},
	}

	buckets := SalesByWeek(sales, 4)

	require.Len(t, buckets, 4)
	last := buckets[3]
	assert.Equal(t, thisWeek, last.Week)
	assert.Equal(t, 1, last.Count)
	assert.Equal(t, 75.0, last.Total)
	for _, b := range buckets[:3] {
		assert.Zero(t, b.Count, "bucket %s", b.Week)
	}
}

func TestTopProducts(t *testing.T) {
	sales := []domain.SaleRecord{{ID: 1}, {ID: 2}}
	details := func(saleID uint) []domain.SaleLineDetail {
		switch saleID {
		case 1:
			return []domain.SaleLineDetail{
				{Name: "Coffee", Quantity: 2, Subtotal: 7},
				{Name: "Bread", Quantity: 5, Subtotal: 10},
			}
		case 2:
			return []domain.SaleLineDetail{
				{Name: "Coffee", Quantity: 4, Subtotal: 14},
			}
		default:
			return nil
		}
	}

	stats := TopProducts(sales, details, 10)

	require.Len(t, stats, 2)
	assert.Equal(t, "Coffee", stats[0].Name)
	assert.Equal(t, 6, stats[0].QuantitySold)
	assert.Equal(t, 21.0, stats[0].Revenue)
	assert.InDelta(t, 3.5, stats[0].AverageUnitPrice, 1e-9)
	assert.Equal(t, "Bread", stats[1].Name)
	assert.Equal(t, 5, stats[1].QuantitySold)
}

func TestTopProducts_LimitsToTopN(t *testing.T) {
	sales := []domain.SaleRecord{{ID: 1}}
	details := func(uint) []domain.SaleLineDetail {
		return []domain.SaleLineDetail{
			{Name: "A", Quantity: 3, Subtotal: 3},
			{Name: "B", Quantity: 2, Subtotal: 2},
			{Name: "C", Quantity: 1, Subtotal: 1},
		}
	}

	stats := TopProducts(sales, details, 2)

	require.Len(t, stats, 2)
	assert.Equal(t, "A", stats[0].Name)
	assert.Equal(t, "B", stats[1].Name)
}

func TestUniqueUsernames(t *testing.T) {
	sales := []domain.SaleRecord{
		{Username: "bob"},
		{Username: "alice"},
		{Username: "bob"},
		{Username: ""},
	}

	assert.Equal(t, []string{"alice", "bob"}, UniqueUsernames(sales))
}
