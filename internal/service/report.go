package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/puntoventa/pos-api/internal/domain"
)

// Reporting helpers: pure functions over already-materialized sale
// records. Nothing here touches storage or mutates its input, and bad
// filter input never raises — an unparseable date or number simply
// applies no constraint.

const dateLayout = "2006-01-02"

// DetailFunc resolves the line details of one sale, typically backed by
// SaleService.GetSaleLines.
type DetailFunc func(saleID uint) []domain.SaleLineDetail

// ToRecords flattens sales into the shape the reporting functions consume.
func ToRecords(sales []domain.Sale) []domain.SaleRecord {
	records := make([]domain.SaleRecord, len(sales))
	for i, s := range sales {
		records[i] = domain.SaleRecord{
			ID:       s.ID,
			Date:     s.OccurredAt,
			Total:    s.Total,
			Username: s.Username,
		}
	}

	return records
}

// FilterSales applies the optional predicates of filter, ANDed together.
// The free-text query matches the sale id, the username, or any line
// item's product name, case-insensitively.
func FilterSales(sales []domain.SaleRecord, detailFn DetailFunc, filter domain.SaleFilter) []domain.SaleRecord {
	filtered := sales

	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		var kept []domain.SaleRecord
		for _, s := range filtered {
			if strings.Contains(strconv.FormatUint(uint64(s.ID), 10), q) ||
				strings.Contains(strings.ToLower(s.Username), q) ||
				anyLineMatches(detailFn(s.ID), q) {
				kept = append(kept, s)
			}
		}
		filtered = kept
	}

	if from, err := time.ParseInLocation(dateLayout, filter.DateFrom, time.Local); err == nil {
		var kept []domain.SaleRecord
		for _, s := range filtered {
			if d, ok := saleDate(s.Date); ok && !d.Before(from) {
				kept = append(kept, s)
			}
		}
		filtered = kept
	}

	if to, err := time.ParseInLocation(dateLayout, filter.DateTo, time.Local); err == nil {
		var kept []domain.SaleRecord
		for _, s := range filtered {
			if d, ok := saleDate(s.Date); ok && !d.After(to) {
				kept = append(kept, s)
			}
		}
		filtered = kept
	}

	if user := strings.ToLower(strings.TrimSpace(filter.User)); user != "" {
		var kept []domain.SaleRecord
		for _, s := range filtered {
			if strings.Contains(strings.ToLower(s.Username), user) {
				kept = append(kept, s)
			}
		}
		filtered = kept
	}

	if min, err := strconv.ParseFloat(strings.TrimSpace(filter.MinTotal), 64); err == nil && filter.MinTotal != "" {
		var kept []domain.SaleRecord
		for _, s := range filtered {
			if s.Total >= min {
				kept = append(kept, s)
			}
		}
		filtered = kept
	}

	return filtered
}

// Paginate slices items for one page. Out-of-range input is normalized:
// page clamps to [1, totalPages], perPage falls back to 10, and an empty
// list still reports page 1 of 1.
func Paginate[T any](items []T, page, perPage int) (slice []T, normPage, normPerPage, totalItems, totalPages int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}

	totalItems = len(items)
	totalPages = (totalItems + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return items[start:end], page, perPage, totalItems, totalPages
}

// DayStats summarizes the sales of one day. A zero day means today.
func DayStats(sales []domain.SaleRecord, day time.Time) domain.DayStats {
	if day.IsZero() {
		day = time.Now()
	}
	key := day.Format(dateLayout)

	var stats domain.DayStats
	for _, s := range sales {
		if len(s.Date) < len(dateLayout) || s.Date[:len(dateLayout)] != key {
			continue
		}
		stats.Count++
		stats.Total += s.Total
		if s.Total > stats.Largest {
			stats.Largest = s.Total
		}
	}
	if stats.Count > 0 {
		stats.Average = stats.Total / float64(stats.Count)
	}

	return stats
}

// OverallStats summarizes the whole set. The empty input yields the
// explicit zero struct rather than dividing by zero.
func OverallStats(sales []domain.SaleRecord) domain.OverallStats {
	if len(sales) == 0 {
		return domain.OverallStats{}
	}

	stats := domain.OverallStats{
		Count:    len(sales),
		Smallest: sales[0].Total,
		Largest:  sales[0].Total,
	}

	days := make(map[string]struct{})
	for _, s := range sales {
		stats.Total += s.Total
		if s.Total > stats.Largest {
			stats.Largest = s.Total
		}
		if s.Total < stats.Smallest {
			stats.Smallest = s.Total
		}
		if d, ok := saleDate(s.Date); ok {
			days[d.Format(dateLayout)] = struct{}{}
		}
	}

	stats.Average = stats.Total / float64(stats.Count)
	stats.DaysWithSales = len(days)

	return stats
}

// SalesByMonth buckets sales into the trailing monthsBack calendar
// months, zero-filling empty buckets so chart series always carry exactly
// monthsBack points, oldest first.
func SalesByMonth(sales []domain.SaleRecord, monthsBack int) []domain.MonthBucket {
	buckets := make([]domain.MonthBucket, 0, monthsBack)
	if monthsBack <= 0 {
		return buckets
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).
		AddDate(0, -(monthsBack - 1), 0)

	byMonth := make(map[string]*domain.MonthBucket)
	for _, s := range sales {
		d, ok := saleDate(s.Date)
		if !ok || d.Before(start) {
			continue
		}
		key := d.Format("2006-01")
		b, ok := byMonth[key]
		if !ok {
			b = &domain.MonthBucket{Month: key}
			byMonth[key] = b
		}
		b.Count++
		b.Total += s.Total
	}

	for i := 0; i < monthsBack; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		if b, ok := byMonth[key]; ok {
			buckets = append(buckets, *b)
		} else {
			buckets = append(buckets, domain.MonthBucket{Month: key})
		}
	}

	return buckets
}

// SalesByWeek buckets sales into the trailing weeksBack ISO weeks,
// zero-filled, oldest first. Weeks start on Monday.
func SalesByWeek(sales []domain.SaleRecord, weeksBack int) []domain.WeekBucket {
	buckets := make([]domain.WeekBucket, 0, weeksBack)
	if weeksBack <= 0 {
		return buckets
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).
		AddDate(0, 0, -7*(weeksBack-1))
	// Snap back to Monday.
	weekday := int(start.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start = start.AddDate(0, 0, -(weekday - 1))

	byWeek := make(map[string]*domain.WeekBucket)
	for _, s := range sales {
		d, ok := saleDate(s.Date)
		if !ok || d.Before(start) {
			continue
		}
		key := isoWeekKey(d)
		b, ok := byWeek[key]
		if !ok {
			b = &domain.WeekBucket{Week: key}
			byWeek[key] = b
		}
		b.Count++
		b.Total += s.Total
	}

	for i := 0; i < weeksBack; i++ {
		key := isoWeekKey(start.AddDate(0, 0, 7*i))
		if b, ok := byWeek[key]; ok {
			buckets = append(buckets, *b)
		} else {
			buckets = append(buckets, domain.WeekBucket{Week: key})
		}
	}

	return buckets
}

// TopProducts accumulates quantity sold and revenue per product name
// across all supplied sales' line details and returns the topN by
// quantity, with the computed average unit price.
func TopProducts(sales []domain.SaleRecord, detailFn DetailFunc, topN int) []domain.ProductStat {
	stats := make([]domain.ProductStat, 0)
	index := make(map[string]int)

	for _, s := range sales {
		for _, line := range detailFn(s.ID) {
			name := line.Name
			if name == "" {
				name = "-"
			}
			i, ok := index[name]
			if !ok {
				i = len(stats)
				index[name] = i
				stats = append(stats, domain.ProductStat{Name: name})
			}
			stats[i].QuantitySold += line.Quantity
			stats[i].Revenue += line.Subtotal
		}
	}

	for i := range stats {
		if stats[i].QuantitySold > 0 {
			stats[i].AverageUnitPrice = stats[i].Revenue / float64(stats[i].QuantitySold)
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].QuantitySold > stats[j].QuantitySold
	})

	if topN < 0 {
		topN = 0
	}
	if topN < len(stats) {
		stats = stats[:topN]
	}

	return stats
}

// UniqueUsernames returns the sorted distinct usernames present in sales.
func UniqueUsernames(sales []domain.SaleRecord) []string {
	seen := make(map[string]struct{})
	for _, s := range sales {
		if s.Username != "" {
			seen[s.Username] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func anyLineMatches(lines []domain.SaleLineDetail, q string) bool {
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line.Name), q) {
			return true
		}
	}

	return false
}

// saleDate parses the date portion of a persisted timestamp. The second
// return is false for values too short or unparseable.
func saleDate(value string) (time.Time, bool) {
	if len(value) < len(dateLayout) {
		return time.Time{}, false
	}

	d, err := time.ParseInLocation(dateLayout, value[:len(dateLayout)], time.Local)
	if err != nil {
		return time.Time{}, false
	}

	return d, true
}

func isoWeekKey(d time.Time) string {
	year, week := d.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
