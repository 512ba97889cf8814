package domain

// SaleFilter carries the optional predicates applied to a sale listing.
// Every field is a raw query-string value; blank means "no constraint",
// and unparseable date or number values are ignored rather than rejected.
type SaleFilter struct {
	Query    string
	DateFrom string
	DateTo   string
	User     string
	MinTotal string
}

// DayStats summarizes the sales of a single day.
type DayStats struct {
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
	Largest float64 `json:"largest"`
	Average float64 `json:"average"`
}

// OverallStats summarizes a whole (filtered) sale set. All fields are
// zero for an empty input.
type OverallStats struct {
	Count         int     `json:"count"`
	Total         float64 `json:"total"`
	Average       float64 `json:"average"`
	Largest       float64 `json:"largest"`
	Smallest      float64 `json:"smallest"`
	DaysWithSales int     `json:"days_with_sales"`
}

// MonthBucket is one point of the trailing-months chart series.
type MonthBucket struct {
	Month string  `json:"month"` // YYYY-MM
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// WeekBucket is one point of the trailing-weeks chart series.
type WeekBucket struct {
	Week  string  `json:"week"` // YYYY-Www (ISO week)
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// ProductStat is one row of the top-products report.
type ProductStat struct {
	Name             string  `json:"name"`
	QuantitySold     int     `json:"quantity_sold"`
	Revenue          float64 `json:"revenue"`
	AverageUnitPrice float64 `json:"average_unit_price"`
}
