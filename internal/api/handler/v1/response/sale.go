package response

import "github.com/puntoventa/pos-api/internal/domain"

type RegisterSaleResponse struct {
	Message string      `json:"message"`
	Sale    domain.Sale `json:"sale"`
}

type SaveDraftResponse struct {
	Message string           `json:"message"`
	Draft   domain.DraftSale `json:"draft"`
}

// SalesPageResponse is one page of a filtered sale listing.
type SalesPageResponse struct {
	Sales      []domain.SaleRecord `json:"sales"`
	Usernames  []string            `json:"usernames"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalItems int                 `json:"total_items"`
	TotalPages int                 `json:"total_pages"`
}

type SummaryResponse struct {
	Overall domain.OverallStats `json:"overall"`
	Today   domain.DayStats     `json:"today"`
}
