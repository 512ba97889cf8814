package domain

// DraftSale is a saved cart that has not touched inventory. Lines are
// snapshots: later product edits do not alter a stored draft.
type DraftSale struct {
	ID        uint        `json:"id"`
	SavedAt   string      `json:"saved_at"`
	UserID    *uint       `json:"user_id,omitempty"`
	Total     float64     `json:"total"`
	Lines     []DraftLine `json:"lines"`
}

type DraftLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}
