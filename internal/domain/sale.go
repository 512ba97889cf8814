package domain

// CartEntry is one line of a submitted cart, still in raw token form.
// Values arrive loosely typed from the client and are only coerced to
// integers during validation.
type CartEntry struct {
	ProductID string
	Quantity  string
}

// CartItem is a cart entry after coercion and validation.
type CartItem struct {
	ProductID uint
	Quantity  int
}

// Sale is an immutable sale header. UserID is nil for anonymous sales;
// Username resolves to "-" when the actor is unset or since deleted.
type Sale struct {
	ID         uint    `json:"id"`
	Reference  string  `json:"reference"`
	OccurredAt string  `json:"occurred_at"`
	Total      float64 `json:"total"`
	UserID     *uint   `json:"user_id,omitempty"`
	Username   string  `json:"username"`
}

type SaleLine struct {
	ID        uint    `json:"id"`
	SaleID    uint    `json:"sale_id"`
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// SaleLineDetail is a sale line with the product name resolved, as
// consumed by listings and the reporting functions.
type SaleLineDetail struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// SaleRecord is the flat shape the reporting functions operate on.
// Date carries the persisted "YYYY-MM-DD HH:MM:SS" string; only the
// first ten characters are significant for date math.
type SaleRecord struct {
	ID       uint    `json:"id"`
	Date     string  `json:"date"`
	Total    float64 `json:"total"`
	Username string  `json:"username"`
}
