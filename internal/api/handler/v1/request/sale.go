package request

import "encoding/json"

// CartEntry keeps the submitted values as raw number tokens; coercion to
// integers (and its error reporting, per entry index) belongs to the
// sale service.
type CartEntry struct {
	ID       json.Number `json:"id"`
	Quantity json.Number `json:"quantity"`
}

type RegisterSaleRequest struct {
	Items []CartEntry `json:"items"`
}

type SaveDraftRequest struct {
	Items []CartEntry `json:"items"`
}
