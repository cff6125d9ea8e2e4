package verdict

import "time"

// ContractVersion identifies the verdict schema shared with oracle clients.
const ContractVersion = "v0.1.0"

// Result is the wire-level verdict for a single invoice verification.
// Amount echoes the stored invoice amount as a decimal string and is
// omitted when no record was found.
type Result struct {
	IsValid   bool      `json:"isValid"`
	InvoiceID string    `json:"invoiceId"`
	Amount    string    `json:"amount,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// BulkResult aggregates per-item verdicts. Results preserve request order.
type BulkResult struct {
	Results    []Result `json:"results"`
	Total      int      `json:"total"`
	ValidCount int      `json:"validCount"`
}

// Invoice is the read-model returned by the lookup endpoint.
type Invoice struct {
	InvoiceID string     `json:"invoiceId"`
	Amount    string     `json:"amount"`
	Status    string     `json:"status"`
	Supplier  string     `json:"supplier"`
	Currency  string     `json:"currency,omitempty"`
	Category  string     `json:"category,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
