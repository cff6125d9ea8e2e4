package handler

import (
	"veripay/contracts/verdict"
	"veripay/internal/invoice/models"
	"veripay/internal/verify"
)

// toWireResult maps an engine verdict onto the public result contract.
// Amounts are rendered as decimal strings to avoid float drift on the wire.
func toWireResult(v verify.Verdict) verdict.Result {
	res := verdict.Result{
		IsValid:   v.Valid,
		InvoiceID: string(v.InvoiceID),
		Message:   v.Message,
		Timestamp: v.EvaluatedAt.UTC(),
	}
	if v.Amount != nil {
		res.Amount = v.Amount.String()
	}
	return res
}

func toWireBulk(b *verify.BulkVerdict) verdict.BulkResult {
	results := make([]verdict.Result, 0, len(b.Results))
	for _, v := range b.Results {
		results = append(results, toWireResult(v))
	}
	return verdict.BulkResult{
		Results:    results,
		Total:      b.Total,
		ValidCount: b.ValidCount,
	}
}

// toWireInvoice maps a stored record onto the public invoice contract.
func toWireInvoice(rec *models.Record) verdict.Invoice {
	inv := verdict.Invoice{
		InvoiceID: string(rec.ID),
		Amount:    rec.Amount.String(),
		Status:    string(rec.Status),
		Supplier:  rec.Supplier,
		Currency:  rec.Currency,
		Category:  rec.Category,
	}
	if rec.CreatedAt != nil {
		t := rec.CreatedAt.UTC()
		inv.CreatedAt = &t
	}
	return inv
}

// ListInvoicesResponse is the envelope for the operator listing endpoint.
type ListInvoicesResponse struct {
	Total    int               `json:"total"`
	Invoices []verdict.Invoice `json:"invoices"`
}

func toWireList(records []models.Record) ListInvoicesResponse {
	resp := ListInvoicesResponse{
		Total:    len(records),
		Invoices: make([]verdict.Invoice, 0, len(records)),
	}
	for i := range records {
		resp.Invoices = append(resp.Invoices, toWireInvoice(&records[i]))
	}
	return resp
}
