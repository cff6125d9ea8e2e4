// Command oracle-sim plays the role of a payment oracle: it calls a running
// veripay server's verification endpoints and prints the verdicts it gets
// back. It seeds no state of its own; point it at a server and an API token.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"veripay/contracts/verdict"
)

type verifyPayload struct {
	InvoiceID string `json:"invoiceId"`
	Amount    string `json:"amount,omitempty"`
}

type bulkPayload struct {
	Items []verifyPayload `json:"items"`
}

type errorEnvelope struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func main() {
	baseURL := flag.String("base-url", getenv("VERIPAY_URL", "http://localhost:8080"), "Server base URL")
	token := flag.String("token", os.Getenv("API_TOKEN"), "API bearer token")
	invoiceID := flag.String("invoice", "12345", "Invoice id to verify and look up")
	amount := flag.String("amount", "", "Claimed amount (optional)")
	flag.Parse()

	if *token == "" {
		log.Fatal("an API token is required: pass -token or set API_TOKEN")
	}

	c := &client{
		baseURL: *baseURL,
		token:   *token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}

	fmt.Printf("oracle-sim against %s (contract %s)\n\n", c.baseURL, verdict.ContractVersion)

	fmt.Printf("1. Single verification of %q\n", *invoiceID)
	result, err := c.verify(verifyPayload{InvoiceID: *invoiceID, Amount: *amount})
	if err != nil {
		log.Fatalf("verify failed: %v", err)
	}
	printResult(*result)

	fmt.Println("\n2. Bulk verification (known id, padded id, unknown id)")
	bulk, err := c.verifyBulk(bulkPayload{Items: []verifyPayload{
		{InvoiceID: *invoiceID},
		{InvoiceID: "00" + *invoiceID},
		{InvoiceID: "does-not-exist"},
	}})
	if err != nil {
		log.Fatalf("bulk verify failed: %v", err)
	}
	for _, r := range bulk.Results {
		printResult(r)
	}
	fmt.Printf("  total=%d valid=%d\n", bulk.Total, bulk.ValidCount)

	fmt.Printf("\n3. Lookup of %q\n", *invoiceID)
	inv, err := c.lookup(*invoiceID)
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}
	fmt.Printf("  invoice=%s amount=%s status=%s supplier=%q\n",
		inv.InvoiceID, inv.Amount, inv.Status, inv.Supplier)
}

func (c *client) verify(payload verifyPayload) (*verdict.Result, error) {
	var result verdict.Result
	if err := c.post("/api/verify-invoice", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) verifyBulk(payload bulkPayload) (*verdict.BulkResult, error) {
	var result verdict.BulkResult
	if err := c.post("/api/verify-invoices", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) lookup(invoiceID string) (*verdict.Invoice, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/invoice/"+invoiceID, nil)
	if err != nil {
		return nil, err
	}
	var inv verdict.Invoice
	if err := c.do(req, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *client) post(path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		var envelope errorEnvelope
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			return fmt.Errorf("%s %s: %d %s (%s)", req.Method, req.URL.Path, res.StatusCode, envelope.Error, envelope.Description)
		}
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, res.StatusCode)
	}

	return json.Unmarshal(data, out)
}

func printResult(res verdict.Result) {
	mark := "INVALID"
	if res.IsValid {
		mark = "VALID  "
	}
	amount := res.Amount
	if amount == "" {
		amount = "-"
	}
	fmt.Printf("  [%s] invoice=%s amount=%s message=%q\n", mark, res.InvoiceID, amount, res.Message)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
