package ai

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExtractedItem is one item the model found in a shopping command.
// Quantity is nil when the command did not mention one.
type ExtractedItem struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity,omitempty"`
}

// Extraction is the structured form of a shopping command. Budget is nil
// when no budget was mentioned.
type Extraction struct {
	Items  []ExtractedItem `json:"items"`
	Budget *float64        `json:"budget,omitempty"`
}

type CartItemSnapshot struct {
	Name     string          `json:"name"`
	Brand    string          `json:"brand"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type ProductSnapshot struct {
	Name  string          `json:"name"`
	Brand string          `json:"brand"`
	Price decimal.Decimal `json:"price"`
}

type SuggestionInput struct {
	Currency  string             `json:"currency"`
	TotalBill decimal.Decimal    `json:"total_bill"`
	Budget    decimal.Decimal    `json:"budget"`
	MaxTotal  decimal.Decimal    `json:"max_total"`
	Cart      []CartItemSnapshot `json:"cart"`
	Products  []ProductSnapshot  `json:"products"`
}

type Suggestion struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

type SuggestionResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// CallRecord describes one model call for the audit log.
type CallRecord struct {
	RequestType     string
	Provider        string
	Model           string
	Prompt          string
	ResponsePayload []byte
	RawResponse     []byte
	Success         bool
	ErrorMessage    string
}

// Recorder persists model call records.
type Recorder interface {
	LogRequest(ctx context.Context, record CallRecord) error
}
