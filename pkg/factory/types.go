package factory

import "fmt"

// Diner identifies the ordering user to the factory.
type Diner struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderItem is one fulfillment line with the price snapshot taken at
// order time.
type OrderItem struct {
	MenuID      uint    `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// OrderPayload is the order as submitted for fulfillment.
type OrderPayload struct {
	ID          uint        `json:"id"`
	FranchiseID uint        `json:"franchiseId"`
	StoreID     uint        `json:"storeId"`
	Items       []OrderItem `json:"items"`
}

// FulfillRequest represents the request body for the fulfillment API
type FulfillRequest struct {
	Diner Diner        `json:"diner"`
	Order OrderPayload `json:"order"`
}

// FulfillResponse represents a successful fulfillment
type FulfillResponse struct {
	JWT       string `json:"jwt"`
	ReportURL string `json:"reportUrl"`
}

// VerifyRequest represents the request body for the verification API
type VerifyRequest struct {
	JWT string `json:"jwt"`
}

// VerifyResponse carries the decoded order the factory vouches for
type VerifyResponse struct {
	Message string                 `json:"message"`
	Payload map[string]interface{} `json:"payload"`
}

// ErrorResponse represents an error response from the factory. ReportURL,
// when present, points at the factory's diagnostic report for the failed
// fulfillment and is surfaced to the caller.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	ReportURL  string `json:"reportUrl,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("factory error: status=%d, message=%s", e.StatusCode, e.Message)
}

func (e *ErrorResponse) Unwrap() error {
	if e.StatusCode == 401 {
		return ErrUnauthorized
	}
	return ErrFulfillmentFailed
}
