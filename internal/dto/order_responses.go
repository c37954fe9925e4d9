package dto

import "time"

type OrderDTO struct {
	ID            string    `json:"id"`
	ShortCode     string    `json:"shortCode"`
	CustomerName  *string   `json:"customerName"`
	CustomerEmail *string   `json:"customerEmail"`
	Subtotal      float64   `json:"subtotal"`
	Shipping      float64   `json:"shipping"`
	Tax           float64   `json:"tax"`
	Discount      float64   `json:"discount"`
	Total         float64   `json:"total"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type LineItemDTO struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type OrderDetailDTO struct {
	OrderDTO
	Items []LineItemDTO `json:"items"`
}

type PaginationDTO struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type ListOrdersResponse struct {
	Orders     []OrderDTO    `json:"orders"`
	Pagination PaginationDTO `json:"pagination"`
}

type BulkUpdateResponse struct {
	TraceID   string           `json:"traceId"`
	Status    string           `json:"status"`
	Updated   []string         `json:"updated"`
	Failures  []IDFailureDTO   `json:"failures"`
	Timestamp time.Time        `json:"timestamp"`
}

type IDFailureDTO struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type SelectionResponse struct {
	IDs []string `json:"ids"`
}
