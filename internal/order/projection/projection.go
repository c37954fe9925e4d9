// Package projection narrows a loaded page of orders to the visible subset.
// It is a pure transform: no side effects, no stored state.
package projection

import (
	"strings"

	"orderdesk/internal/domain"
)

// Project returns the orders matching both the search term and the status
// filter. The term matches case-insensitively as a substring of the order
// ID, customer name, or customer email; any one hit includes the order. A
// statusFilter of "" or "all" disables status filtering.
func Project(orders []domain.Order, searchTerm, statusFilter string) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if matchesSearch(order, searchTerm) && matchesStatus(order, statusFilter) {
			out = append(out, order)
		}
	}
	return out
}

func matchesSearch(order domain.Order, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)

	if strings.Contains(strings.ToLower(order.ID), needle) {
		return true
	}
	if order.CustomerName != nil && strings.Contains(strings.ToLower(*order.CustomerName), needle) {
		return true
	}
	if order.CustomerEmail != nil && strings.Contains(strings.ToLower(*order.CustomerEmail), needle) {
		return true
	}
	return false
}

func matchesStatus(order domain.Order, filter string) bool {
	if filter == "" || filter == "all" {
		return true
	}
	return string(order.Status) == filter
}
