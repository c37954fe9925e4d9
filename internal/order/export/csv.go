// Package export serializes a loaded page of orders to CSV. Every field is
// double-quoted with embedded quotes doubled, matching what spreadsheet
// imports expect regardless of field content.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"orderdesk/internal/domain"
)

var header = []string{"OrderID", "Customer", "Email", "Date", "Total", "Status"}

const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// Write emits the CSV for one page of orders: a fixed header row followed
// by one row per order.
func Write(w io.Writer, orders []domain.Order) error {
	if err := writeRow(w, header); err != nil {
		return err
	}

	for _, order := range orders {
		customer := "Guest"
		email := ""
		if order.CustomerName != nil {
			customer = *order.CustomerName
		}
		if order.CustomerEmail != nil {
			email = *order.CustomerEmail
		}

		row := []string{
			order.ID,
			customer,
			email,
			order.CreatedAt.UTC().Format(dateLayout),
			strconv.FormatFloat(order.Total, 'f', -1, 64),
			string(order.Status),
		}
		if err := writeRow(w, row); err != nil {
			return err
		}
	}

	return nil
}

// Filename names the download for one page of the order list.
func Filename(page int) string {
	return fmt.Sprintf("orders_page_%d.csv", page)
}

func writeRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	return err
}
