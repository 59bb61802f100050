// Package report печатает коллекции заказов в человекочитаемом виде.
package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
)

const (
	// DefaultTitle — заголовок обычного отчёта.
	DefaultTitle = "ORDER REPORT"
	// SingleTitle — фиксированный баннер для выданного заказа.
	SingleTitle = "FULFILLED ORDER"

	lineWidth = 50
)

var (
	amountPrinter = message.NewPrinter(language.English)

	thinLine  = strings.Repeat("-", lineWidth)
	thickLine = strings.Repeat("=", lineWidth)
)

// FormatAmount форматирует сумму с разделителем тысяч: 1234567 -> "1,234,567".
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d", amount)
}

// Render печатает отчёт по orders.
// В single-режиме печатается фиксированный баннер и заказы не нумеруются.
func Render(w io.Writer, orders []domain.Order, title string, single bool) error {
	bw := bufio.NewWriter(w)

	if single {
		title = SingleTitle
	} else if title == "" {
		title = DefaultTitle
	}
	fmt.Fprintf(bw, "\n==================== %s ====================\n", title)

	if len(orders) == 0 {
		fmt.Fprintln(bw, "no orders")
	}

	for idx, order := range orders {
		if !single {
			fmt.Fprintf(bw, "Order #%d\n", idx+1)
		}
		fmt.Fprintf(bw, "Order ID: %s\n", order.ID)
		fmt.Fprintf(bw, "Customer: %s\n", order.Customer)
		fmt.Fprintln(bw, thinLine)

		if err := renderItems(bw, order.Items); err != nil {
			return err
		}

		fmt.Fprintln(bw, thinLine)
		fmt.Fprintf(bw, "Total: %s\n", FormatAmount(order.Total()))
		fmt.Fprintln(bw, thickLine)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func renderItems(w io.Writer, items []domain.Item) error {
	// Шапка и строки выравниваются одним блоком, разделитель вставляется после шапки.
	var table bytes.Buffer
	tw := tabwriter.NewWriter(&table, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Item\tPrice\tQty\tSubtotal")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", item.Name, item.Price, item.Quantity, item.Subtotal())
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("format items: %w", err)
	}

	header, rows, _ := strings.Cut(table.String(), "\n")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, thinLine)
	_, err := io.WriteString(w, rows)
	return err
}
