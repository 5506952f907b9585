package whatsapp

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderSummary carries the fields rendered into the pre-filled chat message.
// Amounts are formatted with two decimal places regardless of input scale so
// the same order always produces the same text.
type OrderSummary struct {
	OrderID       string
	CustomerName  string
	CustomerPhone string
	Address       string
	PaymentMethod string
	Lines         []OrderSummaryLine
	Total         decimal.Decimal
}

type OrderSummaryLine struct {
	ProductName string
	SizeVariant string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Render produces the plain-text order message sent through the deep link.
func (s OrderSummary) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Nuevo pedido %s\n", s.OrderID)
	fmt.Fprintf(&b, "Cliente: %s\n", s.CustomerName)
	fmt.Fprintf(&b, "Tel: %s\n", s.CustomerPhone)
	fmt.Fprintf(&b, "Direccion: %s\n", s.Address)
	fmt.Fprintf(&b, "Pago: %s\n", s.PaymentMethod)
	b.WriteString("\n")

	for _, line := range s.Lines {
		name := line.ProductName
		if line.SizeVariant != "" {
			name = fmt.Sprintf("%s (%s)", name, line.SizeVariant)
		}
		fmt.Fprintf(&b, "- %s x%d @ %s = %s\n",
			name, line.Quantity, line.UnitPrice.StringFixed(2), line.Subtotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nTotal: %s", s.Total.StringFixed(2))
	return b.String()
}

// OrderLink renders the summary and wraps it in a wa.me deep link.
func OrderLink(phone string, summary OrderSummary) (string, error) {
	return Link(phone, summary.Render())
}
