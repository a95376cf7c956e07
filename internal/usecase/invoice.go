package usecase

import (
	"math"

	"github.com/gadgetwall/backoffice/internal/domain"
)

// VATRate is the Portuguese standard rate. Catalog prices are VAT-inclusive,
// so the invoice total equals the plain item sum and net/VAT are breakdown
// lines derived from it.
const VATRate = 0.23

type Breakdown struct {
	Subtotal  float64 `json:"subtotal"`
	VATAmount float64 `json:"vatAmount"`
	Net       float64 `json:"net"`
}

func ComputeBreakdown(items []domain.OrderItem) Breakdown {
	subtotal := 0.0
	for _, it := range items {
		subtotal += it.Price * float64(it.Quantity)
	}
	vat := subtotal * (VATRate / (1 + VATRate))
	return Breakdown{Subtotal: subtotal, VATAmount: vat, Net: subtotal - vat}
}

// Rounded returns the breakdown with all amounts at two decimals for display.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{Subtotal: Round2(b.Subtotal), VATAmount: Round2(b.VATAmount), Net: Round2(b.Net)}
}

func Round2(v float64) float64 { return math.Round(v*100) / 100 }
