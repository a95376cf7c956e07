package usecase

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/gadgetwall/backoffice/internal/domain"
)

type OrderUC struct {
	Orders domain.OrderRepo
}

// List returns the ledger newest-first.
func (uc *OrderUC) List(ctx context.Context) ([]domain.Order, error) {
	return uc.Orders.List(ctx)
}

type InvoiceView struct {
	Number    string       `json:"number"`
	Order     domain.Order `json:"order"`
	Breakdown Breakdown    `json:"breakdown"`
	VATRate   float64      `json:"vatRate"`
}

// Invoice renders the VAT breakdown for one ledger entry. The invoice number
// is generated at view time and not stored.
func (uc *OrderUC) Invoice(ctx context.Context, id string) (*InvoiceView, error) {
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &InvoiceView{
		Number:    fmt.Sprintf("INV-%d", rand.Intn(90000)+10000),
		Order:     *o,
		Breakdown: ComputeBreakdown(o.Items).Rounded(),
		VATRate:   VATRate,
	}, nil
}
