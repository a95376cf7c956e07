package usecase

import (
	"testing"

	"github.com/gadgetwall/backoffice/internal/domain"
)

func TestComputeBreakdownInclusiveVAT(t *testing.T) {
	items := []domain.OrderItem{
		{Name: "Tempered Glass", Price: 10.00, Quantity: 2},
		{Name: "Cable", Price: 5.00, Quantity: 1},
	}
	b := ComputeBreakdown(items).Rounded()
	if b.Subtotal != 25.00 {
		t.Fatalf("subtotal = %v, want 25.00", b.Subtotal)
	}
	// 25 * 0.23/1.23
	if b.VATAmount != 4.67 {
		t.Fatalf("vat = %v, want 4.67", b.VATAmount)
	}
	if b.Net != 20.33 {
		t.Fatalf("net = %v, want 20.33", b.Net)
	}
}

func TestComputeBreakdownNetPlusVATEqualsSubtotal(t *testing.T) {
	cases := [][]domain.OrderItem{
		{},
		{{Price: 829.00, Quantity: 1}},
		{{Price: 59.00, Quantity: 3}, {Price: 14.99, Quantity: 2}},
		{{Price: 0.01, Quantity: 7}},
	}
	for _, items := range cases {
		b := ComputeBreakdown(items)
		if diff := b.Subtotal - (b.Net + b.VATAmount); diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("subtotal %v != net %v + vat %v", b.Subtotal, b.Net, b.VATAmount)
		}
	}
}

func TestComputeBreakdownEmpty(t *testing.T) {
	b := ComputeBreakdown(nil)
	if b.Subtotal != 0 || b.VATAmount != 0 || b.Net != 0 {
		t.Fatalf("empty order should break down to zeros, got %+v", b)
	}
}
