package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/gadgetwall/backoffice/internal/domain"
)

// Transaction is one row of the inbound-stock CSV: comma-delimited, fixed
// 10-column positional schema, header row discarded, no quoting support.
type Transaction struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Status     string  `json:"status"`
	Identifier string  `json:"identifier"`
	Quantity   int     `json:"quantity"`
	Cost       float64 `json:"cost"`
	Price      float64 `json:"price"`
	Date       string  `json:"date"`
	Client     string  `json:"client"`
	Notes      string  `json:"notes"`
}

var ErrEmptyCSV = errors.New("empty or invalid CSV")

// ParseTransactions splits raw CSV text into transaction rows. Malformed
// numeric fields fall back silently (quantity to 1, cost/price to 0); no row is
// ever rejected.
func ParseTransactions(raw string) ([]Transaction, error) {
	rows := []string{}
	for _, r := range strings.Split(raw, "\n") {
		if strings.TrimSpace(r) != "" {
			rows = append(rows, r)
		}
	}
	if len(rows) < 2 {
		return nil, ErrEmptyCSV
	}
	txs := make([]Transaction, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cols := strings.Split(row, ",")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		col := func(i int) string {
			if i < len(cols) {
				return cols[i]
			}
			return ""
		}
		qty := cast.ToInt(col(4))
		if qty == 0 {
			qty = 1
		}
		txs = append(txs, Transaction{
			Name:       col(0),
			Category:   col(1),
			Status:     col(2),
			Identifier: col(3),
			Quantity:   qty,
			Cost:       cast.ToFloat64(col(5)),
			Price:      cast.ToFloat64(col(6)),
			Date:       col(7),
			Client:     col(8),
			Notes:      col(9),
		})
	}
	return txs, nil
}

// GroupTransactions folds rows into per-(name, category) product aggregates in
// first-seen order: stock is the quantity sum, identifiers collect into the
// serial list, and the last non-zero price/cost wins.
func GroupTransactions(txs []Transaction) []domain.Product {
	grouped := map[string]*domain.Product{}
	order := []string{}
	for _, tx := range txs {
		key := tx.Name + "-" + tx.Category
		p, ok := grouped[key]
		if !ok {
			brand := ""
			if parts := strings.Fields(tx.Name); len(parts) > 0 {
				brand = parts[0]
			}
			p = &domain.Product{
				ID:            uuid.New(),
				Name:          tx.Name,
				Category:      tx.Category,
				Price:         tx.Price,
				Cost:          tx.Cost,
				Brand:         brand,
				Description:   tx.Notes,
				SerialNumbers: []string{},
				Status:        tx.Status,
				Client:        tx.Client,
				LastAdded:     tx.Date,
			}
			grouped[key] = p
			order = append(order, key)
		}
		p.Stock += tx.Quantity
		if tx.Identifier != "" {
			p.SerialNumbers = append(p.SerialNumbers, tx.Identifier)
		}
		if tx.Price > 0 {
			p.Price = tx.Price
		}
		if tx.Cost > 0 {
			p.Cost = tx.Cost
		}
	}
	out := make([]domain.Product, 0, len(order))
	for _, key := range order {
		out = append(out, *grouped[key])
	}
	return out
}

type ImportUC struct {
	Products domain.ProductRepo
}

// Preview parses and groups without touching the catalog; the caller confirms
// the aggregates in a second step.
func (uc *ImportUC) Preview(raw string) ([]Transaction, []domain.Product, error) {
	txs, err := ParseTransactions(raw)
	if err != nil {
		return nil, nil, err
	}
	return txs, GroupTransactions(txs), nil
}

// Confirm appends the previewed aggregates to the catalog as new products.
func (uc *ImportUC) Confirm(ctx context.Context, products []domain.Product) (int, error) {
	added := 0
	for i := range products {
		p := products[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if err := uc.Products.Save(ctx, &p); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
