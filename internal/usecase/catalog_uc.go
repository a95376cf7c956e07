package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/gadgetwall/backoffice/internal/domain"
)

var (
	ErrNoProduct = errors.New("no product selected")
	ErrNoSerials = errors.New("no IMEI/SN detected")
)

type CatalogUC struct {
	Products   domain.ProductRepo
	Categories domain.CategoryRepo
}

func (uc *CatalogUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 50
	}
	return uc.Products.List(ctx, f)
}

func (uc *CatalogUC) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if id == uuid.Nil {
		return nil, domain.ErrNotFound
	}
	return uc.Products.FindByID(ctx, id)
}

func (uc *CatalogUC) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.SerialNumbers == nil {
		p.SerialNumbers = []string{}
	}
	return uc.Products.Save(ctx, p)
}

func (uc *CatalogUC) Update(ctx context.Context, p *domain.Product) error {
	if p == nil || p.ID == uuid.Nil {
		return errors.New("product id")
	}
	return uc.Products.Save(ctx, p)
}

func (uc *CatalogUC) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("product id")
	}
	return uc.Products.Delete(ctx, id)
}

// AddSerials merges an inbound batch of serial numbers into a product: stock
// grows by the batch length and every string is appended to the serial list in
// order. No de-duplication and no format validation; the stock/serial-length
// invariant is deliberately left unenforced.
func (uc *CatalogUC) AddSerials(ctx context.Context, id uuid.UUID, serials []string) (*domain.Product, error) {
	if id == uuid.Nil {
		return nil, ErrNoProduct
	}
	if len(serials) == 0 {
		return nil, ErrNoSerials
	}
	p, err := uc.Products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNoProduct
		}
		return nil, err
	}
	p.Stock += len(serials)
	p.SerialNumbers = append(p.SerialNumbers, serials...)
	if err := uc.Products.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// MergeSerialInput combines live-scan entries with newline-delimited bulk text,
// trimming each line and dropping blanks.
func MergeSerialInput(scanned []string, bulk string) []string {
	out := []string{}
	for _, s := range scanned {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	for _, l := range strings.Split(bulk, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// LookupSerial finds the product holding an exact serial match.
func (uc *CatalogUC) LookupSerial(ctx context.Context, serial string) (*domain.Product, error) {
	s := strings.TrimSpace(serial)
	if s == "" {
		return nil, domain.ErrNotFound
	}
	return uc.Products.FindBySerial(ctx, s)
}

// --- categories ---

func (uc *CatalogUC) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return uc.Categories.List(ctx)
}

func (uc *CatalogUC) AddCategory(ctx context.Context, name string) (*domain.Category, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return nil, errors.New("category name")
	}
	if existing, err := uc.Categories.FindByName(ctx, n); err == nil && existing != nil {
		return nil, domain.ErrDuplicate
	}
	c := &domain.Category{ID: uuid.New(), Name: n}
	if err := uc.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RenameCategory updates the category row only; products keep their free-text
// category value.
func (uc *CatalogUC) RenameCategory(ctx context.Context, oldName, newName string) error {
	n := strings.TrimSpace(newName)
	if n == "" {
		return errors.New("category name")
	}
	return uc.Categories.Rename(ctx, oldName, n)
}

// DeleteCategory refuses to remove a category while any product references it.
func (uc *CatalogUC) DeleteCategory(ctx context.Context, name string) error {
	inUse, err := uc.Products.CountByCategory(ctx, name)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return domain.ErrCategoryInUse
	}
	return uc.Categories.Delete(ctx, name)
}
