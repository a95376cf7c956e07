package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gadgetwall/backoffice/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	var list []domain.Product
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Query != "" {
		like := "%" + strings.TrimSpace(f.Query) + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?) OR LOWER(brand) LIKE LOWER(?) OR barcode = ?", like, like, like, strings.TrimSpace(f.Query))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 50
	}
	offset := (f.Page - 1) * f.PageSize
	if err := q.Order("name asc").Offset(offset).Limit(f.PageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("product id empty")
	}
	return r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id).Error
}

// FindBySerial scans serial lists in Go rather than with a JSON operator so the
// same query works on postgres and sqlite. The catalog stays small enough.
func (r *ProductRepo) FindBySerial(ctx context.Context, serial string) (*domain.Product, error) {
	var list []domain.Product
	if err := r.db.WithContext(ctx).Where("serial_numbers IS NOT NULL").Find(&list).Error; err != nil {
		return nil, err
	}
	for i := range list {
		for _, s := range list[i].SerialNumbers {
			if s == serial {
				return &list[i], nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ProductRepo) CountByCategory(ctx context.Context, category string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("category = ?", category).Count(&n).Error
	return n, err
}
