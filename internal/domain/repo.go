package domain

import (
	"context"

	"github.com/google/uuid"
)

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindBySerial(ctx context.Context, serial string) (*Product, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
}

type CategoryRepo interface {
	Save(ctx context.Context, c *Category) error
	List(ctx context.Context) ([]Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	Rename(ctx context.Context, oldName, newName string) error
	Delete(ctx context.Context, name string) error
}

type OrderRepo interface {
	Append(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]Order, error)
	FindByID(ctx context.Context, id string) (*Order, error)
}

type UserRepo interface {
	Save(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}
