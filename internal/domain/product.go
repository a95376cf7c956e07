package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"size:180" json:"name"`
	Category         string    `gorm:"size:100;index" json:"category"`
	Brand            string    `gorm:"size:100" json:"brand"`
	Price            float64   `gorm:"type:decimal(12,2)" json:"price"`
	Cost             float64   `gorm:"type:decimal(12,2);default:0" json:"cost,omitempty"`
	Stock            int       `gorm:"type:int;default:0" json:"stock"`
	Description      string    `gorm:"type:text" json:"description"`
	Barcode          string    `gorm:"size:40;index" json:"barcode,omitempty"`
	SerialNumbers    []string  `gorm:"type:jsonb;serializer:json" json:"serialNumbers,omitempty"`
	CompatibleModels []string  `gorm:"type:jsonb;serializer:json" json:"compatibleModels,omitempty"`

	// free-text leftovers carried through CSV imports
	Status    string `gorm:"size:60" json:"status,omitempty"`
	Client    string `gorm:"size:140" json:"client,omitempty"`
	Notes     string `gorm:"type:text" json:"notes,omitempty"`
	LastAdded string `gorm:"size:20" json:"lastAdded,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"-"`
}

type ProductFilter struct {
	Query    string
	Category string
	Page     int
	PageSize int
}
