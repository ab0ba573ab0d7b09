package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/darkandwhite/shop-backend/pkg/db/models"
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
)

// Listing is the read-side view of a priced catalog entity.
type Listing struct {
	ID       uuid.UUID
	Name     string
	Price    decimal.Decimal
	IsActive bool
}

// Reader exposes the catalog read surface consumed by the pricing resolver
// and order assembly. The write side lives in a separate admin service.
type Reader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*Listing, error)
	GetDesign(ctx context.Context, id uuid.UUID) (*Listing, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog reader bound to the provided DB.
func NewRepository(db *gorm.DB) Reader {
	return &repository{db: db}
}

func (r *repository) GetProduct(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return &Listing{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		IsActive: product.IsActive,
	}, nil
}

func (r *repository) GetDesign(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var design models.DesignAsset
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&design).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load design asset")
	}
	return &Listing{
		ID:       design.ID,
		Name:     design.Name,
		Price:    design.Price,
		IsActive: design.IsActive,
	}, nil
}
