package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
)

// ProductRepository is the catalog store.
//
// DecrementStock must be a single conditional write: the stock is reduced only
// when it is at least qty, otherwise ErrInsufficientStock is returned and
// nothing changes. The returned product reflects the state after the write.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id string) (*entity.Product, error)

	DecrementStock(ctx context.Context, id string, qty int) (*entity.Product, error)
	IncrementStock(ctx context.Context, id string, qty int) (*entity.Product, error)
}
