package application

import (
	"context"
	"io"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
)

// ProductCache holds the full catalog listing. Implementations live in
// infrastructure/cache; a nil cache disables caching.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]entity.Product, bool, error)
	SetProducts(ctx context.Context, products []entity.Product) error
	Invalidate(ctx context.Context) error
}

// ProductIndex mirrors products into a search engine.
type ProductIndex interface {
	Index(ctx context.Context, p *entity.Product) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]entity.Product, error)
}

// ImageStore uploads an object and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
