package application

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-ecommerce/internal/domain/repository"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/apperror"
)

// CatalogService is plain CRUD over products plus the optional cache, search
// index and image store. Optional collaborators may be nil.
type CatalogService struct {
	Products repo.ProductRepository
	Cache    ProductCache
	Index    ProductIndex
	Images   ImageStore
	Logger   *logrus.Logger
}

func NewCatalogService(products repo.ProductRepository, cache ProductCache, index ProductIndex, images ImageStore, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Products: products, Cache: cache, Index: index, Images: images, Logger: logger}
}

type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Image       string
	Price       float64
	Stock       int
}

func productErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return apperror.New(apperror.ProductNotFound, "product not found")
	case errors.Is(err, repo.ErrDuplicateKey):
		return apperror.New(apperror.DuplicateKey, "product already exists")
	}
	return apperror.Wrap(err, apperror.Internal, "product store")
}

func (s *CatalogService) List(ctx context.Context) ([]entity.Product, error) {
	if s.Cache != nil {
		cached, ok, err := s.Cache.GetProducts(ctx)
		if err != nil {
			s.warn(err, "product cache read failed", "")
		}
		if ok && len(cached) > 0 {
			return cached, nil
		}
	}

	products, err := s.Products.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "list products")
	}
	if len(products) == 0 {
		return nil, apperror.New(apperror.NotFound, "no products found")
	}
	if s.Cache != nil {
		if err := s.Cache.SetProducts(ctx, products); err != nil {
			s.warn(err, "product cache write failed", "")
		}
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, productErr(err)
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	p := &entity.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Image:       strings.TrimSpace(in.Image),
		Price:       in.Price,
		Stock:       in.Stock,
	}
	if err := s.Products.Create(ctx, p); err != nil {
		return nil, productErr(err)
	}
	s.changed(ctx, p)
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	if patch.Empty() {
		return s.Get(ctx, id)
	}
	p, err := s.Products.Update(ctx, id, patch)
	if err != nil {
		return nil, productErr(err)
	}
	s.changed(ctx, p)
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Products.Delete(ctx, id)
	if err != nil {
		return nil, productErr(err)
	}
	s.invalidate(ctx)
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.warn(err, "es delete failed", id)
		}
	}
	return p, nil
}

// Search returns an empty result when no index is configured.
func (s *CatalogService) Search(ctx context.Context, q string, size int) ([]entity.Product, error) {
	if s.Index == nil {
		return []entity.Product{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	res, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "search products")
	}
	return res, nil
}

// UploadImage stores the file under products/<id>/ and points the product's
// image at the uploaded object.
func (s *CatalogService) UploadImage(ctx context.Context, id string, r io.Reader, filename, contentType string) (*entity.Product, error) {
	if s.Images == nil {
		return nil, apperror.New(apperror.Internal, "image storage not configured")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := path.Join("products", id, uuid.NewString()+ext)

	url, err := s.Images.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "upload image")
	}
	return s.Update(ctx, id, entity.ProductPatch{Image: &url})
}

// changed refreshes the derived views after a write.
func (s *CatalogService) changed(ctx context.Context, p *entity.Product) {
	s.invalidate(ctx)
	if s.Index != nil {
		if err := s.Index.Index(ctx, p); err != nil {
			s.warn(err, "es index failed", p.ID)
		}
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		s.warn(err, "product cache invalidate failed", "")
	}
}

func (s *CatalogService) warn(err error, msg, productID string) {
	if s.Logger == nil {
		return
	}
	entry := s.Logger.WithError(err)
	if productID != "" {
		entry = entry.WithField("product_id", productID)
	}
	entry.Warn(msg)
}
