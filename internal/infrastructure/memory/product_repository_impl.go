package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/repository"
)

type productRecord struct{ entity.Product }

type ProductRepository struct{ s *Store }

// nameTaken must be called with the lock held.
func (r *ProductRepository) nameTaken(name, exceptID string) bool {
	for id, rec := range r.s.products {
		if id != exceptID && rec.Name == name {
			return true
		}
	}
	return false
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(p.Name, "") {
		return repository.ErrDuplicateKey
	}
	now := r.s.now()
	p.ID = newID()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.products[p.ID] = &productRecord{Product: *p}
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := rec.Product
	return &p, nil
}

func (r *ProductRepository) List(_ context.Context) ([]entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]entity.Product, 0, len(r.s.products))
	for _, rec := range r.s.products {
		out = append(out, rec.Product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepository) Update(_ context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil && r.nameTaken(*patch.Name, id) {
		return nil, repository.ErrDuplicateKey
	}
	patch.Apply(&rec.Product)
	rec.UpdatedAt = r.s.now()
	p := rec.Product
	return &p, nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.s.products, id)
	p := rec.Product
	return &p, nil
}

func (r *ProductRepository) DecrementStock(_ context.Context, id string, qty int) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if rec.Stock < qty {
		return nil, repository.ErrInsufficientStock
	}
	rec.Stock -= qty
	rec.UpdatedAt = r.s.now()
	p := rec.Product
	return &p, nil
}

func (r *ProductRepository) IncrementStock(_ context.Context, id string, qty int) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec.Stock += qty
	rec.UpdatedAt = r.s.now()
	p := rec.Product
	return &p, nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
