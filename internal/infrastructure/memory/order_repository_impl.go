package memory

import (
	"context"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/repository"
)

type orderRecord struct{ entity.Order }

func (rec *orderRecord) clone() entity.Order {
	o := rec.Order
	o.Products = append([]entity.LineItem(nil), rec.Products...)
	return o
}

type OrderRepository struct{ s *Store }

func (r *OrderRepository) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	o.ID = newID()
	o.CreatedAt, o.UpdatedAt = now, now
	rec := &orderRecord{Order: *o}
	rec.Products = append([]entity.LineItem(nil), o.Products...)
	r.s.orders = append(r.s.orders, rec)
	return nil
}

// find must be called with the lock held.
func (r *OrderRepository) find(id string) *orderRecord {
	for _, rec := range r.s.orders {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := r.find(id)
	if rec == nil {
		return nil, repository.ErrNotFound
	}
	o := rec.clone()
	return &o, nil
}

func (r *OrderRepository) List(_ context.Context) ([]entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]entity.Order, 0, len(r.s.orders))
	for _, rec := range r.s.orders {
		out = append(out, rec.clone())
	}
	return out, nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]entity.Order, 0)
	for _, rec := range r.s.orders {
		if rec.UserID == userID {
			out = append(out, rec.clone())
		}
	}
	return out, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := r.find(id)
	if rec == nil {
		return nil, repository.ErrNotFound
	}
	rec.Status = status
	rec.UpdatedAt = r.s.now()
	o := rec.clone()
	return &o, nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
