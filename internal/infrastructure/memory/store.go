// Package memory is a process-local implementation of the repositories.
// A single mutex guards all collections so every operation is atomic.
package memory

import (
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]*userRecord
	products map[string]*productRecord
	orders   []*orderRecord
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*userRecord),
		products: make(map[string]*productRecord),
		now:      time.Now,
	}
}

// Users, Products and Orders expose the repositories backed by s.
func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }
func (s *Store) Orders() *OrderRepository     { return &OrderRepository{s: s} }

func newID() string {
	return primitive.NewObjectID().Hex()
}
