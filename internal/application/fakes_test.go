package application

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/events"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeCache struct {
	products    []entity.Product
	ok          bool
	invalidated int
	sets        int
}

func (c *fakeCache) GetProducts(context.Context) ([]entity.Product, bool, error) {
	return c.products, c.ok, nil
}

func (c *fakeCache) SetProducts(_ context.Context, products []entity.Product) error {
	c.products, c.ok = products, true
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.products, c.ok = nil, false
	c.invalidated++
	return nil
}

type fakeIndex struct {
	indexed map[string]entity.Product
	removed []string
}

func newFakeIndex() *fakeIndex { return &fakeIndex{indexed: map[string]entity.Product{}} }

func (x *fakeIndex) Index(_ context.Context, p *entity.Product) error {
	x.indexed[p.ID] = *p
	return nil
}

func (x *fakeIndex) Remove(_ context.Context, id string) error {
	delete(x.indexed, id)
	x.removed = append(x.removed, id)
	return nil
}

func (x *fakeIndex) Search(_ context.Context, q string, size int) ([]entity.Product, error) {
	out := []entity.Product{}
	for _, p := range x.indexed {
		if p.Name == q && len(out) < size {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeImages struct {
	path string
	body string
	err  error
}

func (f *fakeImages) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(r)
	f.path, f.body = objectPath, string(b)
	return "https://storage.googleapis.com/bucket/" + objectPath, nil
}

var errBoom = errors.New("boom")
