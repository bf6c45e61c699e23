package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/apperror"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
)

const missingID = "65f1a2b3c4d5e6f708091a2b"

func TestCatalogListEmptyIsNotFound(t *testing.T) {
	catalog := NewCatalogService(memory.NewStore().Products(), nil, nil, nil, helpers.NewDiscardLogger())

	_, err := catalog.List(context.Background())
	assert.True(t, apperror.Is(err, apperror.NotFound))
	assert.Equal(t, "no products found", err.Error())
}

func TestCatalogCreateTrimsAndRejectsDuplicates(t *testing.T) {
	index := newFakeIndex()
	catalog := NewCatalogService(memory.NewStore().Products(), nil, index, nil, helpers.NewDiscardLogger())
	ctx := context.Background()

	p, err := catalog.Create(ctx, CreateProductInput{Name: "  Mug ", Price: 4.5})
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
	assert.Equal(t, 0, p.Stock)
	assert.Contains(t, index.indexed, p.ID)

	_, err = catalog.Create(ctx, CreateProductInput{Name: "Mug", Price: 1})
	assert.True(t, apperror.Is(err, apperror.DuplicateKey))
	assert.Equal(t, apperror.KindConflict, apperror.CodeOf(err).Kind())
}

func TestCatalogListUsesCacheAndWritesInvalidate(t *testing.T) {
	cache := &fakeCache{}
	catalog := NewCatalogService(memory.NewStore().Products(), cache, nil, nil, helpers.NewDiscardLogger())
	ctx := context.Background()

	p, err := catalog.Create(ctx, CreateProductInput{Name: "Mug", Price: 4.5, Stock: 2})
	require.NoError(t, err)

	first, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, cache.sets)

	_, err = catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second list should be served from cache")

	price := 6.0
	_, err = catalog.Update(ctx, p.ID, entity.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.False(t, cache.ok)

	again, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6.0, again[0].Price)
}

func TestCatalogMissingProduct(t *testing.T) {
	catalog := NewCatalogService(memory.NewStore().Products(), nil, nil, nil, helpers.NewDiscardLogger())
	ctx := context.Background()
	name := "x"

	_, err := catalog.Update(ctx, missingID, entity.ProductPatch{Name: &name})
	assert.True(t, apperror.Is(err, apperror.ProductNotFound))

	_, err = catalog.Delete(ctx, missingID)
	assert.True(t, apperror.Is(err, apperror.ProductNotFound))

	_, err = catalog.Get(ctx, missingID)
	assert.True(t, apperror.Is(err, apperror.ProductNotFound))
}

func TestCatalogDeleteRemovesFromIndex(t *testing.T) {
	index := newFakeIndex()
	catalog := NewCatalogService(memory.NewStore().Products(), nil, index, nil, helpers.NewDiscardLogger())
	ctx := context.Background()

	p, err := catalog.Create(ctx, CreateProductInput{Name: "Mug", Price: 1})
	require.NoError(t, err)

	found, err := catalog.Search(ctx, "Mug", 0)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	deleted, err := catalog.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)
	assert.Equal(t, []string{p.ID}, index.removed)
}

func TestCatalogSearchWithoutIndex(t *testing.T) {
	catalog := NewCatalogService(memory.NewStore().Products(), nil, nil, nil, helpers.NewDiscardLogger())
	res, err := catalog.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestCatalogUploadImage(t *testing.T) {
	images := &fakeImages{}
	catalog := NewCatalogService(memory.NewStore().Products(), nil, nil, images, helpers.NewDiscardLogger())
	ctx := context.Background()

	p, err := catalog.Create(ctx, CreateProductInput{Name: "Mug", Price: 1, Image: "https://example.com/old.png"})
	require.NoError(t, err)

	updated, err := catalog.UploadImage(ctx, p.ID, strings.NewReader("png-bytes"), "Photo.PNG", "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(images.path, "products/"+p.ID+"/"))
	assert.True(t, strings.HasSuffix(images.path, ".png"))
	assert.Equal(t, "png-bytes", images.body)
	assert.Equal(t, "https://storage.googleapis.com/bucket/"+images.path, updated.Image)

	_, err = catalog.UploadImage(ctx, missingID, strings.NewReader("x"), "a.png", "image/png")
	assert.True(t, apperror.Is(err, apperror.ProductNotFound))

	images.err = errBoom
	_, err = catalog.UploadImage(ctx, p.ID, strings.NewReader("x"), "a.png", "image/png")
	assert.Equal(t, apperror.Internal, apperror.CodeOf(err))
}
