package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/repository"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, mapErr(fmt.Errorf("scan: %w", pgx.ErrNoRows)), repository.ErrNotFound)
	assert.ErrorIs(t, mapErr(&pgconn.PgError{Code: "23505"}), repository.ErrDuplicateKey)

	fk := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(fk), mapErr(fk))

	other := errors.New("boom")
	assert.Equal(t, other, mapErr(other))
}

func TestBuildUpdate(t *testing.T) {
	name := "Mug"
	price := 9.5

	set, args := buildUpdate(entity.ProductPatch{Name: &name, Price: &price})
	assert.Equal(t, "updated_at = now(), name = $2, price = $3", set)
	assert.Equal(t, []any{"Mug", 9.5}, args)

	set, args = buildUpdate(entity.ProductPatch{})
	assert.Equal(t, "updated_at = now()", set)
	assert.Empty(t, args)
}

func TestNewIDIsObjectIDHex(t *testing.T) {
	id := newID()
	assert.Len(t, id, 24)
	assert.NotEqual(t, id, newID())
}
