package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/repository"
)

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	Image       string             `bson:"image"`
	Price       float64            `bson:"price"`
	Stock       int                `bson:"stock"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *productDoc) toEntity() *entity.Product {
	return &entity.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Image:       d.Image,
		Price:       d.Price,
		Stock:       d.Stock,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// patchSet builds the $set document for a partial update.
func patchSet(p entity.ProductPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Stock != nil {
		set["stock"] = *p.Stock
	}
	return set
}

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

var returnAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	now := time.Now().UTC()
	doc := productDoc{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	p.ID = doc.ID.Hex()
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	o, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": o}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toEntity())
	}
	return out, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	o, err := oid(id)
	if err != nil {
		return nil, err
	}
	return r.findAndUpdate(ctx, bson.M{"_id": o}, bson.M{"$set": patchSet(patch, time.Now().UTC())})
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (*entity.Product, error) {
	o, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc productDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": o}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

// DecrementStock filters on stock >= qty so the check and the write are one
// server-side operation.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, qty int) (*entity.Product, error) {
	o, err := oid(id)
	if err != nil {
		return nil, err
	}
	p, err := r.findAndUpdate(ctx,
		bson.M{"_id": o, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if !errors.Is(err, repository.ErrNotFound) {
		return p, err
	}
	// No match: either the product is gone or the stock is too low.
	n, cerr := r.coll.CountDocuments(ctx, bson.M{"_id": o})
	if cerr != nil {
		return nil, cerr
	}
	if n == 0 {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrInsufficientStock
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id string, qty int) (*entity.Product, error) {
	o, err := oid(id)
	if err != nil {
		return nil, err
	}
	return r.findAndUpdate(ctx,
		bson.M{"_id": o},
		bson.M{"$inc": bson.M{"stock": qty}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
}

func (r *ProductRepository) findAndUpdate(ctx context.Context, filter, update bson.M) (*entity.Product, error) {
	var doc productDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, returnAfter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
