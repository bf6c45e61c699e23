package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/repository"
)

type lineItemDoc struct {
	ProductID primitive.ObjectID `bson:"productId"`
	Quantity  int                `bson:"quantity"`
}

type orderDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId"`
	Products    []lineItemDoc      `bson:"products"`
	TotalAmount float64            `bson:"totalAmount"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *orderDoc) toEntity() *entity.Order {
	items := make([]entity.LineItem, 0, len(d.Products))
	for _, it := range d.Products {
		items = append(items, entity.LineItem{ProductID: it.ProductID.Hex(), Quantity: it.Quantity})
	}
	return &entity.Order{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Products:    items,
		TotalAmount: d.TotalAmount,
		Status:      entity.OrderStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func newOrderDoc(o *entity.Order, now time.Time) (*orderDoc, error) {
	user, err := primitive.ObjectIDFromHex(o.UserID)
	if err != nil {
		return nil, err
	}
	items := make([]lineItemDoc, 0, len(o.Products))
	for _, it := range o.Products {
		pid, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, lineItemDoc{ProductID: pid, Quantity: it.Quantity})
	}
	return &orderDoc{
		ID:          primitive.NewObjectID(),
		UserID:      user,
		Products:    items,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	doc, err := newOrderDoc(o, time.Now().UTC())
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	o.ID = doc.ID.Hex()
	o.CreatedAt, o.UpdatedAt = doc.CreatedAt, doc.UpdatedAt
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": o}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *OrderRepository) List(ctx context.Context) ([]entity.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	u, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []entity.Order{}, nil
	}
	return r.find(ctx, bson.M{"userId": u})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]entity.Order, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Order, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toEntity())
	}
	return out, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	o, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc orderDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": o},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
