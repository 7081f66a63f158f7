// Package mongostore reads order lines and products from MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orders-bff/internal/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Options struct {
	URI               string
	Database          string
	OrderCollection   string
	ProductCollection string
	ConnectTimeout    time.Duration
}

type Store struct {
	client   *mongo.Client
	orders   *mongo.Collection
	products *mongo.Collection
}

func Connect(ctx context.Context, opts Options) (*Store, error) {
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return New(client, opts.Database, opts.OrderCollection, opts.ProductCollection), nil
}

func New(client *mongo.Client, database, orderCollection, productCollection string) *Store {
	db := client.Database(database)
	return &Store{
		client:   client,
		orders:   db.Collection(orderCollection),
		products: db.Collection(productCollection),
	}
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type orderDocument struct {
	ID         bson.RawValue `bson:"_id"`
	UserID     string        `bson:"userId"`
	ProductID  string        `bson:"productId"`
	Quantity   int           `bson:"quantity"`
	TotalPrice bson.RawValue `bson:"totalPrice"`
}

type productDocument struct {
	ID       bson.RawValue `bson:"_id"`
	Name     string        `bson:"name"`
	ImageURI string        `bson:"imageUri"`
}

func (s *Store) OrdersByUser(ctx context.Context, userID string) ([]models.OrderLine, error) {
	cursor, err := s.orders.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("find order lines: %w", err)
	}
	defer cursor.Close(ctx)

	lines := []models.OrderLine{}
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode order line: %w", err)
		}
		line, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}
	return lines, nil
}

func (s *Store) ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	found := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	requested := newRequestedIDs(ids)
	cursor, err := s.products.Find(ctx, bson.M{"_id": bson.M{"$in": requested.candidates}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		for _, id := range requested.match(doc.ID) {
			found[id] = models.Product{ID: id, Name: doc.Name, ImageURI: doc.ImageURI}
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return found, nil
}

func (d orderDocument) toModel() (models.OrderLine, error) {
	id, err := idString(d.ID)
	if err != nil {
		return models.OrderLine{}, err
	}
	total, err := priceFromRaw(d.TotalPrice)
	if err != nil {
		return models.OrderLine{}, fmt.Errorf("order line %s: %w", id, err)
	}
	return models.OrderLine{
		ID:         id,
		UserID:     d.UserID,
		ProductID:  d.ProductID,
		Quantity:   d.Quantity,
		TotalPrice: total,
	}, nil
}

// requestedIDs matches ids stored either as strings or as ObjectIDs, and
// maps every returned _id back to the ids the caller spelled. ObjectID hex
// parses case-insensitively, so "65AF..." and "65af..." name the same
// document and both are answered.
type requestedIDs struct {
	candidates []interface{}
	byString   map[string][]string
	byObjectID map[primitive.ObjectID][]string
}

func newRequestedIDs(ids []string) requestedIDs {
	r := requestedIDs{
		candidates: make([]interface{}, 0, len(ids)*2),
		byString:   make(map[string][]string, len(ids)),
		byObjectID: make(map[primitive.ObjectID][]string),
	}
	for _, id := range ids {
		if _, seen := r.byString[id]; seen {
			continue
		}
		r.byString[id] = []string{id}
		r.candidates = append(r.candidates, id)

		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		if _, seen := r.byObjectID[oid]; !seen {
			r.candidates = append(r.candidates, oid)
		}
		r.byObjectID[oid] = append(r.byObjectID[oid], id)
	}
	return r
}

func (r requestedIDs) match(raw bson.RawValue) []string {
	if raw.Type == bsontype.ObjectID {
		return r.byObjectID[raw.ObjectID()]
	}
	id, err := idString(raw)
	if err != nil {
		return nil
	}
	return r.byString[id]
}

func idString(raw bson.RawValue) (string, error) {
	switch raw.Type {
	case bsontype.String:
		return raw.StringValue(), nil
	case bsontype.ObjectID:
		return raw.ObjectID().Hex(), nil
	case bsontype.Int32:
		return fmt.Sprint(raw.Int32()), nil
	case bsontype.Int64:
		return fmt.Sprint(raw.Int64()), nil
	default:
		return "", fmt.Errorf("unsupported document id type %s", raw.Type)
	}
}

// priceFromRaw accepts every numeric encoding a client SDK may have written.
// A missing price reads as zero.
func priceFromRaw(raw bson.RawValue) (decimal.Decimal, error) {
	switch raw.Type {
	case 0, bsontype.Null, bsontype.Undefined:
		return decimal.Zero, nil
	case bsontype.Int32:
		return decimal.NewFromInt32(raw.Int32()), nil
	case bsontype.Int64:
		return decimal.NewFromInt(raw.Int64()), nil
	case bsontype.Double:
		return decimal.NewFromFloat(raw.Double()), nil
	case bsontype.Decimal128:
		return decimal.NewFromString(raw.Decimal128().String())
	case bsontype.String:
		return decimal.NewFromString(strings.TrimSpace(raw.StringValue()))
	default:
		return decimal.Zero, fmt.Errorf("unsupported totalPrice type %s", raw.Type)
	}
}
