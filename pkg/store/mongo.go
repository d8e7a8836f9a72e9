package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps each save as one document keyed by the save ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoSave struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	LevelNumber int       `bson:"level_number"`
	CreatedAt   time.Time `bson:"created_at"`
	Size        int       `bson:"size"`
	Data        []byte    `bson:"data,omitempty"`
}

func (d mongoSave) entry() Entry {
	return Entry{
		ID:          d.ID,
		Name:        d.Name,
		LevelNumber: d.LevelNumber,
		CreatedAt:   d.CreatedAt.UTC(),
		Size:        d.Size,
	}
}

// NewMongoStore connects to MongoDB and ensures the created_at index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, fmt.Errorf("mongo store: database and collection are required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	err = retry(ctx, connectAttempts, connectDelay, func() error {
		return transient(client.Ping(ctx, nil))
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Put(ctx context.Context, e Entry, data []byte) (Entry, error) {
	e, err := prepare(e, data)
	if err != nil {
		return Entry{}, err
	}
	// BSON dates carry milliseconds only.
	e.CreatedAt = e.CreatedAt.Truncate(time.Millisecond)
	doc := mongoSave{
		ID:          e.ID,
		Name:        e.Name,
		LevelNumber: e.LevelNumber,
		CreatedAt:   e.CreatedAt,
		Size:        e.Size,
		Data:        data,
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return Entry{}, fmt.Errorf("mongo put: %w", err)
	}
	return e, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) ([]byte, Entry, error) {
	var doc mongoSave
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, Entry{}, notFound(id)
	}
	if err != nil {
		return nil, Entry{}, fmt.Errorf("mongo get: %w", err)
	}
	return doc.Data, doc.entry(), nil
}

func (s *MongoStore) List(ctx context.Context) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"data": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	defer cur.Close(ctx)

	out := []Entry{}
	for cur.Next(ctx) {
		var doc mongoSave
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo decode: %w", err)
		}
		out = append(out, doc.entry())
	}
	return out, cur.Err()
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
