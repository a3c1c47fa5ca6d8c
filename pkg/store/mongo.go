package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string

	// ConnectTimeout bounds the initial connection and ping.
	// Zero means 10 seconds.
	ConnectTimeout time.Duration
}

// MongoStore keeps playbooks in a MongoDB collection, one document per
// playbook keyed by its id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures
// the listing index exists.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	timeout := opts.ConnectTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := NewMongoStoreFromClient(client, opts.Database, opts.Collection)
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "deleted", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Create implements Store.
func (s *MongoStore) Create(ctx context.Context, p *Playbook) error {
	prepareCreate(p)
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert playbook: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, id string) (*Playbook, error) {
	var p Playbook
	err := s.coll.FindOne(ctx, live(bson.M{"_id": id})).Decode(&p)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find playbook %s: %w", id, err)
	}
	return &p, nil
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context, opts ListOptions) ([]*Playbook, int, error) {
	opts = opts.Normalize()
	filter := live(bson.M{})
	if opts.Search != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(opts.Search), "$options": "i"}
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count playbooks: %w", err)
	}

	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))
	cur, err := s.coll.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, fmt.Errorf("list playbooks: %w", err)
	}
	defer cur.Close(ctx)

	out := []*Playbook{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode playbooks: %w", err)
	}
	return out, int(total), nil
}

// Update implements Store.
func (s *MongoStore) Update(ctx context.Context, p *Playbook) error {
	update := bson.M{
		"$set": bson.M{
			"title":       p.Title,
			"description": p.Description,
			"format":      p.Format,
			"content":     p.Content,
			"graph_json":  p.GraphJSON,
			"node_count":  p.NodeCount,
			"edge_count":  p.EdgeCount,
			"updated_at":  now(),
		},
		"$inc": bson.M{"version": 1},
	}
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Playbook
	err := s.coll.FindOneAndUpdate(ctx, live(bson.M{"_id": p.ID}), update, after).Decode(&updated)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update playbook %s: %w", p.ID, err)
	}
	*p = updated
	return nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.UpdateOne(ctx, live(bson.M{"_id": id}), bson.M{
		"$set": bson.M{"deleted": true, "updated_at": now()},
	})
	if err != nil {
		return fmt.Errorf("delete playbook %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close implements Store.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// live restricts filter to playbooks that have not been deleted.
func live(filter bson.M) bson.M {
	filter["deleted"] = false
	return filter
}

var _ Store = (*MongoStore)(nil)
