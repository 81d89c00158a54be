package memory

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore upserts sessions into a MongoDB collection keyed by session id,
// so repeated persists of the same session overwrite rather than duplicate.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore connects with the given URI and targets db.collection.
func NewMongoStore(ctx context.Context, uri, db, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoStore{coll: client.Database(db).Collection(collection)}, nil
}

func (s *MongoStore) Save(ctx context.Context, session *Session) (string, error) {
	filter := map[string]any{"id": session.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := s.coll.ReplaceOne(ctx, filter, session, opts); err != nil {
		return "", fmt.Errorf("mongo save session: %w", err)
	}
	return fmt.Sprintf("%s/%s#%s", s.coll.Database().Name(), s.coll.Name(), session.ID), nil
}

var _ Store = (*MongoStore)(nil)
