package rag

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements VectorStore on MongoDB Atlas. Search uses the
// $vectorSearch aggregation stage and expects a vector index named
// "vector_index" on the embedding field.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

const mongoCloseTimeout = 5 * time.Second

func NewMongoVectorStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	records := make([]any, 0, len(docs))
	for _, doc := range docs {
		records = append(records, bson.M{
			"_id":       doc.ID,
			"source":    doc.Source,
			"content":   doc.Content,
			"embedding": float64Embedding(doc.Embedding),
		})
	}
	_, err := s.collection.InsertMany(ctx, records)
	return err
}

func (s *MongoStore) Search(ctx context.Context, embedding []float32, limit int) ([]ScoredDocument, error) {
	if limit <= 0 {
		return nil, nil
	}

	pipeline := mongo.Pipeline{
		{
			{Key: "$vectorSearch", Value: bson.D{
				{Key: "index", Value: "vector_index"},
				{Key: "path", Value: "embedding"},
				{Key: "queryVector", Value: float64Embedding(embedding)},
				{Key: "numCandidates", Value: int64(limit * 10)},
				{Key: "limit", Value: int64(limit)},
			}},
		},
		{
			{Key: "$addFields", Value: bson.D{
				{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
			}},
		},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []ScoredDocument
	for cursor.Next(ctx) {
		var doc struct {
			ID      string  `bson:"_id"`
			Source  string  `bson:"source"`
			Content string  `bson:"content"`
			Score   float64 `bson:"score"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		results = append(results, ScoredDocument{
			Document: Document{ID: doc.ID, Source: doc.Source, Content: doc.Content},
			Score:    doc.Score,
		})
	}
	return results, cursor.Err()
}

func (s *MongoStore) Delete(ctx context.Context, source string) (int, error) {
	res, err := s.collection.DeleteMany(ctx, bson.M{"source": source})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}

func (s *MongoStore) Has(ctx context.Context, source string) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"source": source}, options.Count().SetLimit(1))
	return count > 0, err
}

func (s *MongoStore) Count(ctx context.Context) (int, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	return int(count), err
}

func (s *MongoStore) Reset(ctx context.Context) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{})
	return err
}

// Close releases the underlying MongoDB client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func float64Embedding(vec []float32) []float64 {
	if len(vec) == 0 {
		return nil
	}
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = float64(v)
	}
	return out
}

var _ VectorStore = (*MongoStore)(nil)
