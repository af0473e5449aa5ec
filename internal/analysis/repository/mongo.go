package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/projectziio/ziio-ai/internal/analysis"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores file analyses in the file_analyses collection. The
// analysis payload is kept as a nested document, not a string.
type MongoRepo struct {
	col *mongo.Collection
}

type record struct {
	ID        string    `bson:"id"`
	FileName  string    `bson:"fileName"`
	FileSize  int64     `bson:"fileSize"`
	Analysis  bson.Raw  `bson:"analysis,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Save(ctx context.Context, fa *analysis.FileAnalysis) (string, error) {
	if fa.ID == "" {
		fa.ID = uuid.NewString()
	}
	fa.Timestamp = time.Now().UTC()
	rec, err := newRecord(fa)
	if err != nil {
		return "", err
	}
	if _, err := m.col.InsertOne(ctx, rec); err != nil {
		return "", err
	}
	return fa.ID, nil
}

// newRecord converts the JSON payload to a nested BSON document via
// relaxed extended JSON; toModel reverses it.
func newRecord(fa *analysis.FileAnalysis) (record, error) {
	rec := record{ID: fa.ID, FileName: fa.FileName, FileSize: fa.FileSize, Timestamp: fa.Timestamp}
	if len(fa.Analysis) == 0 {
		return rec, nil
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(fa.Analysis, false, &doc); err != nil {
		return record{}, fmt.Errorf("encode analysis: %w", err)
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return record{}, fmt.Errorf("encode analysis: %w", err)
	}
	rec.Analysis = raw
	return rec, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*analysis.FileAnalysis, error) {
	var rec record
	err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec.toModel()
}

func (m *MongoRepo) List(ctx context.Context, limit int) ([]*analysis.FileAnalysis, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*analysis.FileAnalysis{}
	for cur.Next(ctx) {
		var rec record
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		fa, err := rec.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, fa)
	}
	return out, cur.Err()
}

func (r record) toModel() (*analysis.FileAnalysis, error) {
	fa := &analysis.FileAnalysis{ID: r.ID, FileName: r.FileName, FileSize: r.FileSize, Timestamp: r.Timestamp}
	if len(r.Analysis) > 0 {
		b, err := bson.MarshalExtJSON(r.Analysis, false, false)
		if err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
		fa.Analysis = b
	}
	return fa, nil
}
