package fetch

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/importviz/pkg/errors"
)

// MongoScheme prefixes identifiers served by a MongoSource.
const MongoScheme = "mongo://"

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "importviz"
	DefaultMongoCollection = "datasets"
)

// MongoSource reads datasets stored as {_id: <id>, dataset: <object|string>}.
type MongoSource struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo connects to uri and returns a source over db.collection.
func ConnectMongo(ctx context.Context, uri, db, collection string) (*MongoSource, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}
	return NewMongoSource(client, db, collection), nil
}

// NewMongoSource wraps an existing client. Empty names use the defaults.
func NewMongoSource(client *mongo.Client, db, collection string) *MongoSource {
	if db == "" {
		db = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	return &MongoSource{client: client, coll: client.Database(db).Collection(collection)}
}

type mongoDoc struct {
	ID      string        `bson:"_id"`
	Dataset bson.RawValue `bson:"dataset"`
}

// Read loads the dataset document for id and returns it as JSON with its
// key order intact.
func (s *MongoSource) Read(ctx context.Context, id string) ([]byte, error) {
	key := MongoID(id)
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "dataset %q not found in mongodb", key)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load dataset %q", key)
	}
	return datasetJSON(doc.Dataset)
}

// Store upserts the dataset JSON data under id.
func (s *MongoSource) Store(ctx context.Context, id string, data []byte) error {
	var dataset bson.D
	if err := bson.UnmarshalExtJSON(data, false, &dataset); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDataset, err, "dataset %q is not a JSON object", id)
	}
	key := MongoID(id)
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: key}},
		bson.D{{Key: "_id", Value: key}, {Key: "dataset", Value: dataset}},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "store dataset %q", key)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// MongoID strips the mongo:// scheme from id.
func MongoID(id string) string { return strings.TrimPrefix(id, MongoScheme) }

func datasetJSON(v bson.RawValue) ([]byte, error) {
	switch v.Type {
	case bson.TypeString:
		return []byte(v.StringValue()), nil
	case bson.TypeEmbeddedDocument:
		data, err := bson.MarshalExtJSON(v.Document(), false, false)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "encode dataset")
		}
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidDataset, "dataset field has unsupported type %s", v.Type)
}
