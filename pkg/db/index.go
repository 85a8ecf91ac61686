package db

import (
	"context"
	"net/url"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultDatabase = "tinynet"

// EnsureIndex creates model on collectionName unless an index with the same
// name already exists.
func EnsureIndex(ctx context.Context, db *mongo.Database, collectionName string, model mongo.IndexModel) error {
	if model.Options == nil || model.Options.Name == nil {
		return errors.New("must provide a name for index")
	}
	expectedName := *model.Options.Name

	idxs := db.Collection(collectionName).Indexes()
	cur, err := idxs.List(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to list indexes")
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var d bson.M
		if err := cur.Decode(&d); err != nil {
			return errors.Wrap(err, "unable to decode bson index document")
		}
		if name, ok := d["name"].(string); ok && name == expectedName {
			return nil
		}
	}

	_, err = idxs.CreateOne(ctx, model)
	return err
}

// databaseName takes the database from the URL path.
func databaseName(mongoURL string) (string, error) {
	uri, err := url.Parse(mongoURL)
	if err != nil {
		return "", errors.Wrap(err, "invalid mongo url")
	}
	if name := strings.Trim(uri.Path, "/"); name != "" {
		return name, nil
	}
	return defaultDatabase, nil
}

func ConnectMongo(ctx context.Context, mongoURL string) (*mongo.Database, error) {
	registry := bson.NewRegistry()
	registry.RegisterTypeMapEntry(0x03, reflect.TypeOf(bson.M{}))

	dbName, err := databaseName(mongoURL)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL).SetRegistry(registry))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongo")
	}
	return client.Database(dbName), nil
}
