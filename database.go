package ninjacatalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	categoryCollection = "categories"
	productCollection  = "products"
)

// MongoStore persists categories and products, one database per site. Records
// are upserted by id so a re-crawl replaces the previous snapshot.
type MongoStore struct {
	client   *mongo.Client
	database string
	logger   Logger
}

// ConnectMongoStore connects with the DB_* settings and checks the connection.
// DB_NAME defaults to the site name.
func (app *Crawler) ConnectMongoStore(ctx context.Context) (*MongoStore, error) {
	return ConnectMongoStore(ctx, mongoUri(app.Config), app.Config.EnvString("DB_NAME", app.Name), app.Logger)
}

func ConnectMongoStore(ctx context.Context, uri, database string, logger Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := &MongoStore{client: client, database: database, logger: logger}
	store.ensureIndexes(ctx)
	return store, nil
}

func mongoUri(config *configService) string {
	if uri := config.EnvString("DB_URI"); uri != "" {
		return uri
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s",
		config.EnvString("DB_USERNAME"),
		config.EnvString("DB_PASSWORD"),
		config.EnvString("DB_HOST", "localhost"),
		config.EnvString("DB_PORT", "27017"),
	)
}

func (s *MongoStore) collection(name string) *mongo.Collection {
	return s.client.Database(s.database).Collection(name)
}

// ensureIndexes indexes the lookups done by downstream consumers.
func (s *MongoStore) ensureIndexes(ctx context.Context) {
	indexes := map[string]mongo.IndexModel{
		categoryCollection: {Keys: bson.D{{Key: "parent_id", Value: 1}, {Key: "index", Value: 1}}},
		productCollection:  {Keys: bson.M{"url": 1}},
	}
	for name, index := range indexes {
		if _, err := s.collection(name).Indexes().CreateOne(ctx, index); err != nil {
			s.logger.Error("Could not create index on %s: %v", name, err)
		}
	}
}

func (s *MongoStore) SaveCategory(ctx context.Context, category *Category) error {
	return s.upsert(ctx, categoryCollection, category.ID, category)
}

func (s *MongoStore) SaveProduct(ctx context.Context, product *Product) error {
	return s.upsert(ctx, productCollection, product.ID, product)
}

func (s *MongoStore) upsert(ctx context.Context, collection, id string, document interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.collection(collection).ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, document, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("could not save %s %s: %w", collection, id, err)
	}
	return nil
}

// Products implements ProductPager.
func (s *MongoStore) Products(ctx context.Context, page, pageSize int) ([]Product, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cursor, err := s.collection(productCollection).Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []Product
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Drop removes the site's database.
func (s *MongoStore) Drop(ctx context.Context) error {
	return s.client.Database(s.database).Drop(ctx)
}

func (s *MongoStore) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
