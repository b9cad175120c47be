package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/wadjakorntonsri/selectify-server/pkg/core/domain"
	"github.com/wadjakorntonsri/selectify-server/pkg/observability"
	"github.com/wadjakorntonsri/selectify-server/pkg/ports"
)

const (
	queriesCollection         = "queries"
	recommendationsCollection = "recommendations"
)

// MongoRepository owns the single client shared by every request and the
// two collection handles.
type MongoRepository struct {
	client          *mongo.Client
	queries         *mongo.Collection
	recommendations *mongo.Collection
}

// queryDocument is the stored shape of a domain.Query
type queryDocument struct {
	ID                  bson.ObjectID `bson:"_id,omitempty"`
	ProductName         string        `bson:"productName"`
	ProductBrand        string        `bson:"productBrand"`
	ProductImageURL     string        `bson:"productImageUrl"`
	QueryTitle          string        `bson:"queryTitle"`
	BoycottReason       string        `bson:"boycottReason"`
	UserEmail           string        `bson:"userEmail"`
	UserName            string        `bson:"userName"`
	UserImage           string        `bson:"userImage"`
	Timestamp           time.Time     `bson:"timestamp"`
	RecommendationCount int64         `bson:"recommendationCount"`
}

// NewMongoRepository connects, pings the admin database and returns the
// repository. A failed ping is returned to the caller as a startup fault.
func NewMongoRepository(ctx context.Context, uri, database string) (*MongoRepository, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	log.Info().Str("database", database).Msg("connected to MongoDB")

	db := client.Database(database)
	return &MongoRepository{
		client:          client,
		queries:         db.Collection(queriesCollection),
		recommendations: db.Collection(recommendationsCollection),
	}, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoRepository) CreateQuery(ctx context.Context, query *domain.Query) error {
	doc := toQueryDocument(query)
	doc.ID = bson.NewObjectID()

	_, err := r.queries.InsertOne(ctx, doc)
	if err := observability.ObserveStoreOp(queriesCollection, "insert", err); err != nil {
		return err
	}

	query.ID = doc.ID.Hex()
	return nil
}

func (r *MongoRepository) GetQuery(ctx context.Context, id string) (*domain.Query, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var doc queryDocument
	err = r.queries.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		_ = observability.ObserveStoreOp(queriesCollection, "find_one", nil)
		return nil, nil
	}
	if err := observability.ObserveStoreOp(queriesCollection, "find_one", err); err != nil {
		return nil, err
	}

	return doc.toDomain(), nil
}

func (r *MongoRepository) ListQueries(ctx context.Context) ([]domain.Query, error) {
	queries, err := r.findQueries(ctx, bson.D{})
	return queries, observability.ObserveStoreOp(queriesCollection, "find", err)
}

func (r *MongoRepository) ListQueriesByOwner(ctx context.Context, email string) ([]domain.Query, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	queries, err := r.findQueries(ctx, bson.D{{Key: "userEmail", Value: email}}, opts)
	return queries, observability.ObserveStoreOp(queriesCollection, "find", err)
}

func (r *MongoRepository) findQueries(ctx context.Context, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]domain.Query, error) {
	cursor, err := r.queries.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	var docs []queryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	queries := make([]domain.Query, 0, len(docs))
	for i := range docs {
		queries = append(queries, *docs[i].toDomain())
	}
	return queries, nil
}

func (r *MongoRepository) UpdateQuery(ctx context.Context, id string, fields domain.QueryFields) (*domain.UpdateResult, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "productName", Value: fields.ProductName},
		{Key: "productBrand", Value: fields.ProductBrand},
		{Key: "productImageUrl", Value: fields.ProductImageURL},
		{Key: "queryTitle", Value: fields.QueryTitle},
		{Key: "boycottReason", Value: fields.BoycottReason},
	}}}

	res, err := r.queries.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err := observability.ObserveStoreOp(queriesCollection, "update", err); err != nil {
		return nil, err
	}
	return toUpdateResult(res), nil
}

func (r *MongoRepository) DeleteQuery(ctx context.Context, id string) (*domain.DeleteResult, error) {
	return r.deleteByID(ctx, r.queries, queriesCollection, id)
}

// AddRecommendationCount applies $inc, which the server performs atomically
// on the single document.
func (r *MongoRepository) AddRecommendationCount(ctx context.Context, id string, delta int64) (*domain.UpdateResult, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "recommendationCount", Value: delta}}}}
	res, err := r.queries.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err := observability.ObserveStoreOp(queriesCollection, "increment", err); err != nil {
		return nil, err
	}
	return toUpdateResult(res), nil
}

func (r *MongoRepository) CreateRecommendation(ctx context.Context, rec domain.Recommendation) (string, error) {
	doc := bson.M{}
	for k, v := range rec.WithoutID() {
		doc[k] = v
	}
	oid := bson.NewObjectID()
	doc["_id"] = oid

	_, err := r.recommendations.InsertOne(ctx, doc)
	if err := observability.ObserveStoreOp(recommendationsCollection, "insert", err); err != nil {
		return "", err
	}
	return oid.Hex(), nil
}

func (r *MongoRepository) ListRecommendations(ctx context.Context, field, value string) ([]domain.Recommendation, error) {
	recs, err := r.findRecommendations(ctx, bson.D{{Key: field, Value: value}})
	return recs, observability.ObserveStoreOp(recommendationsCollection, "find", err)
}

func (r *MongoRepository) findRecommendations(ctx context.Context, filter bson.D) ([]domain.Recommendation, error) {
	cursor, err := r.recommendations.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	recs := make([]domain.Recommendation, 0, len(docs))
	for _, doc := range docs {
		recs = append(recs, domain.Recommendation(normalizeDocument(doc)))
	}
	return recs, nil
}

func (r *MongoRepository) DeleteRecommendation(ctx context.Context, id string) (*domain.DeleteResult, error) {
	return r.deleteByID(ctx, r.recommendations, recommendationsCollection, id)
}

func (r *MongoRepository) deleteByID(ctx context.Context, coll *mongo.Collection, name, id string) (*domain.DeleteResult, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err := observability.ObserveStoreOp(name, "delete", err); err != nil {
		return nil, err
	}
	return &domain.DeleteResult{Acknowledged: res.Acknowledged, DeletedCount: res.DeletedCount}, nil
}

func toQueryDocument(q *domain.Query) *queryDocument {
	return &queryDocument{
		ProductName:         q.ProductName,
		ProductBrand:        q.ProductBrand,
		ProductImageURL:     q.ProductImageURL,
		QueryTitle:          q.QueryTitle,
		BoycottReason:       q.BoycottReason,
		UserEmail:           q.UserEmail,
		UserName:            q.UserName,
		UserImage:           q.UserImage,
		Timestamp:           q.Timestamp,
		RecommendationCount: q.RecommendationCount,
	}
}

func (d *queryDocument) toDomain() *domain.Query {
	return &domain.Query{
		ID:                  d.ID.Hex(),
		ProductName:         d.ProductName,
		ProductBrand:        d.ProductBrand,
		ProductImageURL:     d.ProductImageURL,
		QueryTitle:          d.QueryTitle,
		BoycottReason:       d.BoycottReason,
		UserEmail:           d.UserEmail,
		UserName:            d.UserName,
		UserImage:           d.UserImage,
		Timestamp:           d.Timestamp.UTC(),
		RecommendationCount: d.RecommendationCount,
	}
}

func toUpdateResult(res *mongo.UpdateResult) *domain.UpdateResult {
	return &domain.UpdateResult{
		Acknowledged:  res.Acknowledged,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}
}

// normalizeDocument converts BSON-specific values into plain JSON-friendly
// Go values so arbitrary recommendation documents encode cleanly.
func normalizeDocument(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case bson.ObjectID:
		return val.Hex()
	case bson.DateTime:
		return val.Time().UTC()
	case bson.Decimal128:
		return val.String()
	case bson.M:
		return normalizeDocument(val)
	case bson.D:
		m := make(bson.M, len(val))
		for _, e := range val {
			m[e.Key] = e.Value
		}
		return normalizeDocument(m)
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

// Ensure interface compliance
var _ ports.Store = (*MongoRepository)(nil)
