// Package mongo persists the enriched catalog in a MongoDB collection and
// serves catalog queries from it.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
)

// Store implements pipeline.BatchLoader and domain.CatalogReader over a
// single collection. Every load replaces the collection contents.
type Store struct {
	client     *mongodrv.Client
	collection *mongodrv.Collection
	logger     *slog.Logger
}

// document is the stored shape of one ParsedElement.
type document struct {
	Name                string     `bson:"name"`
	Line1               string     `bson:"line1"`
	Line2               string     `bson:"line2"`
	CatalogNumber       *int       `bson:"catalog_number"`
	MeanMotionRevPerDay *float64   `bson:"mean_motion_rev_per_day"`
	Epoch               *time.Time `bson:"epoch"`
	ApproxAltitudeKm    *float64   `bson:"approx_alt_km"`
	AltitudeSource      string     `bson:"altitude_source,omitempty"`
	Propagation         string     `bson:"propagation_status,omitempty"`
	OrbitClass          string     `bson:"orbit_class"`
	Type                string     `bson:"type"`
	ProcessedAt         time.Time  `bson:"processed_at"`
}

// NewStore connects to uri, verifies the connection and ensures the name
// index exists.
func NewStore(ctx context.Context, uri, database, collection string, logger *slog.Logger) (*Store, error) {
	client, err := mongodrv.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	if _, err := coll.Indexes().CreateOne(ctx, mongodrv.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create name index: %w", err)
	}

	return &Store{client: client, collection: coll, logger: logger}, nil
}

// LoadBatch deletes every stored document and inserts records.
func (s *Store) LoadBatch(ctx context.Context, records []domain.ParsedElement) error {
	deleted, err := s.collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	docs := make([]any, len(records))
	for i := range records {
		docs[i] = toDocument(records[i])
	}
	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %d documents: %w", len(docs), err)
	}
	s.logger.Debug("mongo catalog replaced", "deleted", deleted.DeletedCount, "inserted", len(docs))
	return nil
}

func (s *Store) List(ctx context.Context, class domain.OrbitClass) ([]domain.ParsedElement, error) {
	filter := bson.D{}
	if class != "" {
		filter = bson.D{{Key: "orbit_class", Value: string(class)}}
	}
	return s.find(ctx, filter)
}

func (s *Store) FindByName(ctx context.Context, name string) (domain.ParsedElement, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&doc)
	if errors.Is(err, mongodrv.ErrNoDocuments) {
		return domain.ParsedElement{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ParsedElement{}, fmt.Errorf("find %q: %w", name, err)
	}
	return fromDocument(doc), nil
}

// Search matches query as a literal, case-insensitive substring of the name.
func (s *Store) Search(ctx context.Context, query string) ([]domain.ParsedElement, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.ParsedElement{}, nil
	}
	return s.find(ctx, searchFilter(query))
}

// Ping reports whether the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) find(ctx context.Context, filter bson.D) ([]domain.ParsedElement, error) {
	cur, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	out := make([]domain.ParsedElement, len(docs))
	for i := range docs {
		out[i] = fromDocument(docs[i])
	}
	return out, nil
}

func searchFilter(query string) bson.D {
	return bson.D{{Key: "name", Value: primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}}
}

func toDocument(el domain.ParsedElement) document {
	return document{
		Name:                el.Name,
		Line1:               el.Line1,
		Line2:               el.Line2,
		CatalogNumber:       el.CatalogNumber,
		MeanMotionRevPerDay: el.MeanMotionRevPerDay,
		Epoch:               el.Epoch,
		ApproxAltitudeKm:    el.ApproxAltitudeKm,
		AltitudeSource:      string(el.AltitudeSource),
		Propagation:         string(el.Propagation),
		OrbitClass:          string(el.OrbitClass),
		Type:                string(el.Type),
		ProcessedAt:         el.ProcessedAt,
	}
}

func fromDocument(d document) domain.ParsedElement {
	var epoch *time.Time
	if d.Epoch != nil {
		e := d.Epoch.UTC()
		epoch = &e
	}
	return domain.ParsedElement{
		Name:                d.Name,
		Line1:               d.Line1,
		Line2:               d.Line2,
		CatalogNumber:       d.CatalogNumber,
		MeanMotionRevPerDay: d.MeanMotionRevPerDay,
		Epoch:               epoch,
		ApproxAltitudeKm:    d.ApproxAltitudeKm,
		AltitudeSource:      domain.AltitudeSource(d.AltitudeSource),
		Propagation:         domain.PropagationStatus(d.Propagation),
		OrbitClass:          domain.OrbitClass(d.OrbitClass),
		Type:                domain.ObjectType(d.Type),
		ProcessedAt:         d.ProcessedAt.UTC(),
	}
}
