// Package mongo stores forecast datasets in MongoDB, one document per
// ticker in the "forecasts" collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	fverrors "github.com/matzehuels/forecastviz/pkg/errors"
	"github.com/matzehuels/forecastviz/pkg/forecast"
	"github.com/matzehuels/forecastviz/pkg/series"
)

// Collection is the default collection name.
const Collection = "forecasts"

// Store is a [source.Source] backed by a MongoDB collection.
//
// [source.Source]: github.com/matzehuels/forecastviz/pkg/source#Source
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// Connect dials uri and opens the forecasts collection of database db.
// The returned store owns the client and disconnects it on Close.
func Connect(ctx context.Context, uri, db string) (*Store, error) {
	if db == "" {
		db = "forecastviz"
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fverrors.Wrap(fverrors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fverrors.Wrap(fverrors.ErrCodeNetwork, err, "ping mongodb")
	}
	s := New(client.Database(db).Collection(Collection))
	s.client, s.owned = client, true
	return s, nil
}

// New wraps an existing collection.
func New(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

func (s *Store) Name() string { return "mongo" }

// document is the stored form of a dataset. Gaps are stored as null.
type document struct {
	Ticker            string          `bson:"_id"`
	Labels            []string        `bson:"labels"`
	Actual            []*float64      `bson:"actual"`
	Predicted         []*float64      `bson:"predicted"`
	Historical        []historicalDoc `bson:"historical,omitempty"`
	PredictStartIndex int             `bson:"predict_start_index"`
	Annotation        string          `bson:"annotation,omitempty"`
	UpdatedAt         time.Time       `bson:"updated_at"`
}

type historicalDoc struct {
	AsOfIndex int        `bson:"as_of_index"`
	Values    []*float64 `bson:"values"`
}

func toDocument(ds *forecast.Dataset, now time.Time) document {
	doc := document{
		Ticker:            strings.ToUpper(ds.Ticker),
		Labels:            ds.Labels,
		Actual:            ds.Actual.Pointers(),
		Predicted:         ds.Predicted.Pointers(),
		PredictStartIndex: ds.PredictStartIndex,
		Annotation:        ds.Annotation,
		UpdatedAt:         now.UTC(),
	}
	for _, h := range ds.Historical {
		doc.Historical = append(doc.Historical, historicalDoc{AsOfIndex: h.AsOfIndex, Values: h.Values.Pointers()})
	}
	return doc
}

func (d document) dataset() *forecast.Dataset {
	ds := &forecast.Dataset{
		Ticker:            d.Ticker,
		Labels:            d.Labels,
		Actual:            series.FromPointers(d.Actual),
		Predicted:         series.FromPointers(d.Predicted),
		PredictStartIndex: d.PredictStartIndex,
		Annotation:        d.Annotation,
	}
	for _, h := range d.Historical {
		ds.Historical = append(ds.Historical, forecast.HistoricalPrediction{
			AsOfIndex: h.AsOfIndex,
			Values:    series.FromPointers(h.Values),
		})
	}
	return ds
}

// Dataset loads the document for ticker.
func (s *Store) Dataset(ctx context.Context, ticker string) (*forecast.Dataset, error) {
	if err := fverrors.ValidateTicker(ticker); err != nil {
		return nil, err
	}
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": strings.ToUpper(ticker)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fverrors.New(fverrors.ErrCodeNotFound, "no forecast for %s", ticker)
	}
	if err != nil {
		return nil, fverrors.Wrap(fverrors.ErrCodeNetwork, err, "find %s", ticker)
	}
	return doc.dataset(), nil
}

// Put upserts a dataset.
func (s *Store) Put(ctx context.Context, ds *forecast.Dataset) error {
	if err := fverrors.ValidateTicker(ds.Ticker); err != nil {
		return err
	}
	doc := toDocument(ds, time.Now())
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.Ticker}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", doc.Ticker, err)
	}
	return nil
}

// Tickers lists the stored tickers in ascending order.
func (s *Store) Tickers(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var row struct {
			Ticker string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row.Ticker)
	}
	return out, cur.Err()
}

// Close disconnects the client when the store owns it.
func (s *Store) Close(ctx context.Context) error {
	if !s.owned || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
