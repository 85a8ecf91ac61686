package db

import (
	"context"
	"time"

	"github.com/grexie/tinynet/pkg/config"
	"github.com/grexie/tinynet/pkg/metrics"
	"github.com/grexie/tinynet/pkg/targetcost"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const RunsCollection = "runs"

// Run is one training run as stored in the runs collection.
type Run struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	Name      string             `bson:"name"`
	Source    string             `bson:"source"`

	Params      config.Params `bson:"params"`
	ClassCounts []int         `bson:"classCounts"`
	ClassCosts  []float64     `bson:"classCosts,omitempty"`
	EpochLoss   []float64     `bson:"epochLoss"`

	Accuracy         float64   `bson:"accuracy"`
	BalancedAccuracy float64   `bson:"balancedAccuracy"`
	F1Scores         []float64 `bson:"f1Scores"`
	Confusion        [][]int   `bson:"confusion"`
}

// NewRun assembles a run document. summary may be the zero Summary when the
// run trained without a target cost.
func NewRun(name, source string, params config.Params, summary targetcost.Summary, counts []int, epochLoss []float64, m metrics.Metrics) Run {
	r := Run{
		CreatedAt: time.Now().UTC(),
		Name:      name,
		Source:    source,

		Params:      params,
		ClassCounts: counts,
		EpochLoss:   epochLoss,

		Accuracy:         m.Accuracy,
		BalancedAccuracy: m.BalancedAccuracy,
		F1Scores:         m.F1Scores,
		Confusion:        m.Confusion,
	}
	for _, c := range summary.Classes {
		r.ClassCosts = append(r.ClassCosts, c.Cost)
	}
	return r
}

func ensureRunIndexes(ctx context.Context, db *mongo.Database) error {
	return EnsureIndex(ctx, db, RunsCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("name_createdAt"),
	})
}

// RecordRun stores r and returns its id.
func RecordRun(ctx context.Context, db *mongo.Database, r Run) (primitive.ObjectID, error) {
	id, err := WithTransaction(ctx, db, func(ctx context.Context) (any, error) {
		if err := ensureRunIndexes(ctx, db); err != nil {
			return nil, err
		}
		res, err := db.Collection(RunsCollection).InsertOne(ctx, r)
		if err != nil {
			return nil, err
		}
		return res.InsertedID, nil
	})
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(err, "failed to record run %s", r.Name)
	}

	oid, ok := id.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.Errorf("unexpected id %v", id)
	}
	return oid, nil
}
