package db

import (
	"testing"

	"github.com/grexie/tinynet/pkg/config"
	"github.com/grexie/tinynet/pkg/metrics"
	"github.com/grexie/tinynet/pkg/targetcost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNewRun(t *testing.T) {
	labels := []int{0, 0, 0, 1}
	summary, err := targetcost.Summarize(labels, 1)
	require.NoError(t, err)
	m := metrics.Calculate([][]int{{3, 0}, {1, 0}})

	r := NewRun("identity-balanced", "synthetic", config.Params{Epochs: 3}, summary, []int{3, 1}, []float64{0.5, 0.4}, m)
	assert.Equal(t, "identity-balanced", r.Name)
	assert.InDeltaSlice(t, []float64{4.0 / 6, 2}, r.ClassCosts, 1e-9)
	assert.InDelta(t, 75, r.Accuracy, 1e-9)
	assert.InDelta(t, 50, r.BalancedAccuracy, 1e-9)

	data, err := bson.Marshal(r)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(data, &doc))
	assert.NotContains(t, doc, "_id")
	assert.Contains(t, doc, "createdAt")
	assert.Contains(t, doc, "balancedAccuracy")
}

func TestNewRunWithoutCost(t *testing.T) {
	r := NewRun("none", "synthetic", config.Params{}, targetcost.Summary{}, []int{1}, nil, metrics.Calculate(metrics.NewConfusion(1)))
	assert.Empty(t, r.ClassCosts)
}

func TestDatabaseName(t *testing.T) {
	name, err := databaseName("mongodb://localhost:27017/experiments")
	require.NoError(t, err)
	assert.Equal(t, "experiments", name)

	name, err = databaseName("mongodb://localhost:27017")
	require.NoError(t, err)
	assert.Equal(t, "tinynet", name)

	_, err = databaseName("://bad")
	assert.Error(t, err)
}
