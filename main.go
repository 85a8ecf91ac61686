package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/grexie/tinynet/pkg/config"
	"github.com/grexie/tinynet/pkg/dataset"
	"github.com/grexie/tinynet/pkg/db"
	"github.com/grexie/tinynet/pkg/metrics"
	"github.com/grexie/tinynet/pkg/network"
	"github.com/grexie/tinynet/pkg/targetcost"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/syndtr/goleveldb/leveldb"
)

func loadEnv(filenames ...string) {
	for _, filename := range filenames {
		if s, err := os.Stat(filename); err == nil && !s.IsDir() {
			godotenv.Load(filename)
		}
	}
}

func newProgressWriter() progress.Writer {
	pw := progress.NewWriter()
	pw.SetMessageLength(40)
	pw.SetNumTrackersExpected(2)
	pw.SetSortBy(progress.SortByPercentDsc)
	pw.SetStyle(progress.StyleDefault)
	pw.SetTrackerLength(15)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(time.Millisecond * 100)
	pw.Style().Colors = progress.StyleColorsExample
	pw.Style().Options.PercentFormat = "%2.0f%%"
	go pw.Render()
	return pw
}

func stopProgressWriter(pw progress.Writer) {
	pw.Stop()
	for pw.IsRenderInProgress() {
		time.Sleep(100 * time.Millisecond)
	}
}

func newNetwork(p config.Params, inputs, outputs int) (*network.Network, error) {
	activation, err := network.ParseActivation(p.Activation)
	if err != nil {
		return nil, err
	}
	loss, err := network.ParseLoss(p.Loss)
	if err != nil {
		return nil, err
	}
	kind, err := network.ParseOptimizerKind(p.Optimizer)
	if err != nil {
		return nil, err
	}

	sizes := []int{inputs}
	if p.HiddenSize > 0 {
		sizes = append(sizes, p.HiddenSize)
	}
	sizes = append(sizes, outputs)

	return network.New(sizes,
		network.WithActivation(activation),
		network.WithLoss(loss),
		network.WithOptimizer(network.Optimizer{
			Kind:      kind,
			LearnRate: p.LearnRate,
			L2Penalty: p.L2Penalty,
		}))
}

type run struct {
	name    string
	source  string
	summary targetcost.Summary
	counts  []int
	result  *network.Result
	metrics metrics.Metrics
}

// fit trains a fresh network on train with cost and evaluates it on test.
func fit(p config.Params, name string, train, test dataset.Set, cost targetcost.Optional) (run, error) {
	counts := targetcost.CalculateLabelCounts(train.Labels)
	outputs := max(len(counts), 2)

	n, err := newNetwork(p, len(train.Features[0]), outputs)
	if err != nil {
		return run{}, err
	}

	pw := newProgressWriter()
	defer stopProgressWriter(pw)

	batchSize := min(p.BatchSize, train.Len())
	result, err := n.Train(train.Features, train.Labels, network.TrainOptions{
		Epochs:     p.Epochs,
		BatchSize:  batchSize,
		Shuffle:    true,
		TargetCost: cost,
		Rand:       rand.New(rand.NewPCG(p.Seed, 0)),
		Progress:   pw,
	})
	if err != nil {
		return run{}, err
	}

	m, err := metrics.Evaluate(pw, n, test.Features, test.Labels, p.Workers)
	if err != nil {
		return run{}, err
	}

	return run{name: name, counts: counts, result: result, metrics: m}, nil
}

func record(ctx context.Context, p config.Params, runs ...run) {
	mongoURL := config.MongoURL()
	if mongoURL == "" {
		return
	}

	database, err := db.ConnectMongo(ctx, mongoURL)
	if err != nil {
		log.Printf("not recording runs: %v", err)
		return
	}
	defer database.Client().Disconnect(ctx)

	for _, r := range runs {
		doc := db.NewRun(r.name, r.source, p, r.summary, r.counts, r.result.EpochLoss, r.metrics)
		if id, err := db.RecordRun(ctx, database, doc); err != nil {
			log.Printf("%v", err)
		} else {
			log.Printf("recorded run %s as %s", r.name, id.Hex())
		}
	}
}

func openCache(path string) *leveldb.DB {
	cache, err := leveldb.OpenFile(path, nil)
	if err != nil {
		log.Printf("dataset cache disabled: %v", err)
		return nil
	}
	return cache
}

func experimentCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "experiment [identity|xor]",
		Short:     "Train uniform and balanced cost networks on unbalanced synthetic data",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"identity", "xor"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "identity"
			if len(args) > 0 {
				kind = args[0]
			}

			p := config.NewParamsFromDefaults()
			p.Write(os.Stdout, "Config")

			src := dataset.NewSource(p.Seed)
			var train, test dataset.Set
			switch kind {
			case "identity":
				train = dataset.UnbalancedIdentity(p.Samples, 0.9, 0.6, 0.9, src)
				test = dataset.BalancedIdentity(p.Samples/2, src)
			case "xor":
				train = dataset.UnbalancedXOR(p.Samples, 0.9, p.Noise, src)
				test = dataset.BalancedXOR(p.Samples/2, src)
				if p.HiddenSize == 0 {
					p.HiddenSize = 4
				}
			}

			summary, err := targetcost.Summarize(train.Labels, p.BalanceWeight)
			if err != nil {
				return err
			}
			summary.Write(os.Stdout)

			cost, err := targetcost.CreateBalancedTargetCost(train.Labels, p.BalanceWeight)
			if err != nil {
				return err
			}

			uniform, err := fit(p, kind+"-uniform", train, test, targetcost.None())
			if err != nil {
				return err
			}
			balanced, err := fit(p, kind+"-balanced", train, test, targetcost.Some(cost))
			if err != nil {
				return err
			}
			balanced.summary = summary

			uniform.metrics.Write(os.Stdout, "Uniform Cost")
			balanced.metrics.Write(os.Stdout, "Balanced Cost")
			log.Printf("errors: uniform %d/%d, balanced %d/%d",
				uniform.metrics.Errors, test.Len(), balanced.metrics.Errors, test.Len())

			uniform.source, balanced.source = "synthetic", "synthetic"
			record(cmd.Context(), p, uniform, balanced)
			return nil
		},
	}
}

func weightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weights <csv path|url>",
		Short: "Print the balanced target cost of a labelled dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := config.NewParamsFromDefaults()
			dataset.SetTimeout(p.FetchTimeout)

			cache := openCache(p.CachePath)
			if cache != nil {
				defer cache.Close()
			}

			s, err := dataset.Load(cmd.Context(), cache, args[0])
			if err != nil {
				return err
			}

			summary, err := targetcost.Summarize(s.Labels, p.BalanceWeight)
			if err != nil {
				return err
			}
			summary.Write(os.Stdout)
			return nil
		},
	}
}

func trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train <csv path|url>",
		Short: "Train on a labelled dataset with the configured balancing strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := config.NewParamsFromDefaults()
			p.Write(os.Stdout, "Config")
			dataset.SetTimeout(p.FetchTimeout)

			cache := openCache(p.CachePath)
			if cache != nil {
				defer cache.Close()
			}

			s, err := dataset.Load(cmd.Context(), cache, args[0])
			if err != nil {
				return err
			}
			if s.Len() == 0 {
				return fmt.Errorf("%s has no samples", args[0])
			}

			train := s
			cost := targetcost.None()
			var summary targetcost.Summary
			switch strings.ToLower(p.Strategy) {
			case "cost":
				if summary, err = targetcost.Summarize(s.Labels, p.BalanceWeight); err != nil {
					return err
				}
				summary.Write(os.Stdout)
				m, err := targetcost.CreateBalancedTargetCost(s.Labels, p.BalanceWeight)
				if err != nil {
					return err
				}
				cost = targetcost.Some(m)
			case "oversample":
				pw := newProgressWriter()
				train = dataset.Oversample(pw, s, p.Noise, rand.New(rand.NewPCG(p.Seed, 1)))
				stopProgressWriter(pw)
			case "none":
			default:
				return fmt.Errorf("unknown strategy %q", p.Strategy)
			}

			r, err := fit(p, p.Strategy, train, s, cost)
			if err != nil {
				return err
			}
			r.source, r.summary = args[0], summary

			r.metrics.Write(os.Stdout, "Training Set")
			record(cmd.Context(), p, r)
			return nil
		},
	}
}

func main() {
	if _, ok := os.LookupEnv("ENV"); !ok {
		os.Setenv("ENV", "development")
	}
	loadEnv(".env."+os.Getenv("ENV")+".local", ".env."+os.Getenv("ENV"), ".env.local", ".env")

	root := &cobra.Command{
		Use:           "tinynet",
		Short:         "Class-balanced training experiments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(experimentCmd(), weightsCmd(), trainCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
