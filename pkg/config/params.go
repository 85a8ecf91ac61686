package config

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Params is a snapshot of the environment configuration.
type Params struct {
	Epochs     int
	BatchSize  int
	HiddenSize int
	Samples    int
	Workers    int

	LearnRate     float64
	L2Penalty     float64
	BalanceWeight float64
	Noise         float64

	Optimizer  string
	Loss       string
	Activation string
	Strategy   string

	Seed         uint64
	CachePath    string
	FetchTimeout time.Duration
}

func NewParamsFromDefaults() Params {
	return Params{
		Epochs:     Epochs(),
		BatchSize:  BatchSize(),
		HiddenSize: HiddenSize(),
		Samples:    Samples(),
		Workers:    Workers(),

		LearnRate:     LearnRate(),
		L2Penalty:     L2Penalty(),
		BalanceWeight: BalanceWeight(),
		Noise:         Noise(),

		Optimizer:  Optimizer(),
		Loss:       Loss(),
		Activation: Activation(),
		Strategy:   Strategy(),

		Seed:         Seed(),
		CachePath:    CachePath(),
		FetchTimeout: FetchTimeout(),
	}
}

func (p Params) Write(w io.Writer, title string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendRows([]table.Row{
		{"TINYNET_EPOCHS", fmt.Sprintf("%d", p.Epochs)},
		{"TINYNET_BATCH_SIZE", fmt.Sprintf("%d", p.BatchSize)},
		{"TINYNET_HIDDEN_SIZE", fmt.Sprintf("%d", p.HiddenSize)},
		{"TINYNET_SAMPLES", fmt.Sprintf("%d", p.Samples)},
		{"TINYNET_WORKERS", fmt.Sprintf("%d", p.Workers)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"TINYNET_OPTIMIZER", p.Optimizer},
		{"TINYNET_LEARN_RATE", fmt.Sprintf("%.06f", p.LearnRate)},
		{"TINYNET_L2_PENALTY", fmt.Sprintf("%.06f", p.L2Penalty)},
		{"TINYNET_LOSS", p.Loss},
		{"TINYNET_ACTIVATION", p.Activation},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"TINYNET_STRATEGY", p.Strategy},
		{"TINYNET_BALANCE_WEIGHT", fmt.Sprintf("%.04f", p.BalanceWeight)},
		{"TINYNET_NOISE", fmt.Sprintf("%.04f", p.Noise)},
		{"TINYNET_SEED", fmt.Sprintf("%d", p.Seed)},
		{"TINYNET_CACHE_PATH", p.CachePath},
		{"TINYNET_FETCH_TIMEOUT", fmt.Sprintf("%0.0f", p.FetchTimeout.Seconds())},
	})
	t.Render()
}
