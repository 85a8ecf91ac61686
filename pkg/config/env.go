package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

func envInt(name string, def func() int, dec func(v int) int) func() int {
	return func() int {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseInt(v, 10, 32); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = int(v)
			}
		}
		return dec(value)
	}
}

func envUint64(name string, def func() uint64) func() uint64 {
	return func() uint64 {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseUint(v, 10, 64); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = v
			}
		}
		return value
	}
}

func envFloat64(name string, def func() float64, dec func(v float64) float64) func() float64 {
	return func() float64 {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseFloat(v, 64); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = v
			}
		}
		return dec(value)
	}
}

func envString(name string, def func() string) func() string {
	return func() string {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			value = v
		}
		return value
	}
}

// envDuration reads whole seconds.
func envDuration(name string, def func() time.Duration) func() time.Duration {
	return func() time.Duration {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseInt(v, 10, 32); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = time.Duration(v) * time.Second
			}
		}
		return value
	}
}

var (
	Epochs     = envInt("TINYNET_EPOCHS", func() int { return 50 }, BoundEpochs)
	BatchSize  = envInt("TINYNET_BATCH_SIZE", func() int { return 50 }, BoundBatchSize)
	HiddenSize = envInt("TINYNET_HIDDEN_SIZE", func() int { return 4 }, BoundHiddenSize)
	Samples    = envInt("TINYNET_SAMPLES", func() int { return 2000 }, BoundSamples)
	Workers    = envInt("TINYNET_WORKERS", func() int { return 0 }, BoundWorkers)
)

var (
	LearnRate     = envFloat64("TINYNET_LEARN_RATE", func() float64 { return 0.1 }, BoundLearnRate)
	L2Penalty     = envFloat64("TINYNET_L2_PENALTY", func() float64 { return 0 }, BoundL2Penalty)
	BalanceWeight = envFloat64("TINYNET_BALANCE_WEIGHT", func() float64 { return 1.0 }, BoundBalanceWeight)
	Noise         = envFloat64("TINYNET_NOISE", func() float64 { return 0.01 }, BoundNoise)
)

var (
	Optimizer  = envString("TINYNET_OPTIMIZER", func() string { return "adagrad" })
	Loss       = envString("TINYNET_LOSS", func() string { return "mse" })
	Activation = envString("TINYNET_ACTIVATION", func() string { return "tanh" })
	Strategy   = envString("TINYNET_STRATEGY", func() string { return "cost" })
	CachePath  = envString("TINYNET_CACHE_PATH", func() string { return "tinynet-cache.db" })
	MongoURL   = envString("MONGO_URL", func() string { return "" })

	Seed         = envUint64("TINYNET_SEED", func() uint64 { return 1 })
	FetchTimeout = envDuration("TINYNET_FETCH_TIMEOUT", func() time.Duration { return 30 * time.Second })
)
