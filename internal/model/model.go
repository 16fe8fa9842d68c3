// Package model implements the three trainable predictors behind the
// insights API: an LSTM absence forecaster, a feed-forward performance
// scorer, and a candidate-job matcher. Each model shares the same
// lifecycle: weights live in memory behind a read lock, training builds a
// fresh network and swaps it in on completion, and the best checkpoint
// seen during training is persisted through the artifact store.
package model

import (
	"math/rand"
	"time"
)

// TrainConfig carries the tunables of one training run. Zero values fall
// back to the per-model defaults.
type TrainConfig struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	Seed         int64
}

func (c TrainConfig) withDefaults(epochs, batchSize int, learningRate float64) TrainConfig {
	if c.Epochs <= 0 {
		c.Epochs = epochs
	}
	if c.BatchSize <= 0 {
		c.BatchSize = batchSize
	}
	if c.LearningRate <= 0 {
		c.LearningRate = learningRate
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

func (c TrainConfig) rng() *rand.Rand {
	return rand.New(rand.NewSource(c.Seed))
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// shuffled returns a permutation of [0, n) drawn from rng.
func shuffled(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	return idx
}
