// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package anomaly

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// eulerGamma is the Euler-Mascheroni constant.
const eulerGamma = 0.5772156649

// Node is one isolation tree node. Leaves have Left == -1.
type Node struct {
	Feature int
	Split   float64
	Left    int32
	Right   int32
	Size    int
}

// Tree is a flattened isolation tree rooted at Nodes[0].
type Tree struct {
	Nodes []Node
}

// ForestConfig controls isolation forest construction.
type ForestConfig struct {
	NEstimators int
	MaxSamples  int
	Seed        int64
}

// Forest is an ensemble of isolation trees.
type Forest struct {
	Trees      []Tree
	SampleSize int
}

// FitForest grows cfg.NEstimators trees on random subsamples of data. Each
// tree gets its own seed drawn from cfg.Seed, so the result does not depend
// on scheduling.
func FitForest(ctx context.Context, data [][]float64, cfg ForestConfig) (*Forest, error) {
	if len(data) == 0 {
		return nil, errors.New("fit forest: no samples")
	}
	if cfg.NEstimators < 1 {
		return nil, errors.New("fit forest: n_estimators must be positive")
	}

	psi := cfg.MaxSamples
	if psi <= 0 || psi > len(data) {
		psi = len(data)
	}
	heightLimit := int(math.Ceil(math.Log2(math.Max(float64(psi), 2))))

	master := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible model, not security sensitive
	seeds := make([]int64, cfg.NEstimators)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	f := &Forest{Trees: make([]Tree, cfg.NEstimators), SampleSize: psi}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, seed := range seeds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible model, not security sensitive
			sample := rng.Perm(len(data))[:psi]
			b := treeBuilder{data: data, rng: rng, heightLimit: heightLimit}
			b.grow(sample, 0)
			f.Trees[i] = Tree{Nodes: b.nodes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

type treeBuilder struct {
	data        [][]float64
	rng         *rand.Rand
	heightLimit int
	nodes       []Node
}

// grow appends the subtree for idx and returns its root index.
func (b *treeBuilder) grow(idx []int, depth int) int32 {
	self := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{Left: -1, Right: -1, Size: len(idx)})
	if depth >= b.heightLimit || len(idx) <= 1 {
		return self
	}

	width := len(b.data[idx[0]])
	candidates := make([]int, 0, width)
	lows := make([]float64, width)
	highs := make([]float64, width)
	for j := 0; j < width; j++ {
		lo, hi := b.data[idx[0]][j], b.data[idx[0]][j]
		for _, r := range idx[1:] {
			v := b.data[r][j]
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if hi > lo {
			candidates = append(candidates, j)
			lows[j], highs[j] = lo, hi
		}
	}
	if len(candidates) == 0 {
		return self
	}

	feature := candidates[b.rng.Intn(len(candidates))]
	split := lows[feature] + b.rng.Float64()*(highs[feature]-lows[feature])

	var left, right []int
	for _, r := range idx {
		if b.data[r][feature] <= split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[self].Feature = feature
	b.nodes[self].Split = split
	b.nodes[self].Left = l
	b.nodes[self].Right = r
	return self
}

// pathLength is the depth at which x lands, plus the expected remaining
// depth for the points still sharing its leaf.
func (t *Tree) pathLength(x []float64) float64 {
	var depth float64
	i := int32(0)
	for {
		n := &t.Nodes[i]
		if n.Left < 0 {
			return depth + averagePathLength(n.Size)
		}
		if x[n.Feature] <= n.Split {
			i = n.Left
		} else {
			i = n.Right
		}
		depth++
	}
}

// Score returns -2^(-E[h(x)]/c(psi)). Values lie in [-1, 0]; lower values
// are more anomalous.
func (f *Forest) Score(x []float64) float64 {
	var total float64
	for i := range f.Trees {
		total += f.Trees[i].pathLength(x)
	}
	mean := total / float64(len(f.Trees))

	norm := averagePathLength(f.SampleSize)
	if norm <= 0 {
		norm = 1
	}
	return -math.Pow(2, -mean/norm)
}

// averagePathLength is c(n), the average path length of an unsuccessful
// binary search tree lookup among n points.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		fn := float64(n)
		return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
	}
}

// percentile interpolates linearly between closest ranks, p in [0, 100].
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
