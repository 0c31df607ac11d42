package detection

import (
	"math"
	"math/rand"
)

// ClusterConfig controls the 2-means clustering used to group Hough lines.
type ClusterConfig struct {
	// Attempts is the number of random restarts; the most compact result wins.
	Attempts int `yaml:"attempts"`
	// MaxIterations bounds the refinement loop of a single attempt.
	MaxIterations int `yaml:"max_iterations"`
	// Epsilon stops an attempt once no centre moves further than this.
	Epsilon float64 `yaml:"epsilon"`
	// Seed makes the random starting centres reproducible.
	Seed int64 `yaml:"seed"`
}

// DefaultClusterConfig returns 10 attempts of at most 10 iterations with a
// 1 pixel convergence tolerance.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		Attempts:      10,
		MaxIterations: 10,
		Epsilon:       1.0,
		Seed:          1,
	}
}

// twoMeans splits values into two clusters. labels[i] is 0 or 1 and centers
// holds the mean of each cluster. With at least two values both clusters
// are non-empty.
func twoMeans(values []float64, cfg ClusterConfig) (labels []int, centers [2]float64) {
	labels = make([]int, len(values))
	if len(values) < 2 {
		if len(values) == 1 {
			centers = [2]float64{values[0], values[0]}
		}
		return labels, centers
	}

	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}
	iterations := cfg.MaxIterations
	if iterations < 1 {
		iterations = 1
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	bestCompactness := math.Inf(1)
	work := make([]int, len(values))

	for a := 0; a < attempts; a++ {
		c := [2]float64{
			lo + rng.Float64()*(hi-lo),
			lo + rng.Float64()*(hi-lo),
		}

		for it := 0; it < iterations; it++ {
			assignNearest(values, c, work)
			next := clusterMeans(values, work, c)

			shift := math.Max(math.Abs(next[0]-c[0]), math.Abs(next[1]-c[1]))
			c = next
			if shift <= cfg.Epsilon {
				break
			}
		}

		compactness := 0.0
		for i, v := range values {
			d := v - c[work[i]]
			compactness += d * d
		}
		if compactness < bestCompactness {
			bestCompactness = compactness
			copy(labels, work)
			centers = c
		}
	}
	return labels, centers
}

// assignNearest labels every value with its nearer centre; ties go to 0.
func assignNearest(values []float64, c [2]float64, labels []int) {
	for i, v := range values {
		if math.Abs(v-c[1]) < math.Abs(v-c[0]) {
			labels[i] = 1
		} else {
			labels[i] = 0
		}
	}
}

// clusterMeans recomputes the centres for the given labels. An empty cluster
// takes over the value farthest from the other centre, relabelling it.
func clusterMeans(values []float64, labels []int, prev [2]float64) [2]float64 {
	var sum [2]float64
	var count [2]int
	for i, v := range values {
		sum[labels[i]] += v
		count[labels[i]]++
	}

	for k := 0; k < 2; k++ {
		if count[k] > 0 {
			continue
		}
		other := 1 - k
		far := -1
		farDist := -1.0
		for i, v := range values {
			if labels[i] != other || count[other] < 2 {
				continue
			}
			if d := math.Abs(v - prev[other]); d > farDist {
				far, farDist = i, d
			}
		}
		if far < 0 {
			continue
		}
		labels[far] = k
		sum[other] -= values[far]
		count[other]--
		sum[k] += values[far]
		count[k]++
	}

	var out [2]float64
	for k := 0; k < 2; k++ {
		if count[k] > 0 {
			out[k] = sum[k] / float64(count[k])
		} else {
			out[k] = prev[k]
		}
	}
	return out
}
