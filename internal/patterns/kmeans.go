package patterns

import (
	"math"
	"math/rand"

	"datalens/domain/analysis"
)

// maxKMeansIterations bounds Lloyd's algorithm; convergence on unchanged
// assignments usually happens well before this.
const maxKMeansIterations = 100

// kMeans partitions 2D points into k clusters. The rng is built from the
// given seed, making label assignment reproducible bit-for-bit for the
// same input. Label numbering carries no meaning beyond one invocation.
func kMeans(points []analysis.Point2D, k int, seed int64) []int {
	labels := make([]int, len(points))
	if k <= 1 || len(points) == 0 {
		return labels
	}
	if k > len(points) {
		k = len(points)
	}

	rng := rand.New(rand.NewSource(seed))
	centers := seedCenters(points, k, rng)

	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCenter(p, centers)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		recomputeCenters(points, labels, centers)
	}

	return labels
}

// seedCenters picks initial centers k-means++ style: the first uniformly,
// each next with probability proportional to squared distance from the
// nearest chosen center.
func seedCenters(points []analysis.Point2D, k int, rng *rand.Rand) []analysis.Point2D {
	centers := make([]analysis.Point2D, 0, k)
	centers = append(centers, points[rng.Intn(len(points))])

	distances := make([]float64, len(points))
	for len(centers) < k {
		total := 0.0
		for i, p := range points {
			d := squaredDistance(p, centers[0])
			for _, c := range centers[1:] {
				if alt := squaredDistance(p, c); alt < d {
					d = alt
				}
			}
			distances[i] = d
			total += d
		}

		if total == 0 {
			// All remaining points coincide with a center.
			centers = append(centers, points[rng.Intn(len(points))])
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(points) - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centers = append(centers, points[chosen])
	}
	return centers
}

func nearestCenter(p analysis.Point2D, centers []analysis.Point2D) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, c := range centers {
		if d := squaredDistance(p, c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// recomputeCenters moves each center to the mean of its members. A center
// that lost all members keeps its position.
func recomputeCenters(points []analysis.Point2D, labels []int, centers []analysis.Point2D) {
	sums := make([]analysis.Point2D, len(centers))
	counts := make([]int, len(centers))
	for i, p := range points {
		label := labels[i]
		sums[label].X += p.X
		sums[label].Y += p.Y
		counts[label]++
	}
	for i := range centers {
		if counts[i] == 0 {
			continue
		}
		centers[i] = analysis.Point2D{
			X: sums[i].X / float64(counts[i]),
			Y: sums[i].Y / float64(counts[i]),
		}
	}
}

func squaredDistance(a, b analysis.Point2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
