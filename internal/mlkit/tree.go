package mlkit

import (
	"math/rand"
	"sort"
)

// TreeNode is a node in a regression tree. Leaves carry the mean target of
// the training samples that reached them. Fields are exported for gob.
type TreeNode struct {
	Leaf      bool
	Value     float64
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// treeConfig bounds tree growth.
type treeConfig struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // number of features considered per split; 0 = all
}

// Predict walks the tree for a single standardized feature vector.
func (n *TreeNode) Predict(features []float64) float64 {
	node := n
	for !node.Leaf {
		if features[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// growTree fits a variance-reduction CART tree on the sample indices idx.
func growTree(rows [][]float64, targets []float64, idx []int, depth int, cfg treeConfig, rng *rand.Rand) *TreeNode {
	if depth >= cfg.maxDepth || len(idx) < cfg.minSamplesSplit {
		return leafNode(targets, idx)
	}

	feature, threshold, ok := bestSplit(rows, targets, idx, cfg, rng)
	if !ok {
		return leafNode(targets, idx)
	}

	var left, right []int
	for _, i := range idx {
		if rows[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < cfg.minSamplesLeaf || len(right) < cfg.minSamplesLeaf {
		return leafNode(targets, idx)
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(rows, targets, left, depth+1, cfg, rng),
		Right:     growTree(rows, targets, right, depth+1, cfg, rng),
	}
}

func leafNode(targets []float64, idx []int) *TreeNode {
	sum := 0.0
	for _, i := range idx {
		sum += targets[i]
	}
	return &TreeNode{Leaf: true, Value: sum / float64(len(idx))}
}

// bestSplit finds the split with the largest weighted variance reduction
// over a random subset of features. Candidate thresholds are midpoints
// between consecutive sorted values.
func bestSplit(rows [][]float64, targets []float64, idx []int, cfg treeConfig, rng *rand.Rand) (int, float64, bool) {
	dims := len(rows[0])
	features := featureSubset(dims, cfg.maxFeatures, rng)

	bestScore := -1.0
	bestFeature := -1
	bestThreshold := 0.0

	order := make([]int, len(idx))
	for _, f := range features {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return rows[order[a]][f] < rows[order[b]][f] })

		// Prefix sums over the sorted order for O(n) split evaluation.
		total := 0.0
		for _, i := range order {
			total += targets[i]
		}

		leftSum := 0.0
		n := float64(len(order))
		for k := 0; k < len(order)-1; k++ {
			leftSum += targets[order[k]]

			cur := rows[order[k]][f]
			next := rows[order[k+1]][f]
			if cur == next {
				continue
			}
			nl := float64(k + 1)
			nr := n - nl
			if int(nl) < cfg.minSamplesLeaf || int(nr) < cfg.minSamplesLeaf {
				continue
			}

			rightSum := total - leftSum
			// Equivalent to minimizing total child SSE; larger is better.
			score := leftSum*leftSum/nl + rightSum*rightSum/nr
			if score > bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func featureSubset(dims, maxFeatures int, rng *rand.Rand) []int {
	if maxFeatures <= 0 || maxFeatures >= dims {
		all := make([]int, dims)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := rng.Perm(dims)
	return perm[:maxFeatures]
}
