package fstfile

import "sort"

// reduceCrossings reorders the states within each layer by the barycentre
// of their neighbours: a forward sweep on predecessors, then a backward
// sweep on successors. States without neighbours in the adjacent layer
// keep their position.
func reduceCrossings(layers [][]int, succ [][]int) [][]int {
	if len(layers) <= 1 {
		return layers
	}
	pred := make([][]int, len(succ))
	for q, rs := range succ {
		for _, r := range rs {
			pred[r] = append(pred[r], q)
		}
	}

	result := make([][]int, len(layers))
	pos := make(map[int]float64)
	for l, layer := range layers {
		result[l] = append([]int(nil), layer...)
		for i, q := range layer {
			pos[q] = float64(i)
		}
	}

	sweep := func(layer []int, neighbours [][]int) {
		bary := make(map[int]float64, len(layer))
		for _, q := range layer {
			sum, count := 0.0, 0
			for _, r := range neighbours[q] {
				if p, ok := pos[r]; ok {
					sum += p
					count++
				}
			}
			if count > 0 {
				bary[q] = sum / float64(count)
			} else {
				bary[q] = pos[q]
			}
		}
		sort.Slice(layer, func(i, j int) bool {
			bi, bj := bary[layer[i]], bary[layer[j]]
			if bi != bj {
				return bi < bj
			}
			return layer[i] < layer[j]
		})
		for i, q := range layer {
			pos[q] = float64(i)
		}
	}

	for l := 1; l < len(result); l++ {
		sweep(result[l], pred)
	}
	for l := len(result) - 2; l >= 0; l-- {
		sweep(result[l], succ)
	}
	return result
}

// countCrossings counts the pairs of edges between two adjacent layers
// that cross.
func countCrossings(layer1, layer2 []int, succ [][]int) int {
	pos2 := make(map[int]int, len(layer2))
	for i, q := range layer2 {
		pos2[q] = i
	}

	var edges [][2]int
	for i, from := range layer1 {
		for _, to := range succ[from] {
			if j, ok := pos2[to]; ok {
				edges = append(edges, [2]int{i, j})
			}
		}
	}

	crossings := 0
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			e1, e2 := edges[i], edges[j]
			if (e1[0] < e2[0] && e1[1] > e2[1]) || (e1[0] > e2[0] && e1[1] < e2[1]) {
				crossings++
			}
		}
	}
	return crossings
}

func totalCrossings(layers [][]int, succ [][]int) int {
	total := 0
	for l := 0; l+1 < len(layers); l++ {
		total += countCrossings(layers[l], layers[l+1], succ)
	}
	return total
}
