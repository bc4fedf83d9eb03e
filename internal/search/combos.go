package search

// combinations materialises every multiset combination of k slots over n
// variant indices: all non-decreasing index tuples, lexicographic order.
// k == 0 yields a single empty combination. The count is C(n+k-1, k).
func combinations(n, k int) [][]int {
	if n <= 0 {
		return nil
	}
	if k == 0 {
		return [][]int{{}}
	}

	out := make([][]int, 0, combinationCount(n, k))
	idx := make([]int, k)
	for {
		combo := make([]int, k)
		copy(combo, idx)
		out = append(out, combo)

		// odometer increment: bump the rightmost slot not yet at n-1 and
		// reset everything after it to the new value
		i := k - 1
		for i >= 0 && idx[i] == n-1 {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[i]
		}
	}
	return out
}

// combinationCount is C(n+k-1, k) clamped into int for slice sizing.
func combinationCount(n, k int) int {
	c := binomial(n+k-1, k)
	if c < 0 || c > int64(int(^uint(0)>>1)) {
		return 0
	}
	return int(c)
}

// binomial computes C(n, k) with the multiplicative form; every intermediate
// product is itself a binomial coefficient, so the division is exact.
func binomial(n, k int) int64 {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := int64(1)
	for i := 1; i <= k; i++ {
		result = result * int64(n-k+i) / int64(i)
	}
	return result
}

// chunkCombos splits the combination sequence into runs of at most size
// entries. Chunks share the backing array; they are read-only downstream.
func chunkCombos(combos [][]int, size int) [][][]int {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][][]int, 0, (len(combos)+size-1)/size)
	for start := 0; start < len(combos); start += size {
		end := start + size
		if end > len(combos) {
			end = len(combos)
		}
		chunks = append(chunks, combos[start:end])
	}
	return chunks
}
