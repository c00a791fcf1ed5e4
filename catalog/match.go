package catalog

// Similarity returns the Ratcliff/Obershelp ratio 2*M/T of two rune
// sequences, where M is the number of runes in matching blocks and T the
// total length. Matching blocks are found by taking the longest common block
// (earliest in a, then earliest in b) and recursing on both sides of it.
// Two empty sequences are identical.
func Similarity(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matched(a, b, 0, len(a), 0, len(b))) / float64(total)
}

func matched(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, k := longestBlock(a, b, alo, ahi, blo, bhi)
	if k == 0 {
		return 0
	}
	return k + matched(a, b, alo, i, blo, j) + matched(a, b, i+k, ahi, j+k, bhi)
}

// longestBlock returns the start in a, start in b and length of the longest
// common block within a[alo:ahi] and b[blo:bhi].
func longestBlock(a, b []rune, alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, best := alo, blo, 0

	// runLen[j+1] holds the length of the common run ending at a[i-1], b[j].
	runLen := make([]int, len(b)+1)
	next := make([]int, len(b)+1)

	for i := alo; i < ahi; i++ {
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				next[j+1] = 0
				continue
			}
			k := runLen[j] + 1
			next[j+1] = k
			if k > best {
				besti, bestj, best = i-k+1, j-k+1, k
			}
		}
		runLen, next = next, runLen
		clear(next)
	}

	return besti, bestj, best
}
