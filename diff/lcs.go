package diff

import "slices"

// LCS computes the longest common subsequence of two line slices using a
// full dynamic-programming table of size (len(a)+1) x (len(b)+1). When two
// traceback directions tie, it moves toward the shorter prefix of a first,
// so the returned subsequence is deterministic. Either input being empty
// yields nil.
//
// Time and space are O(len(a)*len(b)). Fine for hand-edited files; there is
// deliberately no size guard here.
func LCS(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				table[i][j] = table[i-1][j-1] + 1
			case table[i-1][j] >= table[i][j-1]:
				table[i][j] = table[i-1][j]
			default:
				table[i][j] = table[i][j-1]
			}
		}
	}

	seq := make([]string, 0, table[len(a)][len(b)])
	i, j := len(a), len(b)
	for i > 0 && j > 0 {
		switch {
		case a[i-1] == b[j-1]:
			seq = append(seq, a[i-1])
			i--
			j--
		case table[i-1][j] >= table[i][j-1]:
			i--
		default:
			j--
		}
	}
	slices.Reverse(seq)
	return seq
}
