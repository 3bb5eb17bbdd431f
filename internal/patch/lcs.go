package patch

import "github.com/loomlang/loom/internal/values"

// lcsPairs computes a classical longest-common-subsequence alignment
// between before and after under element equality, returning matched
// index pairs (bi, aj) in ascending order. Standard O(n*m) dynamic
// programming; the value universe has no natural ordering that would
// make a faster diff algorithm applicable without losing generality.
func lcsPairs(before, after []*values.Value) [][2]int {
	n, m := len(before), len(after)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			switch {
			case values.Equal(before[i], after[j]):
				dp[i][j] = dp[i+1][j+1] + 1
			case dp[i+1][j] >= dp[i][j+1]:
				dp[i][j] = dp[i+1][j]
			default:
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var pairs [][2]int
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case values.Equal(before[i], after[j]):
			pairs = append(pairs, [2]int{i, j})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return pairs
}
