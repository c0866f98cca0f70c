package textutil

// Ratio computes an indel-based similarity score between a and b on the
// 0-100 scale: 100 * 2*LCS(a,b) / (len(a)+len(b)), over runes. Two empty
// strings score 100; one empty string scores 0.
func Ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	lcs := longestCommonSubsequence(ra, rb)
	return 100 * float64(2*lcs) / float64(total)
}

func longestCommonSubsequence(a, b []rune) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
