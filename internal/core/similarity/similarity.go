// Package similarity scores how alike two names are
package similarity

// AutoAcceptThreshold is the score a sweep bootstrap match must strictly exceed
const AutoAcceptThreshold = 0.85

// Similarity returns 1 - distance(a,b)/max(len(a),len(b)) over runes.
// Case sensitive. Two empty strings score 1, exactly one empty scores 0.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(distance(ra, rb))/float64(longest)
}

// Accept reports whether score clears AutoAcceptThreshold
func Accept(score float64) bool { return score > AutoAcceptThreshold }

// distance is Levenshtein with unit costs, two rows
func distance(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
