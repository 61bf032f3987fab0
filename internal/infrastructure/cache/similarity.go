package cache

import "strings"

// Similarity scores two inputs by word overlap: the size of the shared word
// set divided by the size of the smaller set. Scores range 0..1; identical
// word sets score 1 regardless of ordering.
func Similarity(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	overlap := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			overlap++
		}
	}
	min := len(wa)
	if len(wb) < min {
		min = len(wb)
	}
	return float64(overlap) / float64(min)
}

func wordSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
