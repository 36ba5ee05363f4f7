package textnorm

// Dice returns the Sørensen–Dice coefficient of two token sets:
// 2·|A∩B| / (|A|+|B|). Two empty sets are identical (1.0).
func Dice(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	shared := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(setA)+len(setB))
}

// Similarity is Dice over the folded tokens of two strings.
func Similarity(a, b string) float64 {
	return Dice(Tokens(a), Tokens(b))
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
