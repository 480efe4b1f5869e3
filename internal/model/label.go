package model

// ArgMax returns the index of the largest score, or -1 for an empty vector.
// Ties resolve to the lowest index.
func ArgMax(scores []float32) int {
	if len(scores) == 0 {
		return -1
	}
	maxIdx := 0
	for i, val := range scores {
		if val > scores[maxIdx] {
			maxIdx = i
		}
	}
	return maxIdx
}

// LabelAt maps an output index to its label, reporting Unknown for any index
// the label list does not cover.
func LabelAt(labels []string, idx int) string {
	if idx < 0 || idx >= len(labels) {
		return Unknown
	}
	return labels[idx]
}

// Label selects the winning label for a score vector.
func Label(labels []string, scores []float32) Prediction {
	idx := ArgMax(scores)

	scoreMap := make(map[string]float32, len(labels))
	for i, val := range scores {
		if i < len(labels) {
			scoreMap[labels[i]] = val
		}
	}

	var confidence float32
	if idx >= 0 {
		confidence = scores[idx]
	}

	return Prediction{
		Class:      LabelAt(labels, idx),
		Index:      idx,
		Confidence: confidence,
		Scores:     scoreMap,
	}
}
