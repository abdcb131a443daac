package analytics

import (
	"fmt"
	"sort"

	"github.com/jedsaxon/misinfodetector/internal/models"
)

// GroupKey selects the dimension embeddings are grouped by
type GroupKey string

const (
	GroupByCorrectness GroupKey = "correctness"
	GroupByLabel       GroupKey = "label"
	GroupByPredLabel   GroupKey = "pred_label"
)

// Series colours
const (
	ColorCorrect   = "#26a269"
	ColorIncorrect = "#ed333b"
	ColorClassZero = "#3584e4"
	ColorClassOne  = "#c061cb"
)

// ParseGroupKey validates a user supplied grouping key
func ParseGroupKey(s string) (GroupKey, error) {
	switch k := GroupKey(s); k {
	case GroupByCorrectness, GroupByLabel, GroupByPredLabel:
		return k, nil
	default:
		return "", fmt.Errorf("unknown group %q: expected correctness, label or pred_label", s)
	}
}

// ScatterSeries is one coloured series of the embedding scatter plot
type ScatterSeries struct {
	Name   string                 `json:"name"`
	Color  string                 `json:"color"`
	Points []models.TNSEEmbedding `json:"points"`
}

// GroupEmbeddings partitions points into series by key. Series names and
// colours depend only on the grouped value; series are ordered by name.
func GroupEmbeddings(points []models.TNSEEmbedding, key GroupKey) []ScatterSeries {
	index := make(map[string]int)
	var series []ScatterSeries

	for _, p := range points {
		name, color := seriesFor(p, key)
		i, ok := index[name]
		if !ok {
			i = len(series)
			index[name] = i
			series = append(series, ScatterSeries{Name: name, Color: color})
		}
		series[i].Points = append(series[i].Points, p)
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Name < series[j].Name })
	return series
}

func seriesFor(p models.TNSEEmbedding, key GroupKey) (string, string) {
	switch key {
	case GroupByLabel:
		return fmt.Sprintf("Label: %d", p.Label), classColor(p.Label)
	case GroupByPredLabel:
		return fmt.Sprintf("Pred: %d", p.PredLabel), classColor(p.PredLabel)
	default:
		if p.Correct == "True" {
			return "True", ColorCorrect
		}
		return "False", ColorIncorrect
	}
}

func classColor(v int) string {
	if v == 0 {
		return ColorClassZero
	}
	return ColorClassOne
}

// PredictionSummary counts correct and incorrect classifier predictions
type PredictionSummary struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// SummarizePredictions tallies the correct flag of every point
func SummarizePredictions(points []models.TNSEEmbedding) PredictionSummary {
	var s PredictionSummary
	for _, p := range points {
		if p.Correct == "True" {
			s.Correct++
		} else {
			s.Incorrect++
		}
	}
	return s
}
