package analytics

import "github.com/jedsaxon/misinfodetector/internal/models"

// Distribution is the flagged vs factual split used by the pie chart
type Distribution struct {
	MisinfoCount int `json:"misinfo_count"`
	TrueCount    int `json:"true_count"`
	Total        int `json:"total"`
}

// Empty reports the "no data" state: no classified posts were seen
func (d Distribution) Empty() bool {
	return d.Total == 0
}

// MisinfoShare returns the flagged fraction in [0,1], or 0 when empty
func (d Distribution) MisinfoShare() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.MisinfoCount) / float64(d.Total)
}

// TallyMisinformation counts flagged and classified-factual posts.
// Unclassified posts are excluded from both counts.
func TallyMisinformation(posts []models.Post) Distribution {
	var d Distribution
	for i := range posts {
		p := &posts[i]
		if !p.Classified() {
			continue
		}
		if p.PotentialMisinformation() {
			d.MisinfoCount++
		} else {
			d.TrueCount++
		}
	}
	d.Total = d.MisinfoCount + d.TrueCount
	return d
}

// Add merges another distribution into d
func (d Distribution) Add(other Distribution) Distribution {
	d.MisinfoCount += other.MisinfoCount
	d.TrueCount += other.TrueCount
	d.Total = d.MisinfoCount + d.TrueCount
	return d
}
