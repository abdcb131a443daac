package analytics

import (
	"sort"
	"strconv"

	"github.com/jedsaxon/misinfodetector/internal/models"
)

// MonthNames are the month labels of the sunburst's middle ring
var MonthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// SunburstYears are the years shown in the topic sunburst
var SunburstYears = []string{"2016", "2017"}

// SunburstNode is one ring segment. Leaves (topics) carry Value; inner nodes carry Children.
type SunburstNode struct {
	Name     string         `json:"name"`
	Value    int            `json:"value,omitempty"`
	Children []SunburstNode `json:"children,omitempty"`
}

// Total returns the leaf count sum below the node
func (n SunburstNode) Total() int {
	if len(n.Children) == 0 {
		return n.Value
	}
	sum := 0
	for _, c := range n.Children {
		sum += c.Total()
	}
	return sum
}

// BuildSunburst groups activities into year -> month -> topic counts.
// Only years listed in SunburstYears are kept. Every year node has all twelve
// month nodes, empty or not. A nil result means there is nothing to show.
func BuildSunburst(activities []models.TopicActivity) []SunburstNode {
	counts := make(map[string]*[12]map[string]int)

	for i := range activities {
		a := &activities[i]
		year, month, ok := yearMonth(a.Date)
		if !ok || !isSunburstYear(year) {
			continue
		}
		months, exists := counts[year]
		if !exists {
			months = &[12]map[string]int{}
			counts[year] = months
		}
		if months[month] == nil {
			months[month] = make(map[string]int)
		}
		months[month][a.TopicName]++
	}

	if len(counts) == 0 {
		return nil
	}

	years := make([]string, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Strings(years)

	nodes := make([]SunburstNode, 0, len(years))
	for _, y := range years {
		months := counts[y]
		yearNode := SunburstNode{Name: y, Children: make([]SunburstNode, 12)}
		for m, name := range MonthNames {
			yearNode.Children[m] = SunburstNode{Name: name, Children: topicLeaves(months[m])}
		}
		nodes = append(nodes, yearNode)
	}
	return nodes
}

func topicLeaves(topics map[string]int) []SunburstNode {
	leaves := make([]SunburstNode, 0, len(topics))
	for name, count := range topics {
		leaves = append(leaves, SunburstNode{Name: name, Value: count})
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].Name < leaves[j].Name })
	return leaves
}

// yearMonth extracts "YYYY" and a zero-based month from an ISO date prefix
func yearMonth(date string) (string, int, bool) {
	if len(date) < 7 {
		return "", 0, false
	}
	month, err := strconv.Atoi(date[5:7])
	if err != nil || month < 1 || month > 12 {
		return "", 0, false
	}
	return date[:4], month - 1, true
}

func isSunburstYear(year string) bool {
	for _, y := range SunburstYears {
		if y == year {
			return true
		}
	}
	return false
}
