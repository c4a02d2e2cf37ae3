package temporal

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"
)

// Entry is one symptom report in a patient's history. Timestamps are
// ISO-8601 strings owned by the caller.
type Entry struct {
	Timestamp string  `json:"timestamp"`
	Symptom   string  `json:"symptom"`
	Severity  float64 `json:"severity"`
}

type DailyPattern struct {
	Frequency       int      `json:"frequency"`
	AverageSeverity float64  `json:"average_severity"`
	TopSymptoms     []string `json:"top_symptoms"`
}

type WeeklyPattern struct {
	Frequency int      `json:"frequency"`
	Symptoms  []string `json:"symptoms"`
}

type SeverityTrend struct {
	Trend     string `json:"trend"`
	DateRange string `json:"date_range,omitempty"`
}

type Correlation struct {
	Symptoms    [2]string `json:"symptoms"`
	Occurrences int       `json:"occurrences"`
	Strength    string    `json:"strength"`
}

// Report is the derived pattern summary for one history. Ephemeral;
// nothing here is cached or persisted by the analyzer.
type Report struct {
	DailyPatterns  map[string]DailyPattern  `json:"daily_patterns"`
	WeeklyPatterns map[string]WeeklyPattern `json:"weekly_patterns"`
	SeverityTrend  SeverityTrend            `json:"severity_trends"`
	Correlations   []Correlation            `json:"correlations"`
}

type Insights struct {
	Trends          []string `json:"trends"`
	Recommendations []string `json:"recommendations"`
}

// Analyzer mines chronological symptom histories. Stateless.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parsedEntry pairs an entry with its decoded timestamp.
type parsedEntry struct {
	at       time.Time
	symptom  string
	severity float64
}

// Analyze buckets the history by time of day and weekday, derives the
// overall severity trend and surfaces the strongest same-day symptom
// co-occurrences. Entries with unparsable timestamps or negative
// severities are skipped, never fatal.
func (a *Analyzer) Analyze(history []Entry) Report {
	entries := make([]parsedEntry, 0, len(history))
	for _, e := range history {
		t, ok := parseTimestamp(e.Timestamp)
		if !ok {
			log.Printf("[Temporal] skipping entry with unparsable timestamp %q", e.Timestamp)
			continue
		}
		if e.Severity < 0 {
			log.Printf("[Temporal] skipping entry with negative severity %.1f", e.Severity)
			continue
		}
		entries = append(entries, parsedEntry{at: t, symptom: e.Symptom, severity: e.Severity})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].at.Before(entries[j].at) })

	return Report{
		DailyPatterns:  dailyPatterns(entries),
		WeeklyPatterns: weeklyPatterns(entries),
		SeverityTrend:  severityTrend(entries),
		Correlations:   coOccurrences(entries),
	}
}

// timeOfDay maps a local hour onto the four reporting buckets.
func timeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

func dailyPatterns(entries []parsedEntry) map[string]DailyPattern {
	type acc struct {
		count       int
		severitySum float64
		symptoms    map[string]int
	}
	buckets := make(map[string]*acc)
	for _, e := range entries {
		key := timeOfDay(e.at.Hour())
		b := buckets[key]
		if b == nil {
			b = &acc{symptoms: make(map[string]int)}
			buckets[key] = b
		}
		b.count++
		b.severitySum += e.severity
		b.symptoms[e.symptom]++
	}

	out := make(map[string]DailyPattern, len(buckets))
	for key, b := range buckets {
		out[key] = DailyPattern{
			Frequency:       b.count,
			AverageSeverity: round2(b.severitySum / float64(b.count)),
			TopSymptoms:     topByCount(b.symptoms, 3),
		}
	}
	return out
}

func weeklyPatterns(entries []parsedEntry) map[string]WeeklyPattern {
	type acc struct {
		count    int
		symptoms map[string]struct{}
	}
	buckets := make(map[string]*acc)
	for _, e := range entries {
		key := e.at.Weekday().String()
		b := buckets[key]
		if b == nil {
			b = &acc{symptoms: make(map[string]struct{})}
			buckets[key] = b
		}
		b.count++
		b.symptoms[e.symptom] = struct{}{}
	}

	out := make(map[string]WeeklyPattern, len(buckets))
	for key, b := range buckets {
		symptoms := make([]string, 0, len(b.symptoms))
		for s := range b.symptoms {
			symptoms = append(symptoms, s)
		}
		sort.Strings(symptoms)
		out[key] = WeeklyPattern{Frequency: b.count, Symptoms: symptoms}
	}
	return out
}

// severityTrend splits the chronological severities in half and
// compares the means. Differences within 0.5 read as stable.
func severityTrend(entries []parsedEntry) SeverityTrend {
	if len(entries) < 2 {
		return SeverityTrend{Trend: "insufficient_data"}
	}
	mid := len(entries) / 2
	diff := meanSeverity(entries[mid:]) - meanSeverity(entries[:mid])
	trend := "stable"
	if diff > 0.5 {
		trend = "increasing"
	} else if diff < -0.5 {
		trend = "decreasing"
	}
	dateRange := fmt.Sprintf("%s to %s",
		entries[0].at.Format("2006-01-02"),
		entries[len(entries)-1].at.Format("2006-01-02"))
	return SeverityTrend{Trend: trend, DateRange: dateRange}
}

func meanSeverity(entries []parsedEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.severity
	}
	return sum / float64(len(entries))
}

// coOccurrences counts unordered symptom pairs reported on the same
// calendar day and keeps the five most frequent.
func coOccurrences(entries []parsedEntry) []Correlation {
	byDay := make(map[string]map[string]struct{})
	for _, e := range entries {
		day := e.at.Format("2006-01-02")
		if byDay[day] == nil {
			byDay[day] = make(map[string]struct{})
		}
		byDay[day][e.symptom] = struct{}{}
	}

	counts := make(map[[2]string]int)
	for _, symptoms := range byDay {
		list := make([]string, 0, len(symptoms))
		for s := range symptoms {
			list = append(list, s)
		}
		sort.Strings(list)
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				counts[[2]string{list[i], list[j]}]++
			}
		}
	}

	pairs := make([]Correlation, 0, len(counts))
	for pair, n := range counts {
		pairs = append(pairs, Correlation{Symptoms: pair, Occurrences: n, Strength: strength(n)})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Occurrences != pairs[j].Occurrences {
			return pairs[i].Occurrences > pairs[j].Occurrences
		}
		if pairs[i].Symptoms[0] != pairs[j].Symptoms[0] {
			return pairs[i].Symptoms[0] < pairs[j].Symptoms[0]
		}
		return pairs[i].Symptoms[1] < pairs[j].Symptoms[1]
	})
	if len(pairs) > 5 {
		pairs = pairs[:5]
	}
	return pairs
}

func strength(occurrences int) string {
	switch {
	case occurrences > 3:
		return "high"
	case occurrences >= 2:
		return "medium"
	default:
		return "low"
	}
}

func topByCount(counts map[string]int, max int) []string {
	type kv struct {
		name  string
		count int
	}
	list := make([]kv, 0, len(counts))
	for name, n := range counts {
		list = append(list, kv{name, n})
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].name < list[j].name
	})
	if len(list) > max {
		list = list[:max]
	}
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.name
	}
	return out
}

// GenerateInsights turns a report into human-readable trend lines and
// recommendations for the conversational layer.
func (a *Analyzer) GenerateInsights(report Report) Insights {
	var insights Insights

	if bucket, pattern, ok := worstDailyBucket(report.DailyPatterns); ok {
		insights.Trends = append(insights.Trends, fmt.Sprintf(
			"Your symptoms tend to be most severe in the %s (average severity %.1f)",
			bucket, pattern.AverageSeverity))
		insights.Recommendations = append(insights.Recommendations, fmt.Sprintf(
			"Plan rest and symptom monitoring around the %s, when your symptoms peak", bucket))
	}

	if day, pattern, ok := busiestWeekday(report.WeeklyPatterns); ok {
		insights.Trends = append(insights.Trends, fmt.Sprintf(
			"You report symptoms most often on %ss (%d reports)", day, pattern.Frequency))
	}

	switch report.SeverityTrend.Trend {
	case "increasing":
		insights.Trends = append(insights.Trends,
			"Overall symptom severity has been increasing over the recorded period")
		insights.Recommendations = append(insights.Recommendations,
			"Your symptoms are trending worse; consider discussing this with your healthcare provider")
	case "decreasing":
		insights.Trends = append(insights.Trends,
			"Overall symptom severity has been decreasing over the recorded period")
	case "stable":
		insights.Trends = append(insights.Trends,
			"Overall symptom severity has been stable over the recorded period")
	}

	for _, c := range report.Correlations {
		if c.Strength == "high" {
			insights.Recommendations = append(insights.Recommendations, fmt.Sprintf(
				"%s and %s frequently occur together; mention this combination to your provider",
				c.Symptoms[0], c.Symptoms[1]))
			break
		}
	}

	return insights
}

func worstDailyBucket(patterns map[string]DailyPattern) (string, DailyPattern, bool) {
	best := ""
	var bestPattern DailyPattern
	for bucket, p := range patterns {
		if best == "" || p.AverageSeverity > bestPattern.AverageSeverity ||
			(p.AverageSeverity == bestPattern.AverageSeverity && bucket < best) {
			best, bestPattern = bucket, p
		}
	}
	return best, bestPattern, best != ""
}

func busiestWeekday(patterns map[string]WeeklyPattern) (string, WeeklyPattern, bool) {
	best := ""
	var bestPattern WeeklyPattern
	for day, p := range patterns {
		if best == "" || p.Frequency > bestPattern.Frequency ||
			(p.Frequency == bestPattern.Frequency && day < best) {
			best, bestPattern = day, p
		}
	}
	return best, bestPattern, best != ""
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
