package temporal

import (
	"fmt"
	"strings"
	"testing"
)

func entry(ts, symptom string, severity float64) Entry {
	return Entry{Timestamp: ts, Symptom: symptom, Severity: severity}
}

func TestAnalyze_TimeOfDayBuckets(t *testing.T) {
	a := NewAnalyzer()
	report := a.Analyze([]Entry{
		entry("2026-08-01T06:00:00", "headache", 3),  // morning
		entry("2026-08-01T13:00:00", "headache", 3),  // afternoon
		entry("2026-08-01T18:00:00", "fatigue", 2),   // evening
		entry("2026-08-01T23:30:00", "fatigue", 2),   // night
		entry("2026-08-02T04:59:00", "dizziness", 1), // night (before 5am)
	})
	if report.DailyPatterns["morning"].Frequency != 1 {
		t.Errorf("morning frequency = %d, want 1", report.DailyPatterns["morning"].Frequency)
	}
	if report.DailyPatterns["afternoon"].Frequency != 1 {
		t.Errorf("afternoon frequency = %d, want 1", report.DailyPatterns["afternoon"].Frequency)
	}
	if report.DailyPatterns["evening"].Frequency != 1 {
		t.Errorf("evening frequency = %d, want 1", report.DailyPatterns["evening"].Frequency)
	}
	if report.DailyPatterns["night"].Frequency != 2 {
		t.Errorf("night frequency = %d, want 2", report.DailyPatterns["night"].Frequency)
	}
}

func TestAnalyze_WeeklyBuckets(t *testing.T) {
	a := NewAnalyzer()
	// 2026-08-03 is a Monday.
	report := a.Analyze([]Entry{
		entry("2026-08-03T10:00:00", "headache", 3),
		entry("2026-08-10T10:00:00", "fatigue", 2),
		entry("2026-08-04T10:00:00", "headache", 3),
	})
	monday := report.WeeklyPatterns["Monday"]
	if monday.Frequency != 2 {
		t.Errorf("Monday frequency = %d, want 2", monday.Frequency)
	}
	if len(monday.Symptoms) != 2 {
		t.Errorf("Monday symptoms = %v, want 2 distinct", monday.Symptoms)
	}
	if report.WeeklyPatterns["Tuesday"].Frequency != 1 {
		t.Errorf("Tuesday frequency = %d, want 1", report.WeeklyPatterns["Tuesday"].Frequency)
	}
}

func TestAnalyze_SeverityTrend(t *testing.T) {
	a := NewAnalyzer()

	increasing := a.Analyze([]Entry{
		entry("2026-08-01T10:00:00", "fatigue", 1),
		entry("2026-08-02T10:00:00", "fatigue", 2),
		entry("2026-08-03T10:00:00", "fatigue", 4),
		entry("2026-08-04T10:00:00", "fatigue", 5),
	})
	if increasing.SeverityTrend.Trend != "increasing" {
		t.Errorf("trend = %q, want increasing", increasing.SeverityTrend.Trend)
	}
	if increasing.SeverityTrend.DateRange != "2026-08-01 to 2026-08-04" {
		t.Errorf("date range = %q", increasing.SeverityTrend.DateRange)
	}

	decreasing := a.Analyze([]Entry{
		entry("2026-08-01T10:00:00", "fatigue", 5),
		entry("2026-08-02T10:00:00", "fatigue", 4),
		entry("2026-08-03T10:00:00", "fatigue", 1),
		entry("2026-08-04T10:00:00", "fatigue", 1),
	})
	if decreasing.SeverityTrend.Trend != "decreasing" {
		t.Errorf("trend = %q, want decreasing", decreasing.SeverityTrend.Trend)
	}

	stable := a.Analyze([]Entry{
		entry("2026-08-01T10:00:00", "fatigue", 3),
		entry("2026-08-02T10:00:00", "fatigue", 3),
	})
	if stable.SeverityTrend.Trend != "stable" {
		t.Errorf("trend = %q, want stable", stable.SeverityTrend.Trend)
	}

	short := a.Analyze([]Entry{entry("2026-08-01T10:00:00", "fatigue", 3)})
	if short.SeverityTrend.Trend != "insufficient_data" {
		t.Errorf("trend = %q, want insufficient_data", short.SeverityTrend.Trend)
	}
}

func TestAnalyze_CoOccurrences(t *testing.T) {
	a := NewAnalyzer()
	var history []Entry
	// fever+cough on four separate days, fever+nausea on one.
	for day := 1; day <= 4; day++ {
		history = append(history,
			entry(fmt.Sprintf("2026-08-%02dT09:00:00", day), "fever", 4),
			entry(fmt.Sprintf("2026-08-%02dT10:00:00", day), "cough", 3),
		)
	}
	history = append(history, entry("2026-08-05T09:00:00", "fever", 4))
	history = append(history, entry("2026-08-05T10:00:00", "nausea", 2))

	report := a.Analyze(history)
	if len(report.Correlations) == 0 {
		t.Fatalf("expected correlations")
	}
	top := report.Correlations[0]
	if top.Symptoms != [2]string{"cough", "fever"} {
		t.Errorf("top pair = %v, want cough+fever", top.Symptoms)
	}
	if top.Occurrences != 4 || top.Strength != "high" {
		t.Errorf("top pair = %+v, want 4 occurrences / high", top)
	}

	var feverNausea *Correlation
	for i := range report.Correlations {
		if report.Correlations[i].Symptoms == [2]string{"fever", "nausea"} {
			feverNausea = &report.Correlations[i]
		}
	}
	if feverNausea == nil || feverNausea.Strength != "low" {
		t.Errorf("fever+nausea should be a low-strength pair, got %+v", feverNausea)
	}
}

func TestAnalyze_SkipsBadEntries(t *testing.T) {
	a := NewAnalyzer()
	report := a.Analyze([]Entry{
		entry("not a timestamp", "fever", 4),
		entry("2026-08-01T10:00:00", "fever", -2),
		entry("2026-08-01T10:00:00", "fever", 4),
	})
	total := 0
	for _, p := range report.DailyPatterns {
		total += p.Frequency
	}
	if total != 1 {
		t.Errorf("expected one usable entry, counted %d", total)
	}
}

func TestAnalyze_NightHeavyHistoryFlagsNight(t *testing.T) {
	a := NewAnalyzer()
	var history []Entry
	for day := 1; day <= 10; day++ {
		history = append(history, entry(fmt.Sprintf("2026-08-%02dT23:00:00", day), "headache", 8))
	}
	history = append(history, entry("2026-08-11T08:00:00", "headache", 2))
	history = append(history, entry("2026-08-12T08:00:00", "headache", 2))

	report := a.Analyze(history)
	night := report.DailyPatterns["night"]
	morning := report.DailyPatterns["morning"]
	if night.AverageSeverity <= morning.AverageSeverity {
		t.Errorf("night average severity (%f) should exceed morning (%f)",
			night.AverageSeverity, morning.AverageSeverity)
	}

	insights := a.GenerateInsights(report)
	found := false
	for _, line := range insights.Trends {
		if strings.Contains(line, "night") {
			found = true
		}
	}
	if !found {
		t.Errorf("insights should mention the night period, got %v", insights.Trends)
	}
}

func TestGenerateInsights_HighCorrelationRecommendation(t *testing.T) {
	a := NewAnalyzer()
	report := Report{
		DailyPatterns:  map[string]DailyPattern{"morning": {Frequency: 1, AverageSeverity: 2}},
		WeeklyPatterns: map[string]WeeklyPattern{"Monday": {Frequency: 1}},
		SeverityTrend:  SeverityTrend{Trend: "stable"},
		Correlations: []Correlation{
			{Symptoms: [2]string{"cough", "fever"}, Occurrences: 5, Strength: "high"},
		},
	}
	insights := a.GenerateInsights(report)
	found := false
	for _, rec := range insights.Recommendations {
		if strings.Contains(rec, "cough") && strings.Contains(rec, "fever") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a recommendation about the correlated pair, got %v", insights.Recommendations)
	}
}
