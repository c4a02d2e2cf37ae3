package preventive

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"medtriage/internal/risk"
	"medtriage/internal/temporal"
)

// Guideline is one preventive-care entry (lifestyle habit or screening).
type Guideline struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	RiskFactors        []string `json:"risk_factors"`
	Benefits           []string `json:"benefits"`
	PriorityMultiplier float64  `json:"priority_multiplier"`
	Source             string   `json:"source,omitempty"`
}

type guidelineDoc struct {
	Lifestyle map[string]Guideline `json:"lifestyle"`
	Screening map[string]Guideline `json:"screening"`
}

// DataPoints records the inputs a recommendation was derived from.
type DataPoints struct {
	RiskFactors map[string]float64 `json:"risk_factors"`
	Trends      []string           `json:"patterns"`
	AgeGroup    string             `json:"age_group"`
}

type Recommendation struct {
	Category          string            `json:"category"`
	Priority          string            `json:"priority"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Reasoning         string            `json:"reasoning"`
	SuggestedTimeline string            `json:"suggested_timeline"`
	ConfidenceScore   int               `json:"confidence_score"`
	DataPoints        DataPoints        `json:"data_points"`
	SourceReferences  map[string]string `json:"source_references,omitempty"`
}

// Recommender ranks preventive-care guidance from risk scores, temporal
// patterns and age-banded screening checklists.
type Recommender struct {
	scorer     *risk.Scorer
	analyzer   *temporal.Analyzer
	guidelines guidelineDoc
	screenings map[string][]string
}

// New loads the guideline document from path, falling back to the
// built-in defaults when it is absent or malformed.
func New(scorer *risk.Scorer, analyzer *temporal.Analyzer, guidelinePath string) *Recommender {
	r := &Recommender{
		scorer:   scorer,
		analyzer: analyzer,
		screenings: map[string][]string{
			"18-39": {"blood_pressure", "cholesterol", "depression", "diabetes"},
			"40-49": {"blood_pressure", "cholesterol", "depression", "diabetes", "mammogram", "colorectal_cancer"},
			"50+":   {"blood_pressure", "cholesterol", "depression", "diabetes", "mammogram", "colorectal_cancer", "osteoporosis", "lung_cancer"},
		},
	}
	if err := r.loadGuidelines(guidelinePath); err != nil {
		log.Printf("[Preventive] using built-in guidelines (%v)", err)
		r.guidelines = defaultGuidelines()
	}
	return r
}

func (r *Recommender) loadGuidelines(path string) error {
	if path == "" {
		return fmt.Errorf("no guideline document configured")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read guideline document: %w", err)
	}
	var doc guidelineDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse guideline document: %w", err)
	}
	if len(doc.Lifestyle) == 0 && len(doc.Screening) == 0 {
		return fmt.Errorf("guideline document is empty")
	}
	r.guidelines = doc
	log.Printf("[Preventive] loaded %d lifestyle and %d screening guidelines from %s",
		len(doc.Lifestyle), len(doc.Screening), path)
	return nil
}

func defaultGuidelines() guidelineDoc {
	return guidelineDoc{
		Lifestyle: map[string]Guideline{
			"exercise": {
				Title:              "Regular Physical Activity",
				Description:        "Engage in at least 150 minutes of moderate aerobic activity weekly",
				RiskFactors:        []string{"obesity", "diabetes", "hypertension"},
				Benefits:           []string{"cardiovascular_health", "weight_management", "mental_health"},
				PriorityMultiplier: 1.5,
			},
			"nutrition": {
				Title:              "Balanced Diet Plan",
				Description:        "Follow a balanced diet rich in fruits, vegetables, and whole grains",
				RiskFactors:        []string{"obesity", "diabetes", "cardiovascular_disease"},
				Benefits:           []string{"weight_management", "diabetes_prevention", "heart_health"},
				PriorityMultiplier: 1.3,
			},
		},
		Screening: map[string]Guideline{
			"blood_pressure": {
				Title:              "Regular Blood Pressure Monitoring",
				Description:        "Monitor blood pressure at least annually",
				RiskFactors:        []string{"hypertension", "obesity", "family_history"},
				Benefits:           []string{"cardiovascular_health", "stroke_prevention"},
				PriorityMultiplier: 1.8,
			},
		},
	}
}

// AgeGroup maps an age onto the screening bands.
func AgeGroup(age int) string {
	switch {
	case age >= 50:
		return "50+"
	case age >= 40:
		return "40-49"
	default:
		return "18-39"
	}
}

// Generate produces the ranked recommendation list for one patient.
// Lifestyle entries fire when a declared risk factor is present or an
// observed trend mentions one of the entry's benefits; screening
// entries follow the age band checklist.
func (r *Recommender) Generate(age int, history []temporal.Entry, riskFactors map[string]float64) []Recommendation {
	symptomIDs := make([]string, 0, len(history))
	for _, e := range history {
		symptomIDs = append(symptomIDs, e.Symptom)
	}
	scores := r.scorer.Score(symptomIDs, riskFactors)
	report := r.analyzer.Analyze(history)
	insights := r.analyzer.GenerateInsights(report)

	ageGroup := AgeGroup(age)
	points := DataPoints{RiskFactors: riskFactors, Trends: insights.Trends, AgeGroup: ageGroup}

	var recs []Recommendation
	for _, id := range sortedGuidelineKeys(r.guidelines.Lifestyle) {
		g := r.guidelines.Lifestyle[id]
		if !shouldRecommend(g, riskFactors, insights.Trends) {
			continue
		}
		confidence := confidenceFor(g, riskFactors, scores)
		recs = append(recs, Recommendation{
			Category:          "lifestyle",
			Priority:          priorityFor(confidence),
			Title:             g.Title,
			Description:       g.Description,
			Reasoning:         reasoningFor(g, riskFactors, insights.Trends),
			SuggestedTimeline: timelineFor(confidence),
			ConfidenceScore:   confidence,
			DataPoints:        points,
			SourceReferences: map[string]string{
				"guidelines":   sourceOf(g),
				"last_updated": time.Now().UTC().Format(time.RFC3339),
			},
		})
	}

	for _, screening := range r.screenings[ageGroup] {
		g, ok := r.guidelines.Screening[screening]
		if !ok {
			continue
		}
		confidence := confidenceFor(g, riskFactors, scores)
		recs = append(recs, Recommendation{
			Category:          "screening",
			Priority:          priorityFor(confidence),
			Title:             g.Title,
			Description:       g.Description,
			Reasoning:         reasoningFor(g, riskFactors, insights.Trends),
			SuggestedTimeline: timelineFor(confidence),
			ConfidenceScore:   confidence,
			DataPoints:        points,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].ConfidenceScore != recs[j].ConfidenceScore {
			return recs[i].ConfidenceScore > recs[j].ConfidenceScore
		}
		return recs[i].Title < recs[j].Title
	})
	return recs
}

func shouldRecommend(g Guideline, riskFactors map[string]float64, trends []string) bool {
	for _, factor := range g.RiskFactors {
		if _, ok := riskFactors[factor]; ok {
			return true
		}
	}
	return trendMentionsBenefit(g, trends)
}

func trendMentionsBenefit(g Guideline, trends []string) bool {
	for _, trend := range trends {
		lower := strings.ToLower(trend)
		for _, benefit := range g.Benefits {
			if strings.Contains(lower, benefit) {
				return true
			}
		}
	}
	return false
}

// confidenceFor starts at 50, adds 10 per unit of each matching risk
// factor and twice the total risk, then applies the guideline's
// priority multiplier, clamped to [0,100].
func confidenceFor(g Guideline, riskFactors map[string]float64, scores risk.Result) int {
	base := 50.0
	for _, factor := range g.RiskFactors {
		if value, ok := riskFactors[factor]; ok {
			base += 10 * value
		}
	}
	base += scores.TotalRisk * 2
	mult := g.PriorityMultiplier
	if mult == 0 {
		mult = 1.0
	}
	base *= mult
	if base > 100 {
		base = 100
	}
	if base < 0 {
		base = 0
	}
	return int(base)
}

func priorityFor(confidence int) string {
	switch {
	case confidence >= 80:
		return "high"
	case confidence >= 60:
		return "medium"
	default:
		return "low"
	}
}

func timelineFor(confidence int) string {
	switch {
	case confidence >= 80:
		return "Start within 1 week"
	case confidence >= 60:
		return "Start within 1 month"
	default:
		return "Start within 3 months"
	}
}

func reasoningFor(g Guideline, riskFactors map[string]float64, trends []string) string {
	var reasons []string

	var matching []string
	for _, factor := range g.RiskFactors {
		if _, ok := riskFactors[factor]; ok {
			matching = append(matching, factor)
		}
	}
	if len(matching) > 0 {
		reasons = append(reasons, fmt.Sprintf("Based on your risk factors: %s", strings.Join(matching, ", ")))
	}

	reasons = append(reasons, fmt.Sprintf("This can help with: %s", strings.Join(g.Benefits, ", ")))

	for _, trend := range trends {
		if trendMentionsBenefit(g, []string{trend}) {
			reasons = append(reasons, fmt.Sprintf("Relevant patterns observed: %s", trend))
			break
		}
	}

	return strings.Join(reasons, " ")
}

func sourceOf(g Guideline) string {
	if g.Source != "" {
		return g.Source
	}
	return "Standard medical guidelines"
}

func sortedGuidelineKeys(m map[string]Guideline) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
