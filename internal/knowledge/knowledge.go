package knowledge

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

// Severity grades a symptom's baseline clinical weight.
type Severity int

const (
	SeverityLow      Severity = 1
	SeverityModerate Severity = 2
	SeverityHigh     Severity = 3
	SeverityCritical Severity = 4
)

func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(s) {
	case "LOW":
		return SeverityLow, nil
	case "MODERATE":
		return SeverityModerate, nil
	case "HIGH":
		return SeverityHigh, nil
	case "CRITICAL":
		return SeverityCritical, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityModerate:
		return "MODERATE"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// Symptom is one immutable knowledge-base record.
type Symptom struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Category            string             `json:"category"`
	Severity            Severity           `json:"severity"`
	RelatedConditions   []string           `json:"related_conditions"`
	RiskFactors         map[string]float64 `json:"risk_factors"`
	TemporalPatterns    map[string]float64 `json:"temporal_patterns,omitempty"`
	InteractionPatterns map[string]float64 `json:"interaction_patterns,omitempty"`
}

// symptomDoc is the on-disk record shape (severity as a word, not a number).
type symptomDoc struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Category            string             `json:"category"`
	Severity            string             `json:"severity"`
	RelatedConditions   []string           `json:"related_conditions"`
	RiskFactors         map[string]float64 `json:"risk_factors"`
	TemporalPatterns    map[string]float64 `json:"temporal_patterns"`
	InteractionPatterns map[string]float64 `json:"interaction_patterns"`
}

type knowledgeDoc struct {
	Symptoms []symptomDoc `json:"symptoms"`
}

// Base holds the symptom catalog and its pairwise correlation matrix.
// Built once at startup and never mutated afterwards, so concurrent
// reads from scoring and suggestion calls need no locking.
type Base struct {
	symptoms []Symptom
	index    map[string]int // symptom id -> position in symptoms
	matrix   [][]float64
}

// Load reads a symptom document from path and builds the correlation
// matrix. A missing or malformed document is not an error: the built-in
// default catalog is used instead so the engine is always usable.
func Load(path string) *Base {
	b := &Base{}
	if err := b.loadDocument(path); err != nil {
		log.Printf("[Knowledge] using built-in symptom catalog (%v)", err)
		b.loadDefaults()
	}
	b.buildCorrelationMatrix()
	return b
}

func (b *Base) loadDocument(path string) error {
	if path == "" {
		return fmt.Errorf("no symptom document configured")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read symptom document: %w", err)
	}
	var doc knowledgeDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse symptom document: %w", err)
	}
	if len(doc.Symptoms) == 0 {
		return fmt.Errorf("symptom document is empty")
	}
	b.symptoms = nil
	b.index = make(map[string]int)
	for _, rec := range doc.Symptoms {
		sev, err := ParseSeverity(rec.Severity)
		if err != nil {
			log.Printf("[Knowledge] skipping symptom %q: %v", rec.ID, err)
			continue
		}
		if rec.ID == "" {
			log.Printf("[Knowledge] skipping symptom record without id")
			continue
		}
		if _, dup := b.index[rec.ID]; dup {
			log.Printf("[Knowledge] skipping duplicate symptom %q", rec.ID)
			continue
		}
		b.add(Symptom{
			ID:                  rec.ID,
			Name:                rec.Name,
			Category:            rec.Category,
			Severity:            sev,
			RelatedConditions:   rec.RelatedConditions,
			RiskFactors:         rec.RiskFactors,
			TemporalPatterns:    rec.TemporalPatterns,
			InteractionPatterns: rec.InteractionPatterns,
		})
	}
	if len(b.symptoms) == 0 {
		return fmt.Errorf("no usable symptom records in document")
	}
	log.Printf("[Knowledge] loaded %d symptoms from %s", len(b.symptoms), path)
	return nil
}

// loadDefaults installs the built-in catalog used when no document is
// available. Fever and shortness of breath are the contractual minimum;
// the rest give the correlation matrix enough structure to be useful.
func (b *Base) loadDefaults() {
	b.symptoms = nil
	b.index = make(map[string]int)
	defaults := []Symptom{
		{
			ID: "fever", Name: "Fever", Category: "General",
			Severity:          SeverityModerate,
			RelatedConditions: []string{"infection", "inflammation"},
			RiskFactors:       map[string]float64{"age_65_plus": 1.5, "immunocompromised": 2.0},
		},
		{
			ID: "shortness_of_breath", Name: "Shortness of Breath", Category: "Respiratory",
			Severity:          SeverityHigh,
			RelatedConditions: []string{"respiratory_infection", "cardiac_condition"},
			RiskFactors:       map[string]float64{"smoking": 1.5, "asthma": 2.0, "age_65_plus": 1.3},
		},
		{
			ID: "chest_pain", Name: "Chest Pain", Category: "Cardiovascular",
			Severity:          SeverityCritical,
			RelatedConditions: []string{"cardiac_condition", "anxiety"},
			RiskFactors:       map[string]float64{"heart_disease": 2.0, "age_65_plus": 1.5, "smoking": 1.4},
		},
		{
			ID: "headache", Name: "Headache", Category: "Neurological",
			Severity:          SeverityLow,
			RelatedConditions: []string{"tension", "migraine", "hypertension"},
			RiskFactors:       map[string]float64{"hypertension": 1.3},
		},
		{
			ID: "fatigue", Name: "Fatigue", Category: "General",
			Severity:          SeverityLow,
			RelatedConditions: []string{"infection", "anemia", "depression"},
			RiskFactors:       map[string]float64{"diabetes": 1.2},
		},
		{
			ID: "cough", Name: "Cough", Category: "Respiratory",
			Severity:          SeverityModerate,
			RelatedConditions: []string{"respiratory_infection", "asthma"},
			RiskFactors:       map[string]float64{"smoking": 1.6, "asthma": 1.5},
		},
		{
			ID: "nausea", Name: "Nausea", Category: "Gastrointestinal",
			Severity:          SeverityModerate,
			RelatedConditions: []string{"infection", "migraine", "pregnancy"},
			RiskFactors:       map[string]float64{"pregnancy": 1.4},
		},
		{
			ID: "dizziness", Name: "Dizziness", Category: "Neurological",
			Severity:          SeverityModerate,
			RelatedConditions: []string{"hypertension", "anemia", "cardiac_condition"},
			RiskFactors:       map[string]float64{"age_65_plus": 1.4, "heart_disease": 1.3},
		},
	}
	for _, s := range defaults {
		b.add(s)
	}
}

func (b *Base) add(s Symptom) {
	b.index[s.ID] = len(b.symptoms)
	b.symptoms = append(b.symptoms, s)
}

// buildCorrelationMatrix recomputes the pairwise correlation table.
// Entry (i,j) combines shared related conditions and category match,
// damped by the severity gap; the diagonal is zero.
func (b *Base) buildCorrelationMatrix() {
	n := len(b.symptoms)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			si, sj := b.symptoms[i], b.symptoms[j]
			shared := sharedConditions(si.RelatedConditions, sj.RelatedConditions)
			catMatch := 0.0
			if si.Category == sj.Category {
				catMatch = 1.0
			}
			gap := float64(si.Severity - sj.Severity)
			if gap < 0 {
				gap = -gap
			}
			m[i][j] = (0.5*float64(shared) + 0.3*catMatch) / (1 + 0.5*gap)
		}
	}
	b.matrix = m
}

func sharedConditions(a, bb []string) int {
	set := make(map[string]struct{}, len(a))
	for _, c := range a {
		set[c] = struct{}{}
	}
	n := 0
	for _, c := range bb {
		if _, ok := set[c]; ok {
			n++
		}
	}
	return n
}

// Symptoms returns the ordered catalog. Callers must not mutate it.
func (b *Base) Symptoms() []Symptom {
	return b.symptoms
}

// Lookup returns the symptom for id and whether it exists.
func (b *Base) Lookup(id string) (Symptom, bool) {
	i, ok := b.index[id]
	if !ok {
		return Symptom{}, false
	}
	return b.symptoms[i], true
}

// IndexOf returns the matrix row for a symptom id, or -1.
func (b *Base) IndexOf(id string) int {
	if i, ok := b.index[id]; ok {
		return i
	}
	return -1
}

// CorrelationRow returns row i of the correlation matrix.
func (b *Base) CorrelationRow(i int) []float64 {
	return b.matrix[i]
}

// Correlation returns the matrix entry for rows i,j.
func (b *Base) Correlation(i, j int) float64 {
	return b.matrix[i][j]
}

// Size returns the number of symptoms (and the matrix dimension).
func (b *Base) Size() int {
	return len(b.symptoms)
}
