package triage

import (
	"fmt"
	"sort"
	"strings"
)

// Triage levels, most to least acute.
const (
	LevelEmergency = "emergency"
	LevelUrgent    = "urgent"
	LevelNonUrgent = "non_urgent"
)

// Assessment is the outcome of one triage pass. Built fresh per call;
// persisting the latest level/score is the caller's job.
type Assessment struct {
	Level             string   `json:"level"`
	ConfidenceScore   float64  `json:"confidence_score"`
	Reasoning         []string `json:"reasoning"`
	Recommendations   []string `json:"recommendations"`
	RequiredVitals    []string `json:"required_vitals"`
	RedFlags          []string `json:"red_flags"`
	FollowUpQuestions []string `json:"follow_up_questions"`
}

// catalogEntry describes one recognizable presentation: the keywords
// that reveal it in symptom text, its score weight and the vitals and
// follow-up questions it demands.
type catalogEntry struct {
	Keywords       []string
	Multiplier     float64
	RequiredVitals []string
	FollowUp       []string
}

// Classifier maps symptom text, risk factors and vitals to a discrete
// triage level. Catalogs are fixed at construction; Assess is pure and
// safe for concurrent use.
type Classifier struct {
	emergencySymptoms map[string]catalogEntry
	urgentSymptoms    map[string]catalogEntry
	riskFactors       map[string]float64
}

func NewClassifier() *Classifier {
	return &Classifier{
		emergencySymptoms: map[string]catalogEntry{
			"chest_pain": {
				Keywords:       []string{"chest pain", "chest pressure", "heart attack", "crushing"},
				Multiplier:     2.0,
				RequiredVitals: []string{"blood_pressure", "heart_rate", "oxygen_saturation"},
				FollowUp: []string{
					"Is the pain crushing or pressure-like?",
					"Does it radiate to your arm or jaw?",
					"Are you experiencing shortness of breath?",
				},
			},
			"difficulty_breathing": {
				Keywords:       []string{"shortness of breath", "can't breathe", "breathing difficulty"},
				Multiplier:     1.8,
				RequiredVitals: []string{"oxygen_saturation", "respiratory_rate"},
				FollowUp: []string{
					"Are you able to speak in full sentences?",
					"How long has this been occurring?",
					"Any associated chest pain?",
				},
			},
			"stroke_symptoms": {
				Keywords:       []string{"face drooping", "arm weakness", "speech difficulty"},
				Multiplier:     2.0,
				RequiredVitals: []string{"blood_pressure", "blood_glucose"},
				FollowUp: []string{
					"When did these symptoms start?",
					"Can you raise both arms equally?",
					"Can you smile for me - is your face even?",
				},
			},
		},
		urgentSymptoms: map[string]catalogEntry{
			"severe_pain": {
				Keywords:   []string{"severe pain", "worst pain", "10 out of 10"},
				Multiplier: 1.5,
				FollowUp: []string{
					"On a scale of 1-10, how severe is the pain?",
					"What makes it better or worse?",
					"Any associated symptoms?",
				},
			},
			"high_fever": {
				Keywords:       []string{"high fever", "temperature", "103", "104"},
				Multiplier:     1.3,
				RequiredVitals: []string{"temperature"},
				FollowUp: []string{
					"What is your current temperature?",
					"Any shaking or chills?",
					"How long has the fever lasted?",
				},
			},
		},
		riskFactors: map[string]float64{
			"age_65_plus":           1.2,
			"pregnancy":             1.3,
			"immunocompromised":     1.4,
			"diabetes":              1.1,
			"heart_disease":         1.2,
			"respiratory_condition": 1.2,
		},
	}
}

// Assess scores the reported symptoms against the emergency and urgent
// catalogs, amplifies by risk factors (multiplicative here, unlike the
// risk scorer's additive policy) and applies the level thresholds.
// Severity scores and vital signs are accepted for interface parity
// with the conversational layer; the current rules key off text.
func (c *Classifier) Assess(symptoms []string, severityScores map[string]float64, riskFactors []string, vitalSigns map[string]float64) Assessment {
	text := strings.ToLower(strings.Join(symptoms, " "))

	base := 0.0
	var reasoning, redFlags []string
	vitals := make(map[string]struct{})
	followUps := make(map[string]struct{})

	for _, tag := range sortedKeys(c.emergencySymptoms) {
		entry := c.emergencySymptoms[tag]
		if matchesAny(text, entry.Keywords) {
			base += 10.0 * entry.Multiplier
			reasoning = append(reasoning, fmt.Sprintf("Emergency symptom detected: %s", tag))
			redFlags = append(redFlags, tag)
			addAll(vitals, entry.RequiredVitals)
			addAll(followUps, entry.FollowUp)
		}
	}

	for _, tag := range sortedKeys(c.urgentSymptoms) {
		entry := c.urgentSymptoms[tag]
		if matchesAny(text, entry.Keywords) {
			base += 7.0 * entry.Multiplier
			reasoning = append(reasoning, fmt.Sprintf("Urgent symptom detected: %s", tag))
			addAll(vitals, entry.RequiredVitals)
			addAll(followUps, entry.FollowUp)
		}
	}

	riskMultiplier := 1.0
	for _, factor := range riskFactors {
		if mult, ok := c.riskFactors[factor]; ok {
			riskMultiplier *= mult
			reasoning = append(reasoning, fmt.Sprintf("Risk factor present: %s", factor))
		}
	}

	finalScore := base * riskMultiplier
	level, confidence, recommendations := decideLevel(finalScore, len(redFlags))

	return Assessment{
		Level:             level,
		ConfidenceScore:   confidence,
		Reasoning:         reasoning,
		Recommendations:   recommendations,
		RequiredVitals:    setToSlice(vitals),
		RedFlags:          redFlags,
		FollowUpQuestions: setToSlice(followUps),
	}
}

// FinalScore exposes the raw weighted score for a symptom set, used by
// callers that persist assessment records.
func (c *Classifier) FinalScore(symptoms []string, riskFactors []string) float64 {
	text := strings.ToLower(strings.Join(symptoms, " "))
	base := 0.0
	for _, entry := range c.emergencySymptoms {
		if matchesAny(text, entry.Keywords) {
			base += 10.0 * entry.Multiplier
		}
	}
	for _, entry := range c.urgentSymptoms {
		if matchesAny(text, entry.Keywords) {
			base += 7.0 * entry.Multiplier
		}
	}
	mult := 1.0
	for _, factor := range riskFactors {
		if m, ok := c.riskFactors[factor]; ok {
			mult *= m
		}
	}
	return base * mult
}

// decideLevel applies the ordered threshold policy. Red flags force an
// emergency classification regardless of score.
func decideLevel(score float64, redFlagCount int) (string, float64, []string) {
	if redFlagCount > 0 || score >= 15.0 {
		confidence := clamp01(minFloat(0.95, 0.75+(score-15.0)*0.02))
		return LevelEmergency, confidence, []string{
			"Immediate emergency medical attention required",
			"Call emergency services (911) immediately",
			"Do not drive yourself to the hospital",
		}
	}
	if score >= 8.0 {
		confidence := clamp01(minFloat(0.90, 0.70+(score-8.0)*0.025))
		return LevelUrgent, confidence, []string{
			"Seek medical care within the next 24 hours",
			"Monitor symptoms closely",
			"If symptoms worsen, seek immediate emergency care",
		}
	}
	confidence := clamp01(minFloat(0.85, 0.60+score*0.03))
	return LevelNonUrgent, confidence, []string{
		"Schedule an appointment with your primary care provider",
		"Monitor symptoms and maintain a symptom diary",
		"Practice self-care measures as appropriate",
	}
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]catalogEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func addAll(set map[string]struct{}, values []string) {
	for _, v := range values {
		set[v] = struct{}{}
	}
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
