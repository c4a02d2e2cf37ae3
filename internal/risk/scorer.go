package risk

import (
	"math"
	"sort"

	"medtriage/internal/knowledge"
)

// Result is the composite risk score for one request. The blend behind
// TotalRisk is an interpretable heuristic, not a clinical ground truth;
// callers must present it as pre-screening guidance only.
type Result struct {
	TotalRisk        float64 `json:"total_risk"`
	SeverityScore    float64 `json:"severity_score"`
	CorrelationScore float64 `json:"correlation_score"`
	RiskMultiplier   float64 `json:"risk_multiplier"`
}

// Scorer computes risk scores against an immutable knowledge base.
type Scorer struct {
	kb *knowledge.Base
}

func NewScorer(kb *knowledge.Base) *Scorer {
	return &Scorer{kb: kb}
}

// Score blends mean severity, pairwise correlation and accumulated risk
// factors into a 0-10 scale. Unknown symptom ids are skipped; an empty
// or fully-unknown set scores zero across the board.
func (s *Scorer) Score(symptomIDs []string, riskFactors map[string]float64) Result {
	matched := s.matchIndices(symptomIDs)
	if len(matched) == 0 {
		return Result{RiskMultiplier: round2(1.0)}
	}

	severitySum := 0.0
	for _, idx := range matched {
		severitySum += float64(s.kb.Symptoms()[idx].Severity)
	}
	severityScore := severitySum / float64(len(matched))

	correlationScore := 0.0
	if len(matched) > 1 {
		correlationScore = meanPairwiseCosine(s.kb, matched)
	}

	// Risk factors add to the multiplier per matching symptom; this is
	// deliberately additive, unlike the triage classifier's product.
	multiplier := 1.0
	for factor, value := range riskFactors {
		for _, idx := range matched {
			if w, ok := s.kb.Symptoms()[idx].RiskFactors[factor]; ok {
				multiplier += w * value
			}
		}
	}

	total := (0.4*severityScore + 0.3*correlationScore + 0.3*(multiplier-1)) * 10

	return Result{
		TotalRisk:        round2(total),
		SeverityScore:    round2(severityScore),
		CorrelationScore: round2(correlationScore),
		RiskMultiplier:   round2(multiplier),
	}
}

// SuggestSymptoms returns up to max symptom names, ranked by their mean
// cosine correlation against the current set, excluding symptoms
// already present.
func (s *Scorer) SuggestSymptoms(currentIDs []string, max int) []string {
	matched := s.matchIndices(currentIDs)
	if len(matched) == 0 || max <= 0 {
		return nil
	}

	current := make(map[string]struct{}, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = struct{}{}
	}

	n := s.kb.Size()
	type candidate struct {
		idx  int
		mean float64
	}
	candidates := make([]candidate, 0, n)
	for j := 0; j < n; j++ {
		sum := 0.0
		for _, i := range matched {
			sum += cosine(s.kb.CorrelationRow(i), s.kb.CorrelationRow(j))
		}
		candidates = append(candidates, candidate{idx: j, mean: sum / float64(len(matched))})
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].mean > candidates[b].mean
	})

	var names []string
	for _, c := range candidates {
		sym := s.kb.Symptoms()[c.idx]
		if _, present := current[sym.ID]; present {
			continue
		}
		names = append(names, sym.Name)
		if len(names) >= max {
			break
		}
	}
	return names
}

// SeverityRecommendation maps a total risk score to pre-screening
// guidance wording.
func SeverityRecommendation(totalRisk float64) string {
	switch {
	case totalRisk >= 8.0:
		return "EMERGENCY: Seek immediate medical attention. Call emergency services or go to the nearest emergency room."
	case totalRisk >= 6.0:
		return "URGENT: Seek medical attention within the next 24 hours. Contact your healthcare provider or visit an urgent care center."
	case totalRisk >= 4.0:
		return "MODERATE: Schedule an appointment with your healthcare provider within the next few days."
	default:
		return "LOW: Monitor symptoms. If they persist or worsen, schedule a routine appointment with your healthcare provider."
	}
}

func (s *Scorer) matchIndices(ids []string) []int {
	var matched []int
	for _, id := range ids {
		if idx := s.kb.IndexOf(id); idx >= 0 {
			matched = append(matched, idx)
		}
	}
	return matched
}

// meanPairwiseCosine averages cosine similarity over every ordered pair
// of the matched rows, self-pairs included. The self-pairs keep the
// score comparable with historical results.
func meanPairwiseCosine(kb *knowledge.Base, indices []int) float64 {
	sum := 0.0
	for _, i := range indices {
		for _, j := range indices {
			sum += cosine(kb.CorrelationRow(i), kb.CorrelationRow(j))
		}
	}
	return sum / float64(len(indices)*len(indices))
}

// cosine returns the cosine similarity of two vectors, or 0 when either
// has zero magnitude.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for k := range a {
		dot += a[k] * b[k]
		na += a[k] * a[k]
		nb += b[k] * b[k]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
