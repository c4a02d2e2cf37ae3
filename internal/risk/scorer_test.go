package risk

import (
	"reflect"
	"testing"

	"medtriage/internal/knowledge"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	return NewScorer(knowledge.Load(""))
}

func TestScore_EmptyInput(t *testing.T) {
	s := newTestScorer(t)
	res := s.Score(nil, nil)
	if res.TotalRisk != 0 || res.SeverityScore != 0 || res.CorrelationScore != 0 {
		t.Errorf("empty input should score zero, got %+v", res)
	}
	if res.RiskMultiplier != 1.0 {
		t.Errorf("empty input multiplier should stay at neutral 1.0, got %f", res.RiskMultiplier)
	}
}

func TestScore_UnknownIDsSkipped(t *testing.T) {
	s := newTestScorer(t)
	withUnknown := s.Score([]string{"fever", "definitely_not_a_symptom"}, nil)
	justFever := s.Score([]string{"fever"}, nil)
	if withUnknown != justFever {
		t.Errorf("unknown ids must not change the score: %+v vs %+v", withUnknown, justFever)
	}

	allUnknown := s.Score([]string{"nope", "also_nope"}, nil)
	if allUnknown.TotalRisk != 0 {
		t.Errorf("fully-unknown set should behave as empty, got %+v", allUnknown)
	}
}

func TestScore_SeverityMean(t *testing.T) {
	s := newTestScorer(t)
	// fever is MODERATE (2), chest_pain is CRITICAL (4)
	res := s.Score([]string{"fever", "chest_pain"}, nil)
	if res.SeverityScore != 3.0 {
		t.Errorf("expected severity mean 3.0, got %f", res.SeverityScore)
	}
}

func TestScore_RiskFactorMonotonicity(t *testing.T) {
	s := newTestScorer(t)
	symptoms := []string{"fever", "shortness_of_breath"}

	base := s.Score(symptoms, nil)
	withFactor := s.Score(symptoms, map[string]float64{"age_65_plus": 1.0})
	if withFactor.TotalRisk < base.TotalRisk {
		t.Errorf("adding a matching risk factor lowered total risk: %f -> %f",
			base.TotalRisk, withFactor.TotalRisk)
	}
	if withFactor.RiskMultiplier <= base.RiskMultiplier {
		t.Errorf("multiplier should grow with a matching factor: %f -> %f",
			base.RiskMultiplier, withFactor.RiskMultiplier)
	}

	// A factor no symptom declares must change nothing.
	unrelated := s.Score(symptoms, map[string]float64{"unrelated_factor": 1.0})
	if unrelated != base {
		t.Errorf("unmatched factor changed the score: %+v vs %+v", unrelated, base)
	}
}

func TestScore_AdditiveMultiplier(t *testing.T) {
	s := newTestScorer(t)
	// fever declares age_65_plus 1.5 and immunocompromised 2.0; with both
	// at value 1.0 the multiplier is 1 + 1.5 + 2.0.
	res := s.Score([]string{"fever"}, map[string]float64{
		"age_65_plus":       1.0,
		"immunocompromised": 1.0,
	})
	if res.RiskMultiplier != 4.5 {
		t.Errorf("expected additive multiplier 4.5, got %f", res.RiskMultiplier)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := newTestScorer(t)
	symptoms := []string{"fever", "cough", "shortness_of_breath"}
	factors := map[string]float64{"smoking": 0.8, "age_65_plus": 0.5}

	first := s.Score(symptoms, factors)
	second := s.Score(symptoms, factors)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs should score identically: %+v vs %+v", first, second)
	}
}

func TestScore_CorrelationRequiresTwoSymptoms(t *testing.T) {
	s := newTestScorer(t)
	res := s.Score([]string{"fever"}, nil)
	if res.CorrelationScore != 0 {
		t.Errorf("single symptom should have correlation 0, got %f", res.CorrelationScore)
	}

	pair := s.Score([]string{"fever", "cough"}, nil)
	if pair.CorrelationScore <= 0 || pair.CorrelationScore > 1 {
		t.Errorf("pair correlation should be in (0,1], got %f", pair.CorrelationScore)
	}
}

func TestSuggestSymptoms_ExcludesCurrentAndCaps(t *testing.T) {
	s := newTestScorer(t)
	current := []string{"fever", "cough"}

	suggestions := s.SuggestSymptoms(current, 3)
	if len(suggestions) > 3 {
		t.Errorf("expected at most 3 suggestions, got %d", len(suggestions))
	}
	for _, name := range suggestions {
		if name == "Fever" || name == "Cough" {
			t.Errorf("suggestion %q is already in the current set", name)
		}
	}
}

func TestSuggestSymptoms_EmptyInput(t *testing.T) {
	s := newTestScorer(t)
	if got := s.SuggestSymptoms(nil, 3); len(got) != 0 {
		t.Errorf("expected no suggestions for empty input, got %v", got)
	}
	if got := s.SuggestSymptoms([]string{"unknown_id"}, 3); len(got) != 0 {
		t.Errorf("expected no suggestions when nothing matches, got %v", got)
	}
}

func TestSeverityRecommendation_Bands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{9.0, "EMERGENCY"},
		{8.0, "EMERGENCY"},
		{6.5, "URGENT"},
		{4.0, "MODERATE"},
		{1.0, "LOW"},
	}
	for _, tc := range cases {
		got := SeverityRecommendation(tc.score)
		if len(got) < len(tc.want) || got[:len(tc.want)] != tc.want {
			t.Errorf("SeverityRecommendation(%.1f) = %q, want prefix %q", tc.score, got, tc.want)
		}
	}
}

func TestCosine_ZeroVector(t *testing.T) {
	if got := cosine([]float64{0, 0}, []float64{1, 2}); got != 0 {
		t.Errorf("cosine with zero vector should be 0, got %f", got)
	}
}
