package engine

import (
	"log"

	"medtriage/internal/config"
	"medtriage/internal/knowledge"
	"medtriage/internal/preventive"
	"medtriage/internal/risk"
	"medtriage/internal/temporal"
	"medtriage/internal/triage"
)

// Service composes the scoring, recommendation, temporal and triage
// engines behind one explicitly constructed object. Everything inside
// is immutable after New, so a single Service is shared across all
// request handlers without locking.
type Service struct {
	Knowledge  *knowledge.Base
	Scorer     *risk.Scorer
	Analyzer   *temporal.Analyzer
	Classifier *triage.Classifier
	Preventive *preventive.Recommender
}

func New(cfg *config.Config) *Service {
	kb := knowledge.Load(cfg.Knowledge.SymptomPath)
	scorer := risk.NewScorer(kb)
	analyzer := temporal.NewAnalyzer()
	svc := &Service{
		Knowledge:  kb,
		Scorer:     scorer,
		Analyzer:   analyzer,
		Classifier: triage.NewClassifier(),
		Preventive: preventive.New(scorer, analyzer, cfg.Knowledge.GuidelinePath),
	}
	log.Printf("[Engine] initialized with %d symptoms", kb.Size())
	return svc
}
