package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"medtriage/internal/assessment"
	"medtriage/internal/cache"
	"medtriage/internal/engine"
	"medtriage/internal/risk"
	"medtriage/internal/temporal"
)

// How many follow-up questions the conversational layer shows at once.
const displayFollowUps = 3

type ScoreRequest struct {
	Symptoms    []string           `json:"symptoms"`
	RiskFactors map[string]float64 `json:"risk_factors"`
}

type ScoreResponse struct {
	risk.Result
	Guidance string `json:"guidance"`
}

// POST /risk/score computes the composite risk score. The score is an
// interpretable pre-screening heuristic, not a diagnosis; the guidance
// wording reflects that.
func ScoreHandler(svc *engine.Service, scoreCache *cache.ScoreCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}

		key := cache.Key(req.Symptoms, req.RiskFactors)
		if res, ok := scoreCache.Get(c.Request.Context(), key); ok {
			c.JSON(http.StatusOK, ScoreResponse{Result: res, Guidance: risk.SeverityRecommendation(res.TotalRisk)})
			return
		}

		res := svc.Scorer.Score(req.Symptoms, req.RiskFactors)
		if err := scoreCache.Set(c.Request.Context(), key, res); err != nil {
			log.Printf("[API] score cache write failed: %v", err)
		}
		c.JSON(http.StatusOK, ScoreResponse{Result: res, Guidance: risk.SeverityRecommendation(res.TotalRisk)})
	}
}

type SuggestionsRequest struct {
	Symptoms       []string `json:"symptoms"`
	MaxSuggestions int      `json:"max_suggestions"`
}

// POST /risk/suggestions returns correlated symptoms worth probing.
func SuggestionsHandler(svc *engine.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SuggestionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		max := req.MaxSuggestions
		if max <= 0 {
			max = 3
		}
		suggestions := svc.Scorer.SuggestSymptoms(req.Symptoms, max)
		if suggestions == nil {
			suggestions = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
	}
}

type AssessRequest struct {
	SessionID      string             `json:"session_id"`
	Symptoms       []string           `json:"symptoms"`
	SeverityScores map[string]float64 `json:"severity_scores"`
	RiskFactors    []string           `json:"risk_factors"`
	VitalSigns     map[string]float64 `json:"vital_signs"`
}

// POST /triage/assess runs the triage classifier and persists the
// issued assessment. Persistence failures are logged, never surfaced:
// the assessment itself must always reach the caller.
func AssessHandler(svc *engine.Service, store *assessment.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}

		result := svc.Classifier.Assess(req.Symptoms, req.SeverityScores, req.RiskFactors, req.VitalSigns)
		score := svc.Classifier.FinalScore(req.Symptoms, req.RiskFactors)

		display := result.FollowUpQuestions
		if len(display) > displayFollowUps {
			display = display[:displayFollowUps]
		}

		var recordID string
		payload, err := json.Marshal(result)
		if err == nil {
			if rec, err := store.Save(req.SessionID, result, score, payload); err != nil {
				log.Printf("[API] failed to persist assessment: %v", err)
			} else {
				recordID = rec.ID
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"id":                 recordID,
			"assessment":         result,
			"score":              score,
			"display_follow_ups": display,
		})
	}
}

// GET /triage/assessments/:id
func GetAssessmentHandler(store *assessment.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := store.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Assessment not found"}})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// GET /triage/sessions/:sessionId/latest
func LatestAssessmentHandler(store *assessment.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := store.LatestForSession(c.Param("sessionId"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "No assessment for session"}})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

type AnalyzeRequest struct {
	History []temporal.Entry `json:"history"`
}

// POST /patterns/analyze mines a symptom history for daily, weekly and
// co-occurrence patterns. ?insights=true adds the readable summary.
func AnalyzePatternsHandler(svc *engine.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		report := svc.Analyzer.Analyze(req.History)
		resp := gin.H{"report": report}
		if c.Query("insights") == "true" {
			resp["insights"] = svc.Analyzer.GenerateInsights(report)
		}
		c.JSON(http.StatusOK, resp)
	}
}

type PreventiveRequest struct {
	Patient struct {
		Age int `json:"age"`
	} `json:"patient"`
	SymptomHistory []temporal.Entry   `json:"symptom_history"`
	RiskFactors    map[string]float64 `json:"risk_factors"`
}

// POST /preventive/recommendations
func PreventiveHandler(svc *engine.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PreventiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		recs := svc.Preventive.Generate(req.Patient.Age, req.SymptomHistory, req.RiskFactors)
		c.JSON(http.StatusOK, gin.H{"recommendations": recs})
	}
}

// GET /symptoms lists the loaded knowledge-base catalog.
func ListSymptomsHandler(svc *engine.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"symptoms": svc.Knowledge.Symptoms()})
	}
}
