package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"medtriage/internal/triage"
)

// Record is one persisted triage assessment. The engine itself never
// writes these; the HTTP layer stores each issued assessment so the
// latest level and score per session can be looked up later.
type Record struct {
	ID         string         `json:"id" gorm:"primaryKey"`
	SessionID  string         `json:"session_id" gorm:"index"`
	Level      string         `json:"level"`
	Confidence float64        `json:"confidence"`
	Score      float64        `json:"score"`
	Payload    datatypes.JSON `json:"payload"`
	CreatedAt  time.Time      `json:"createdAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Save persists an assessment and returns the stored record.
func (s *Store) Save(sessionID string, a triage.Assessment, score float64, payload []byte) (*Record, error) {
	rec := &Record{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Level:      a.Level,
		Confidence: a.ConfidenceScore,
		Score:      score,
		Payload:    datatypes.JSON(payload),
	}
	if err := s.db.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// Get fetches one assessment by id.
func (s *Store) Get(id string) (*Record, error) {
	var rec Record
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// LatestForSession returns the most recent assessment for a session.
func (s *Store) LatestForSession(sessionID string) (*Record, error) {
	var rec Record
	err := s.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
