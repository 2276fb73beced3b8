package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the engagement events the client reports.
type EventType string

const (
	EventVisit                    EventType = "visit"
	EventSearch                   EventType = "search"
	EventVote                     EventType = "vote"
	EventNoResults                EventType = "no_results"
	EventPreviewLoaded            EventType = "preview_loaded"
	EventFeedback                 EventType = "feedback"
	EventWaitlistEmail            EventType = "waitlist_email"
	EventTimeOnSite               EventType = "time_on_site"
	EventCompletedRecommendations EventType = "completed_recommendations"
)

func (t EventType) Valid() bool {
	switch t {
	case EventVisit, EventSearch, EventVote, EventNoResults, EventPreviewLoaded,
		EventFeedback, EventWaitlistEmail, EventTimeOnSite, EventCompletedRecommendations:
		return true
	}
	return false
}

// Metric is one anonymized engagement event, correlated by the client's
// user and session identifiers. SongID and Details are empty strings, not
// null, when the event has neither.
type Metric struct {
	ID        string    `json:"id"`
	EventType EventType `json:"eventType"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	SongID    string    `json:"songId"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMetric(eventType EventType, userID, sessionID, songID, details string) *Metric {
	return &Metric{
		ID:        uuid.New().String(),
		EventType: eventType,
		UserID:    userID,
		SessionID: sessionID,
		SongID:    songID,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}
