package tracker

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SessionWindow is how long a session stays valid, measured from when it
// was minted. Activity inside the window reuses the session without
// touching the stored timestamp.
const SessionWindow = 30 * time.Minute

const (
	userKey    = "user_id"
	sessionKey = "session"
)

// Tracker derives the stable anonymous user id and the time-windowed
// session id every emitted event is correlated by.
type Tracker struct {
	store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// UserID returns the installation's anonymous identity token, creating and
// persisting one on first use.
func (t *Tracker) UserID() (string, error) {
	id, err := t.store.Get(userKey)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("reading user id: %w", err)
	}

	id = uuid.New().String()
	if err := t.store.Put(userKey, id); err != nil {
		return "", fmt.Errorf("storing user id: %w", err)
	}
	return id, nil
}

type sessionRecord struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
}

// SessionID returns the current session id, minting a fresh one when no
// session exists or the stored one started SessionWindow or longer ago. The
// stored record is always a complete {id, startedAt} pair.
func (t *Tracker) SessionID(now time.Time) (string, error) {
	stored, err := t.store.Get(sessionKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("reading session: %w", err)
	}

	if err == nil {
		var rec sessionRecord
		// A corrupt record is treated like an expired one.
		if jsonErr := json.Unmarshal([]byte(stored), &rec); jsonErr == nil &&
			rec.ID != "" && now.Sub(rec.StartedAt) < SessionWindow {
			return rec.ID, nil
		}
	}

	rec := sessionRecord{ID: uuid.New().String(), StartedAt: now}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	if err := t.store.Put(sessionKey, string(data)); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return rec.ID, nil
}
