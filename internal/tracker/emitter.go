package tracker

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/lukemoll/replay/internal/models"
)

// Emitter submits engagement events to the metrics endpoint. Submission is
// fire-and-forget: the caller never waits on the network, there are no
// retries, and a failed submission is logged and dropped.
type Emitter struct {
	endpoint   string
	token      string
	tracker    *Tracker
	httpClient *http.Client
	wg         sync.WaitGroup
}

// NewEmitter builds an emitter posting to endpoint (the server's /log URL).
// token, when non-empty, is sent as the shared-secret X-Metrics-Token
// header.
func NewEmitter(endpoint, token string, tracker *Tracker) *Emitter {
	return &Emitter{
		endpoint: endpoint,
		token:    token,
		tracker:  tracker,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type logRequest struct {
	EventType models.EventType `json:"eventType"`
	UserID    string           `json:"userId"`
	SessionID string           `json:"sessionId"`
	SongID    string           `json:"songId"`
	Details   string           `json:"details"`
}

// Emit stamps the event with the current identity and session and posts it
// in the background. Identity resolution happens synchronously so the
// session window reflects the time of the event, not of the send.
func (e *Emitter) Emit(eventType models.EventType, songID, details string) {
	userID, err := e.tracker.UserID()
	if err != nil {
		log.Warn().Err(err).Msg("Dropping metric event: no user id")
		return
	}

	sessionID, err := e.tracker.SessionID(time.Now())
	if err != nil {
		log.Warn().Err(err).Msg("Dropping metric event: no session id")
		return
	}

	payload := logRequest{
		EventType: eventType,
		UserID:    userID,
		SessionID: sessionID,
		SongID:    songID,
		Details:   details,
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.post(payload)
	}()
}

// Wait blocks until all in-flight submissions have finished. Intended for
// client shutdown and tests; Emit callers never need it.
func (e *Emitter) Wait() {
	e.wg.Wait()
}

func (e *Emitter) post(payload logRequest) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Msg("Dropping metric event: encode failed")
		return
	}

	req, err := http.NewRequest("POST", e.endpoint, bytes.NewBuffer(data))
	if err != nil {
		log.Warn().Err(err).Msg("Dropping metric event: bad request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("X-Metrics-Token", e.token)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("event", string(payload.EventType)).Msg("Metric submission failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("event", string(payload.EventType)).Msg("Metric submission rejected")
	}
}
