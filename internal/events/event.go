package events

import (
	"strconv"
	"time"
)

// Event is one entry of a session's journal, such as:
//   - session started (template id, number of exercises)
//   - set completed (exercise/set index, actual reps and weight)
//   - planned weight updated (exercise index, from set, new weight)
//   - effort recorded (exercise index, rir, suggested next weight)
//   - session completed
//
// The journal is an audit trail; session state never gets rebuilt from it.
type Event struct {
	ID        int64             `json:"id"`
	SessionID string            `json:"sessionId"`
	Type      EventType         `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data"`
}

type EventType string

const (
	EventTypeSessionStarted       EventType = "session_started"
	EventTypeSetCompleted         EventType = "set_completed"
	EventTypePlannedWeightUpdated EventType = "planned_weight_updated"
	EventTypeEffortRecorded       EventType = "effort_recorded"
	EventTypeSessionCompleted     EventType = "session_completed"
)

func (et EventType) String() string {
	return string(et)
}

func (et EventType) IsValid() bool {
	switch et {
	case EventTypeSessionStarted,
		EventTypeSetCompleted,
		EventTypePlannedWeightUpdated,
		EventTypeEffortRecorded,
		EventTypeSessionCompleted:
		return true
	default:
		return false
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func NewSessionStartedEvent(sessionID string, templateID *int64, exercisesCount int, ts time.Time) Event {
	data := map[string]string{
		"exercises": strconv.Itoa(exercisesCount),
	}
	if templateID != nil {
		data["templateId"] = strconv.FormatInt(*templateID, 10)
	}
	return Event{
		SessionID: sessionID,
		Type:      EventTypeSessionStarted,
		Timestamp: ts,
		Data:      data,
	}
}

func NewSetCompletedEvent(sessionID string, exIdx, setIdx int, reps *int, weight *float64, ts time.Time) Event {
	data := map[string]string{
		"exerciseIndex": strconv.Itoa(exIdx),
		"setIndex":      strconv.Itoa(setIdx),
	}
	if reps != nil {
		data["reps"] = strconv.Itoa(*reps)
	}
	if weight != nil {
		data["weight"] = formatFloat(*weight)
	}
	return Event{
		SessionID: sessionID,
		Type:      EventTypeSetCompleted,
		Timestamp: ts,
		Data:      data,
	}
}

func NewPlannedWeightUpdatedEvent(sessionID string, exIdx, fromSetIdx int, weight float64, ts time.Time) Event {
	return Event{
		SessionID: sessionID,
		Type:      EventTypePlannedWeightUpdated,
		Timestamp: ts,
		Data: map[string]string{
			"exerciseIndex": strconv.Itoa(exIdx),
			"fromSetIndex":  strconv.Itoa(fromSetIdx),
			"weight":        formatFloat(weight),
		},
	}
}

func NewEffortRecordedEvent(sessionID string, exIdx int, rir float64, nextWeight *float64, ts time.Time) Event {
	data := map[string]string{
		"exerciseIndex": strconv.Itoa(exIdx),
		"rir":           formatFloat(rir),
	}
	if nextWeight != nil {
		data["nextWeight"] = formatFloat(*nextWeight)
	}
	return Event{
		SessionID: sessionID,
		Type:      EventTypeEffortRecorded,
		Timestamp: ts,
		Data:      data,
	}
}

func NewSessionCompletedEvent(sessionID string, ts time.Time) Event {
	return Event{
		SessionID: sessionID,
		Type:      EventTypeSessionCompleted,
		Timestamp: ts,
		Data:      map[string]string{},
	}
}
