package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventImprovementCreated is emitted after an improvement is stored in history.
const EventImprovementCreated = "improvement.created"

const messageVersion = 1

// Message is the payload sent to downstream queue consumers.
type Message struct {
	EventID   string `json:"eventId"`
	Type      string `json:"type"`
	ResumeID  int64  `json:"resumeId"`
	HistoryID int64  `json:"historyId"`
	UserID    int64  `json:"userId"`
	RequestID string `json:"requestId,omitempty"`
	CreatedAt string `json:"createdAt"`
	Version   int    `json:"version"`
}

// NewImprovementCreated builds the event for a freshly appended history record.
func NewImprovementCreated(resumeID, historyID, userID int64, createdAt time.Time, requestID string) Message {
	return Message{
		EventID:   uuid.NewString(),
		Type:      EventImprovementCreated,
		ResumeID:  resumeID,
		HistoryID: historyID,
		UserID:    userID,
		RequestID: requestID,
		CreatedAt: createdAt.UTC().Format(time.RFC3339Nano),
		Version:   messageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
