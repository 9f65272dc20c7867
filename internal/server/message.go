package server

import (
	"encoding/json"
	"time"
)

// MessageType names a WebSocket message.
type MessageType string

const (
	// Client → Server
	MessageTypeClassify MessageType = "classify"
	MessageTypeCompare  MessageType = "compare"
	MessageTypeOdds     MessageType = "odds"

	// Server → Client
	MessageTypeResult MessageType = "result"
	MessageTypeError  MessageType = "error"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message stamped with now.
func NewMessage(messageType MessageType, requestID string, now time.Time, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
		RequestID: requestID,
	}, nil
}
