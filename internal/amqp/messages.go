package amqp

import (
	"encoding/json"
	"time"
)

// BackupMessage asks the worker to zip the database and mail it. It
// carries only who asked and when; the worker reads everything else
// from its own configuration.
type BackupMessage struct {
	RequestedBy uint      `json:"requested_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewBackupMessage creates a backup request stamped with now.
func NewBackupMessage(requestedBy uint) *BackupMessage {
	return &BackupMessage{RequestedBy: requestedBy, Timestamp: time.Now()}
}

// ToJSON converts the message to JSON bytes.
func (m *BackupMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BackupMessageFromJSON decodes a message from JSON bytes.
func BackupMessageFromJSON(data []byte) (*BackupMessage, error) {
	var msg BackupMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
