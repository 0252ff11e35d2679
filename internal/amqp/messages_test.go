package amqp

import "testing"

func TestBackupMessage_RoundTrip(t *testing.T) {
	msg := NewBackupMessage(7)
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := BackupMessageFromJSON(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RequestedBy != 7 {
		t.Errorf("requested_by = %d, want 7", got.RequestedBy)
	}
	if !got.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, msg.Timestamp)
	}
}

func TestBackupMessageFromJSON_Invalid(t *testing.T) {
	if _, err := BackupMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected decode error")
	}
}
