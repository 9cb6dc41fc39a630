package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	entries []*models.AuditLog
	err     error
}

func (f *fakeWriter) InsertAuditLog(_ context.Context, entry *models.AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func TestRecorder_RecordLogin(t *testing.T) {
	writer := &fakeWriter{}
	recorder := NewRecorder(writer)

	recorder.RecordLogin(context.Background(), 42, "203.0.113.1", "curl/7.68.0", true)

	require.Len(t, writer.entries, 1)
	entry := writer.entries[0]
	assert.Equal(t, models.AuditLogin, entry.Action)
	assert.Equal(t, int64(42), *entry.UserID)
	assert.Equal(t, "203.0.113.1", entry.IPAddress)
	assert.True(t, entry.Success)
	assert.Contains(t, entry.Details, "user_login")
}

func TestRecorder_RecordAccessDenied(t *testing.T) {
	writer := &fakeWriter{}
	recorder := NewRecorder(writer)

	userID := int64(7)
	recorder.RecordAccessDenied(context.Background(), &userID, "security_log", "missing delete_logs", "10.1.2.3", "")

	require.Len(t, writer.entries, 1)
	entry := writer.entries[0]
	assert.Equal(t, models.AuditAccessDenied, entry.Action)
	assert.Equal(t, "security_log", entry.ResourceType)
	assert.False(t, entry.Success)
}

func TestRecorder_WriteFailureIsSwallowed(t *testing.T) {
	writer := &fakeWriter{err: errors.New("disk full")}
	recorder := NewRecorder(writer)

	// Must not panic or propagate.
	recorder.RecordLogout(context.Background(), 1, "10.0.0.1", "agent")

	assert.Empty(t, writer.entries)
}
