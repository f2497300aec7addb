package messaging

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityEvent_Serialization(t *testing.T) {
	groupID := int64(42)
	messageID := int64(5)

	event := ActivityEvent{
		Type:      ActivityMessagePosted,
		GroupID:   &groupID,
		ActorID:   9,
		SubjectID: 9,
		MessageID: &messageID,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded ActivityEvent
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, event.Type, decoded.Type)
	assert.Equal(t, *event.GroupID, *decoded.GroupID)
	assert.Equal(t, event.ActorID, decoded.ActorID)
	assert.Equal(t, *event.MessageID, *decoded.MessageID)
}

func TestActivityEvent_OmitsOptionalFields(t *testing.T) {
	event := ActivityEvent{
		Type:      ActivityMemberLeft,
		ActorID:   9,
		SubjectID: 9,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "group_id")
	assert.NotContains(t, string(data), "message_id")
	assert.NotContains(t, string(data), `"role"`)
}

func TestActivityEventTypes(t *testing.T) {
	// Membership events carry the role only on join and role change.
	types := []string{
		ActivityMemberJoined,
		ActivityMemberLeft,
		ActivityMemberRemoved,
		ActivityRoleChanged,
		ActivityMessagePosted,
		ActivityMessageDeleted,
	}

	seen := make(map[string]bool)
	for _, eventType := range types {
		assert.NotEmpty(t, eventType)
		assert.False(t, seen[eventType], "duplicate event type %s", eventType)
		seen[eventType] = true
	}
}
