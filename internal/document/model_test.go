package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySnapshotHasOnlyWorkspace(t *testing.T) {
	s := NewEmptySnapshot("obj_ws", 0, 0)
	require.Len(t, s.Objects, 1)

	ws, ok := s.Workspace()
	require.True(t, ok)
	assert.Equal(t, "obj_ws", ws.ID)
	assert.Equal(t, float64(DefaultWorkspaceWidth), ws.Width)
	assert.Equal(t, float64(DefaultWorkspaceHeight), ws.Height)
	require.NotNil(t, ws.Selectable)
	assert.False(t, *ws.Selectable)
}

func TestMarshalRoundTrip(t *testing.T) {
	s := NewSampleSnapshot()
	data, err := Marshal(s)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, len(s.Objects), len(got.Objects))

	ws, ok := got.Workspace()
	require.True(t, ok)
	assert.Equal(t, s.Objects[0].ID, ws.ID)
}

func TestAllowListedFieldsAreOmittedWhenNil(t *testing.T) {
	node := ObjectNode{ID: "obj_1", Type: ObjectTypeRect}
	data, err := json.Marshal(node)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range AllowList {
		_, present := raw[key]
		assert.False(t, present, key)
	}
}

func TestUnmarshalRejectsBadSnapshots(t *testing.T) {
	cases := map[string]string{
		"garbage":       `{`,
		"version":       `{"version":"0","objects":[]}`,
		"missing id":    `{"version":"1","objects":[{"type":"rect"}]}`,
		"duplicate id":  `{"version":"1","objects":[{"id":"a","type":"rect"},{"id":"a","type":"rect"}]}`,
		"unknown type":  `{"version":"1","objects":[{"id":"a","type":"sprite"}]}`,
		"transient sel": `{"version":"1","objects":[{"id":"a","type":"activeselection"}]}`,
	}
	for name, data := range cases {
		_, err := Unmarshal([]byte(data))
		assert.ErrorIs(t, err, ErrInvalidSnapshot, name)
	}
}

func TestMarshalNilObjectsAsEmptyArray(t *testing.T) {
	data, err := Marshal(Snapshot{Version: Version})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1","objects":[]}`, string(data))
}
