package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewKeyCanonicalizesParameterOrder(t *testing.T) {
	a := NewKey("tasks", map[string]string{
		"status":      "TODO",
		"priority":    "HIGH",
		"sortDueDate": "asc",
	})
	b := NewKey("tasks", map[string]string{
		"sortDueDate": "asc",
		"priority":    "HIGH",
		"status":      "TODO",
	})

	require.Equal(t, a, b)
	require.Equal(
		t,
		Key("tasks|priority=HIGH&sortDueDate=asc&status=TODO"),
		a,
	)
}

func TestNewKeyDropsEmptyParameters(t *testing.T) {
	k := NewKey("tasks", map[string]string{
		"status":      "",
		"priority":    "",
		"sortDueDate": "asc",
	})
	require.Equal(t, Key("tasks|sortDueDate=asc"), k)

	bare := NewKey("tasks", map[string]string{"status": ""})
	require.Equal(t, Key("tasks"), bare)

	require.Equal(t, Key("me"), NewKey("me", nil))
}

func TestKeyOp(t *testing.T) {
	require.Equal(t, "tasks", NewKey("tasks", map[string]string{"status": "TODO"}).Op())
	require.Equal(t, "me", NewKey("me", nil).Op())
}

func TestKeyHasPrefixIsSegmentAware(t *testing.T) {
	filtered := NewKey("tasks", map[string]string{"status": "TODO"})
	bare := NewKey("tasks", nil)

	require.True(t, filtered.HasPrefix("tasks"))
	require.True(t, bare.HasPrefix("tasks"))

	// A prefix never matches across a segment boundary.
	require.False(t, Key("tasksarchive").HasPrefix("tasks"))
	require.False(t, filtered.HasPrefix("task"))
	require.False(t, bare.HasPrefix("dashboard"))
}
