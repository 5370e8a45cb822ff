package tasklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhle/taskdeck/internal/model"
)

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	require.Equal(t, "now", relativeTime(now))
	require.Equal(t, "in 3d", relativeTime(now.Add(72*time.Hour+time.Minute)))
	require.Equal(t, "in 2h", relativeTime(now.Add(2*time.Hour+time.Minute)))
	require.Equal(t, "5h ago", relativeTime(now.Add(-5*time.Hour-time.Minute)))
	require.Equal(t, "1d ago", relativeTime(now.Add(-25*time.Hour)))
}

func TestTruncatePadsAndShortens(t *testing.T) {
	require.Equal(t, "abc   ", truncate("abc", 6))
	require.Equal(t, "abcde…", truncate("abcdefgh", 6))
}

func TestFilterCycles(t *testing.T) {
	// Status cycles through every workflow state and back to "all".
	s := model.TaskStatus("")
	var seen []model.TaskStatus
	for i := 0; i < len(statusCycle); i++ {
		s = nextStatus(s)
		seen = append(seen, s)
	}
	require.Equal(t, []model.TaskStatus{
		model.StatusTodo, model.StatusInProgress,
		model.StatusReview, model.StatusCompleted, "",
	}, seen)

	require.Equal(t, model.PriorityLow, nextPriority(""))
	require.Equal(t, model.TaskPriority(""), nextPriority(model.PriorityUrgent))
}
