package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStages_CompletedRun(t *testing.T) {
	t.Parallel()

	st, err := newStages()
	require.NoError(t, err)
	assert.Equal(t, StageHome, st.current())

	st.send(EventHomeResolved)
	assert.Equal(t, StageSelecting, st.current())
	st.send(EventSelected)
	assert.Equal(t, StageConfiguring, st.current())
	st.send(EventConfigured)
	assert.Equal(t, StagePersisting, st.current())

	// No cancel edge once prompting is over.
	st.send(EventCancel)
	assert.Equal(t, StagePersisting, st.current())

	st.send(EventPersisted)
	assert.Equal(t, StageDone, st.current())

	visited := st.stop()
	assert.Equal(t, []Stage{StageSelecting, StageConfiguring, StagePersisting, StageDone}, visited[len(visited)-4:])
}

func TestStages_Cancel(t *testing.T) {
	t.Parallel()

	st, err := newStages()
	require.NoError(t, err)

	st.send(EventHomeResolved)
	st.send(EventCancel)
	assert.Equal(t, StageCancelled, st.current())

	st.send(EventReset)
	assert.Equal(t, StageHome, st.current())

	visited := st.stop()
	assert.Contains(t, visited, StageCancelled)
	assert.NotContains(t, visited, StagePersisting)
}
