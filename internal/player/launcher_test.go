package player

import (
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(l *Launcher) *[]string {
	var got []string
	l.run = func(cmd *exec.Cmd) error {
		got = cmd.Args
		return nil
	}
	return &got
}

func TestPlayConfiguredCommand(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("darwin may route through open -a")
	}
	l := NewLauncher("mpv", []string{"--fs"}, logging.NullLogger())
	got := capture(l)

	require.NoError(t, l.Play(domain.Video{ID: "abc123"}))
	assert.Equal(t, []string{"mpv", "--fs", "https://www.youtube.com/watch?v=abc123"}, *got)
}

func TestLaunchSystemDefault(t *testing.T) {
	l := NewLauncher("", nil, logging.NullLogger())
	got := capture(l)

	require.NoError(t, l.Launch("https://www.youtube.com/watch?v=x"))
	require.NotEmpty(t, *got)
	assert.Equal(t, "https://www.youtube.com/watch?v=x", (*got)[len(*got)-1])
}

func TestPlayWithoutID(t *testing.T) {
	l := NewLauncher("", nil, logging.NullLogger())
	capture(l)
	assert.ErrorIs(t, l.Play(domain.Video{}), domain.ErrInvalidVideoID)
}

func TestLaunchFailure(t *testing.T) {
	l := NewLauncher("mpv", nil, logging.NullLogger())
	l.run = func(*exec.Cmd) error { return errors.New("exec: not found") }

	err := l.Launch("https://www.youtube.com/watch?v=x")
	assert.ErrorContains(t, err, "not found")
}
