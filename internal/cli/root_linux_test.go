package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-desktop/internal/config"
	"todo-desktop/internal/window"
)

func TestWindowFactory_NoDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	cfg, err := config.Load("")
	require.NoError(t, err)

	w, err := windowFactory(cfg)()
	require.ErrorIs(t, err, window.ErrNoDisplay)
	assert.Nil(t, w)
}
