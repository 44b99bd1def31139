package foundation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type color string

func TestEnum(t *testing.T) {
	colors := NewEnum(map[string]color{
		"red":     "red",
		"crimson": "red",
		"Blue":    "blue",
	})

	v, ok := colors.Lookup("  RED ")
	require.True(t, ok)
	require.Equal(t, color("red"), v)

	require.Equal(t, color("red"), colors.Normalize("Crimson"))
	require.Equal(t, color("blue"), colors.Normalize("blue"))

	_, ok = colors.Lookup("green")
	require.False(t, ok)
	require.Equal(t, color(""), colors.Normalize("green"))
}
