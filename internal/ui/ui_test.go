package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetThemeFallsBackToClassic(t *testing.T) {
	t.Cleanup(func() { SetTheme("classic") })

	SetTheme("neon")
	require.Equal(t, "neon", Current().Name)
	SetTheme("MONO")
	require.Equal(t, "mono", Current().Name)
	SetTheme("does-not-exist")
	require.Equal(t, "classic", Current().Name)
}

func TestPanelStringContainsLines(t *testing.T) {
	out := PanelString("first\nsecond")
	require.Contains(t, out, "first")
	require.Contains(t, out, "second")
	require.Greater(t, strings.Count(out, "\n"), 2)
}

func TestFailf(t *testing.T) {
	t.Cleanup(func() { SetTheme("classic") })
	SetTheme("mono")

	var buf bytes.Buffer
	Failf(&buf, "boom")
	require.Equal(t, "x boom\n", buf.String())
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	require.Equal(t, "héllo wo...", Truncate("héllo wonderful", 11))
}
