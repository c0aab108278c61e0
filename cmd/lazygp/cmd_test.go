package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("LAZYGP_SEED", "7")
	var out bytes.Buffer
	cmd := NewCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())

	return out.String()
}

func TestTrain(t *testing.T) {
	out := run(t, "train", "--readings", "40", "--grid", "20", "--steps", "2", "--exact")
	require.Equal(t, 2, strings.Count(out, "msg=step"))
	require.Contains(t, out, "mll=")
}

func TestLogDet(t *testing.T) {
	out := run(t, "logdet", "--readings", "30", "--grid", "20")
	require.Contains(t, out, "msg=log-determinant")
	require.Contains(t, out, "exact=")
}

func TestBadReadings(t *testing.T) {
	cmd := NewCLI()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"logdet", "--readings", "1"})
	require.ErrorContains(t, cmd.Execute(), "--readings")
}
