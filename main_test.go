package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Layout(t *testing.T) {
	t.Parallel()

	cmd := newRootCommand()
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "preview"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("port"))

	preview, _, err := cmd.Find([]string{"preview"})
	require.NoError(t, err)
	assert.NotNil(t, preview.Flags().Lookup("log-file"))
}

func TestRootCommand_MissingConfig(t *testing.T) {
	t.Parallel()

	for _, sub := range []string{"serve", "preview"} {
		cmd := newRootCommand()
		cmd.SetArgs([]string{sub, "--config", filepath.Join(t.TempDir(), "missing.yaml")})
		err := cmd.Execute()
		assert.ErrorContains(t, err, "read config", sub)
	}
}
