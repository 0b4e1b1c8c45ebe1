package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"build", "sample", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestBuildFlags(t *testing.T) {
	for _, name := range []string{"output-dir", "org", "sample"} {
		assert.NotNil(t, buildCmd.Flags().Lookup(name), "missing flag %q", name)
	}
}

func TestRootPersistentFlags(t *testing.T) {
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))

	logLevel := rootCmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevel)
	assert.Equal(t, "info", logLevel.DefValue)
}

func TestVersionRejectsUnknownFormat(t *testing.T) {
	versionFormat = "xml"
	defer func() { versionFormat = "text" }()

	err := runVersionCommand(versionCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
