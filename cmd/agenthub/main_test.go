package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"login", "agents", "improve", "logout", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config", "api-url"} {
		flag := rootCmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "missing flag %s", name)
	}
}
