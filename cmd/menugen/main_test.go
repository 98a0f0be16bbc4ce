package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	root := rootCmd()

	want := []string{"fetch", "images", "generate", "build", "run", "watch", "helpdoc"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, "subcommand %q not found", name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	root := rootCmd()

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}
