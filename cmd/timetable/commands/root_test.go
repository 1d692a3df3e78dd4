package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnderscoreFlagsNormalize(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log_level"))

	f := generateCmd.Flags()
	require.NotNil(t, f.Lookup("persist"))
	require.NoError(t, f.Set("seed", "7"))
	assert.Equal(t, uint64(7), genSeed)
	assert.Equal(t, "log-level", string(dashedFlags(f, "log_level")))
}
