package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.MPCNodes)
	require.Equal(t, 2, cfg.MPCThreshold)
}

func TestLoadRejectsThresholdAboveNodes(t *testing.T) {
	t.Setenv("MPC_NODES", "3")
	t.Setenv("MPC_THRESHOLD", "5")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsThresholdBelowTwo(t *testing.T) {
	t.Setenv("MPC_NODES", "3")
	t.Setenv("MPC_THRESHOLD", "1")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonIntegerEnv(t *testing.T) {
	t.Setenv("MPC_NODES", "not-a-number")
	_, err := Load()
	require.Error(t, err)
}
