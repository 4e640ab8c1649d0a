package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tournament-settlement-system/settlement"
)

func TestLoadPolicyDefaults(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, settlement.DefaultPolicy(), p)
}

func TestLoadPolicyOverlay(t *testing.T) {
	p, err := LoadPolicy(filepath.Join("testdata", "policy.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 4, p.RepeatWinnerWindow)
	assert.Equal(t, int64(5000), settlement.RepeatWinnerRate(3, p.RepeatWinnerBrackets))
	assert.Equal(t, int64(7000), p.LoserShareBps)
	assert.Equal(t, settlement.NegativeAmountClamp, p.NegativeAmounts)
	assert.Len(t, p.DefaultPlacements, 3)

	defaults := settlement.DefaultPolicy()
	assert.Equal(t, defaults.OrganizerFloorBps, p.OrganizerFloorBps, "unset keys keep defaults")
	assert.Equal(t, defaults.PlacementPoints, p.PlacementPoints)
}

func TestLoadPolicyRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solo_tax_tiers:\n  - min_amount: 0\n    rate_bps: 12000\n"), 0o600))

	_, err := LoadPolicy(path)
	assert.ErrorIs(t, err, settlement.ErrInvalidPolicy)

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParsePolicyRejectsUnknownKeys(t *testing.T) {
	for _, doc := range []string{
		"loser_share: 9000\n",
		"negative_amount: clamp\n",
		"solo_tax_tiers:\n  - min_amount: 0\n    rate: 1000\n",
	} {
		p := settlement.DefaultPolicy()
		err := ParsePolicy([]byte(doc), &p)
		assert.Error(t, err, doc)
	}

	p := settlement.DefaultPolicy()
	require.NoError(t, ParsePolicy(nil, &p), "an empty document keeps the defaults")
	assert.Equal(t, settlement.DefaultPolicy(), p)

	require.NoError(t, ParsePolicy([]byte("loser_share_bps: 9000\n"), &p))
	assert.Equal(t, int64(9000), p.LoserShareBps)
}

func TestParsePlacements(t *testing.T) {
	got, err := ParsePlacements("340, 140")
	require.NoError(t, err)
	assert.Equal(t, []settlement.Placement{{Position: 1, Amount: 340}, {Position: 2, Amount: 140}}, got)

	_, err = ParsePlacements("340,abc")
	assert.Error(t, err)

	_, err = ParsePlacements("-5")
	assert.ErrorIs(t, err, settlement.ErrInvalidPlacements)
}

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/settlement")
	t.Setenv("GAME_SERVICE_TOKEN", "secret")
	t.Setenv("REDISTRIBUTION_INTERVAL", "1m")
	t.Setenv("DEFAULT_PLACEMENTS", "600,300,100")
	t.Setenv("TAX_POLICY_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.RedistributionInterval)
	assert.Equal(t, "5200", cfg.Port)
	assert.Len(t, cfg.Policy.DefaultPlacements, 3)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GAME_SERVICE_TOKEN", "secret")
	_, err := Load()
	assert.Error(t, err)
}
