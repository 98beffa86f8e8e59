// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_Default(t *testing.T) {
	quests, err := loadCatalog("")
	require.NoError(t, err)
	require.Len(t, quests, 4)

	// Fixed IDs keep re-runs idempotent; they must stay distinct.
	seen := make(map[string]bool)
	for _, q := range quests {
		assert.False(t, seen[q.ID.String()], "duplicate quest id %s", q.ID)
		seen[q.ID.String()] = true
		assert.NotEmpty(t, q.Title)
		assert.Positive(t, q.RewardXP)
	}

	assert.Equal(t, 100, quests[0].RewardXP)
	assert.Equal(t, 200, quests[1].RewardXP)
	assert.Equal(t, 300, quests[2].RewardXP)
	assert.Equal(t, 400, quests[3].RewardXP)
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quests.yaml")
	content := `
quests:
  - id: 01J3S5EEDQST00000000000099
    title: Slay the Dragon
    description: The dragon sleeps atop its hoard.
    reward_xp: 500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	quests, err := loadCatalog(path)
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, "Slay the Dragon", quests[0].Title)
	assert.Equal(t, 500, quests[0].RewardXP)
}

func TestLoadCatalog_Errors(t *testing.T) {
	writeCatalog := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "quests.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := loadCatalog("/nonexistent/quests.yaml")
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := loadCatalog(writeCatalog(t, "quests: [not a map"))
		assert.Error(t, err)
	})

	t.Run("empty catalog", func(t *testing.T) {
		_, err := loadCatalog(writeCatalog(t, "quests: []"))
		assert.Error(t, err)
	})

	t.Run("invalid quest id", func(t *testing.T) {
		_, err := loadCatalog(writeCatalog(t, `
quests:
  - id: not-a-ulid
    title: Broken
    reward_xp: 100
`))
		assert.Error(t, err)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := loadCatalog(writeCatalog(t, `
quests:
  - id: 01J3S5EEDQST00000000000099
    reward_xp: 100
`))
		assert.Error(t, err)
	})

	t.Run("non-positive reward", func(t *testing.T) {
		_, err := loadCatalog(writeCatalog(t, `
quests:
  - id: 01J3S5EEDQST00000000000099
    title: Broken
    reward_xp: 0
`))
		assert.Error(t, err)
	})
}
