// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package main

import (
	"context"
	_ "embed"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shadowrealm/shadowrealm/internal/config"
	"github.com/shadowrealm/shadowrealm/internal/quest"
	questpg "github.com/shadowrealm/shadowrealm/internal/quest/postgres"
	"github.com/shadowrealm/shadowrealm/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

//go:embed seed_quests.yaml
var defaultCatalogYAML []byte

// seedCatalog is the YAML shape of a quest catalog file.
type seedCatalog struct {
	Quests []seedQuest `yaml:"quests"`
}

// seedQuest is one catalog entry. IDs are fixed so re-running the seed
// hits the primary key instead of inserting duplicates.
type seedQuest struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	RewardXP    int    `yaml:"reward_xp"`
}

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	file    string
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the quest catalog",
		Long: `Loads the quest catalog into the database. This command is
idempotent - quests that already exist are skipped, not duplicated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "", "quest catalog YAML file (default: built-in catalog)")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	appCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if appCfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (flag, config file, or DATABASE_URL)")
	}

	catalog, err := loadCatalog(cfg.file)
	if err != nil {
		return err
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, appCfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	questRepo := questpg.NewQuestRepository(pool)

	var created, skipped int
	for _, entry := range catalog {
		if err := questRepo.Create(ctx, entry); err != nil {
			if isDuplicate(err) {
				skipped++
				continue
			}
			return oops.Code("SEED_FAILED").
				With("quest_title", entry.Title).
				Wrap(err)
		}
		created++
	}

	cmd.Printf("Seed complete: %d created, %d already present\n", created, skipped)
	return nil
}

// loadCatalog parses and validates the catalog, from path if given or
// the built-in default otherwise.
func loadCatalog(path string) ([]*quest.Quest, error) {
	data := defaultCatalogYAML
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, oops.Code("SEED_FAILED").
				With("operation", "read catalog file").
				With("path", path).
				Wrap(err)
		}
		data = fileData
	}

	var catalog seedCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, oops.Code("SEED_FAILED").
			With("operation", "parse catalog").
			Wrap(err)
	}
	if len(catalog.Quests) == 0 {
		return nil, oops.Code("SEED_FAILED").Errorf("catalog contains no quests")
	}

	quests := make([]*quest.Quest, 0, len(catalog.Quests))
	for _, entry := range catalog.Quests {
		id, err := ulid.Parse(entry.ID)
		if err != nil {
			return nil, oops.Code("SEED_FAILED").
				With("operation", "parse quest id").
				With("id", entry.ID).
				Wrap(err)
		}
		if entry.Title == "" {
			return nil, oops.Code("SEED_FAILED").Errorf("quest %s has no title", entry.ID)
		}
		if entry.RewardXP <= 0 {
			return nil, oops.Code("SEED_FAILED").
				With("id", entry.ID).
				Errorf("quest reward XP must be positive, got %d", entry.RewardXP)
		}
		quests = append(quests, &quest.Quest{
			ID:          id,
			Title:       entry.Title,
			Description: entry.Description,
			RewardXP:    entry.RewardXP,
		})
	}
	return quests, nil
}

// isDuplicate reports whether the error is the repo's duplicate-quest code.
func isDuplicate(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	return ok && oopsErr.Code() == "QUEST_DUPLICATE"
}
