package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/usergraph/backend/internal/models"
	"github.com/usergraph/backend/internal/repositories"
)

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

func runSeed(ctx context.Context, name string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	path := seedPath(cfg.SeedDir, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed %s: %w", path, err)
	}
	defer f.Close()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	created, err := seedUsers(ctx, store, f, logger)
	if err != nil {
		return err
	}

	logger.Info("applied seed", "seed", path, "created", created)
	return nil
}

// seedPath resolves a bare seed name like "dev" to <dir>/dev_seed.yaml.
func seedPath(dir, name string) string {
	if filepath.Ext(name) == "" {
		name = name + "_seed.yaml"
	}
	if filepath.IsAbs(name) || filepath.Dir(name) != "." {
		return name
	}
	return filepath.Join(dir, name)
}

// seedUsers creates every user listed in the YAML document through the record
// store, so the usual validation applies. Refused entries are logged and the
// function fails after attempting all of them.
func seedUsers(ctx context.Context, users repositories.UserRepository, r io.Reader, logger *slog.Logger) (int, error) {
	var doc seedFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decode seed: %w", err)
	}

	created, refused := 0, 0
	for i, entry := range doc.Users {
		user, err := users.Create(ctx, models.User{Name: entry.Name, Email: entry.Email})
		if err != nil {
			if verr, ok := repositories.AsValidationError(err); ok {
				refused++
				logger.Warn("seed user refused", "index", i, "email", entry.Email, "errors", verr.Messages)
				continue
			}
			return created, fmt.Errorf("create seed user %d: %w", i, err)
		}
		created++
		logger.Debug("seed user created", "userId", user.ID)
	}

	if refused > 0 {
		return created, fmt.Errorf("%d of %d seed users refused", refused, len(doc.Users))
	}
	return created, nil
}
