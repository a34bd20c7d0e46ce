package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/2beens/elitefitness/internal/backend"
	"github.com/2beens/elitefitness/internal/config"
	"github.com/2beens/elitefitness/internal/export"
	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/logging"
	"github.com/2beens/elitefitness/pkg"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Writes the xlsx exports of the stored users, all of them unless one is picked
// by -email or -user.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	outDir := flag.String("out", "./exports", "directory the xlsx files are written to")
	email := flag.String("email", "", "export only the user with this email")
	userID := flag.Int64("user", 0, "export only the user with this id")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	if cfg.Storage == config.StorageMemory {
		log.Fatalln("memory storage has nothing to export, use redis or postgres")
	}

	ctx := context.Background()
	be, err := backend.Open(ctx, backend.OpenParams{Config: cfg, Secrets: secrets})
	if err != nil {
		log.Fatalf("open backend: %s", err)
	}

	// read only: the roster is loaded once and never written back
	users, err := fitness.NewRoster(be.Store, fitness.NewIDGenerator(nil), nil).Load(ctx)
	if err != nil {
		closeBackend(be)
		log.Fatalf("load roster: %s", err)
	}

	written, err := exportUsers(selectUsers(users, *email, *userID), *outDir, time.Now())
	for _, path := range written {
		log.Infof("exported: %s", path)
	}
	if err != nil {
		closeBackend(be)
		log.Fatalf("export: %s", err)
	}
	log.Infof("done, %d of %d users exported", len(written), len(users))
	closeBackend(be)
}

// log.Fatalf skips deferred calls, so the backend is closed explicitly.
func closeBackend(be *backend.Backend) {
	if err := be.Close(); err != nil {
		log.Errorf("close backend: %s", err)
	}
}

func selectUsers(users []fitness.User, email string, userID int64) []fitness.User {
	if email == "" && userID == 0 {
		return users
	}

	var selected []fitness.User
	for _, u := range users {
		if userID != 0 && u.ID != userID {
			continue
		}
		if email != "" && fitness.NormalizeEmail(u.Email) != fitness.NormalizeEmail(email) {
			continue
		}
		selected = append(selected, u)
	}
	return selected
}

// exportUsers keeps going after a failed user and returns all the errors combined.
func exportUsers(users []fitness.User, outDir string, now time.Time) ([]string, error) {
	if err := pkg.EnsureDir(outDir); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}

	var written []string
	var errs error
	for _, u := range users {
		path := filepath.Join(outDir, export.FileName(u, now))
		if err := saveWorkbook(u, path, now); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("user %d: %w", u.ID, err))
			continue
		}
		written = append(written, path)
	}
	return written, errs
}

func saveWorkbook(user fitness.User, path string, now time.Time) (err error) {
	f, err := export.Workbook(user, now)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return f.SaveAs(path)
}
