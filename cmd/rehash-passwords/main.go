// Command rehash-passwords converts plaintext credentials left by the legacy
// storefront into Argon2id hashes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopverse/shopverse/internal/auth"
	"github.com/shopverse/shopverse/internal/repository"
)

// credentialStore is the slice of the repository the tool needs.
type credentialStore interface {
	ListUserCredentials(ctx context.Context, afterID int64, limit int) ([]repository.UserCredential, error)
	UpdatePassword(ctx context.Context, id int64, encoded string) error
}

type stats struct {
	Scanned   int
	Rehashed  int
	Unchanged int
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		batchSize   = flag.Int("batch-size", 500, "Users fetched per query")
		dryRun      = flag.Bool("dry-run", false, "Report what would change without writing")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *batchSize <= 0 {
		fmt.Fprintln(os.Stderr, "batch-size must be positive")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	hasher := auth.Hasher{Params: auth.DefaultParams}
	st, err := rehashAll(ctx, repo, hasher, *batchSize, *dryRun, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rehash:", err)
		repo.Close()
		os.Exit(1)
	}

	verb := "rehashed"
	if *dryRun {
		verb = "would rehash"
	}
	fmt.Printf("scanned %d users, %s %d, %d already hashed\n", st.Scanned, verb, st.Rehashed, st.Unchanged)
}

// rehashAll walks every user in ID order and replaces each plaintext
// credential with a hash of the same value.
func rehashAll(ctx context.Context, store credentialStore, hasher auth.Hasher, batchSize int, dryRun bool, out io.Writer) (stats, error) {
	var st stats
	var afterID int64

	for {
		batch, err := store.ListUserCredentials(ctx, afterID, batchSize)
		if err != nil {
			return st, err
		}
		if len(batch) == 0 {
			return st, nil
		}

		for _, cred := range batch {
			st.Scanned++
			afterID = cred.ID

			if auth.IsHashed(cred.Password) {
				st.Unchanged++
				continue
			}

			if !dryRun {
				encoded, err := hasher.Hash(cred.Password)
				if err != nil {
					return st, fmt.Errorf("hash user %d: %w", cred.ID, err)
				}
				if err := store.UpdatePassword(ctx, cred.ID, encoded); err != nil {
					return st, fmt.Errorf("update user %d: %w", cred.ID, err)
				}
			}
			st.Rehashed++
			if dryRun {
				fmt.Fprintf(out, "user %d: plaintext credential found\n", cred.ID)
			} else {
				fmt.Fprintf(out, "user %d: plaintext credential rehashed\n", cred.ID)
			}
		}

		if len(batch) < batchSize {
			return st, nil
		}
	}
}
