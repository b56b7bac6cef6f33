package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kislikjeka/warungku/internal/infra/postgres"
	"github.com/kislikjeka/warungku/internal/platform/category"
	"github.com/kislikjeka/warungku/internal/platform/user"
	"github.com/kislikjeka/warungku/internal/platform/wallet"
	"github.com/kislikjeka/warungku/pkg/config"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load wallets, categories and users from a YAML file",
	Long: `Load master data from a YAML seed file. Entries that already exist are
skipped, so the command can be re-run safely.

Example:
  warungctl seed --file seed.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := config.LoadSeedConfig(seedFile)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL, Timezone: cfg.Timezone}, log)
		if err != nil {
			return err
		}
		defer db.Close()

		s := seeder{
			wallets:    wallet.NewService(postgres.NewWalletRepository(db.Pool)),
			categories: category.NewService(postgres.NewCategoryRepository(db.Pool), log),
			users:      user.NewService(postgres.NewUserRepository(db.Pool), log),
		}

		res, err := s.apply(ctx, seed)
		if err != nil {
			return err
		}

		log.Info("seed complete",
			"wallets_created", res.Wallets.Created, "wallets_skipped", res.Wallets.Skipped,
			"categories_created", res.Categories.Created, "categories_skipped", res.Categories.Skipped,
			"users_created", res.Users.Created, "users_skipped", res.Users.Skipped,
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "path to the seed file")
}

type walletCreator interface {
	Create(ctx context.Context, w *wallet.Wallet) (*wallet.Wallet, error)
}

type categoryCreator interface {
	Create(ctx context.Context, t category.Type, name string) (*category.Category, error)
}

type userRegistrar interface {
	Register(ctx context.Context, username, password string, role user.Role) (*user.User, error)
}

type seeder struct {
	wallets    walletCreator
	categories categoryCreator
	users      userRegistrar
}

type seedCount struct {
	Created int
	Skipped int
}

type seedResult struct {
	Wallets    seedCount
	Categories seedCount
	Users      seedCount
}

// apply creates every entry of the seed, counting the ones that already exist as skipped
func (s seeder) apply(ctx context.Context, seed *config.SeedConfig) (seedResult, error) {
	var res seedResult

	for _, sw := range seed.Wallets {
		kind, err := wallet.ParseKind(sw.Kind)
		if err != nil {
			return res, fmt.Errorf("wallet %q: %w", sw.Name, err)
		}
		_, err = s.wallets.Create(ctx, &wallet.Wallet{Name: sw.Name, Kind: kind})
		if err := tally(&res.Wallets, err, wallet.ErrDuplicateWalletName); err != nil {
			return res, fmt.Errorf("wallet %q: %w", sw.Name, err)
		}
	}

	for _, sc := range seed.Categories {
		t, err := category.ParseType(sc.Type)
		if err != nil {
			return res, fmt.Errorf("category %q: %w", sc.Name, err)
		}
		_, err = s.categories.Create(ctx, t, sc.Name)
		if err := tally(&res.Categories, err, category.ErrDuplicateCategory); err != nil {
			return res, fmt.Errorf("category %q: %w", sc.Name, err)
		}
	}

	for _, su := range seed.Users {
		role, err := user.ParseRole(su.Role)
		if err != nil {
			return res, fmt.Errorf("user %q: %w", su.Username, err)
		}
		_, err = s.users.Register(ctx, su.Username, su.Password, role)
		if err := tally(&res.Users, err, user.ErrUserAlreadyExists); err != nil {
			return res, fmt.Errorf("user %q: %w", su.Username, err)
		}
	}

	return res, nil
}

func tally(c *seedCount, err, duplicate error) error {
	switch {
	case err == nil:
		c.Created++
	case errors.Is(err, duplicate):
		c.Skipped++
	default:
		return err
	}
	return nil
}
