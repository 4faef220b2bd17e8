// Package commands implements the quote command line tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/hwalton/wildtubs-configurator/internal/config"
)

type rootOptions struct {
	envFile string
	cfg     *config.Config
	client  *http.Client
}

// NewRootCmd builds the quote command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "quote",
		Short:         "Price Wildtubs configurations from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			opts.cfg = cfg
			opts.client = &http.Client{Timeout: cfg.HTTPTimeout}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().StringVar(&opts.envFile, "env", ".env", "env file to load before reading the environment")

	root.AddCommand(
		newSectionsCmd(opts),
		newPriceCmd(opts),
		newMigrateCmd(opts),
		newImportCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

func (o *rootOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, 2*o.cfg.HTTPTimeout+time.Minute)
}

func (o *rootOptions) kindOrDefault(kind string) string {
	if kind == "" {
		return o.cfg.DefaultKind
	}
	return kind
}
