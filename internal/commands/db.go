package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hwalton/wildtubs-configurator/internal/store"
	"github.com/hwalton/wildtubs-configurator/pkg/auth"
	"github.com/hwalton/wildtubs-configurator/pkg/catalog"
)

func newMigrateCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the catalog tables in DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := o.context(cmd)
			defer cancel()
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] applying schema...\n", time.Now().Format(time.RFC3339))
			if err := store.EnsureSchema(ctx, o.cfg.DatabaseURL); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] schema applied.\n", time.Now().Format(time.RFC3339))
			return nil
		},
	}
}

func newImportCmd(o *rootOptions) *cobra.Command {
	var kinds []string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the JSON catalogs into DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := o.context(cmd)
			defer cancel()
			if len(kinds) == 0 {
				kinds = o.cfg.Kinds
			}
			if err := store.EnsureSchema(ctx, o.cfg.DatabaseURL); err != nil {
				return err
			}
			for _, k := range kinds {
				loc, ok := o.cfg.AssemblyURLs[k]
				if !ok {
					return fmt.Errorf("unknown kind %q", k)
				}
				mats, asms, err := catalog.Load(ctx, o.client, o.cfg.MaterialsURL, loc)
				if err != nil {
					return err
				}
				if err := store.ImportCatalog(ctx, o.cfg.DatabaseURL, k, mats, asms); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d materials, %d assemblies\n", k, len(mats.Materials), len(asms.Assemblies))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "kinds to import (default all)")
	return cmd
}

func newTokenCmd(o *rootOptions) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with AUTH_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := auth.IssueToken(o.cfg.AuthSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "sales", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
