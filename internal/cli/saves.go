package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/untangle/pkg/config"
)

// savesCommand creates the saves management command.
func (c *CLI) savesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saves",
		Short: "Manage stored saves",
	}

	cmd.AddCommand(c.savesListCommand())
	cmd.AddCommand(c.savesDeleteCommand())
	cmd.AddCommand(c.savesPathCommand())

	return cmd
}

func (c *CLI) savesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored saves, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No saves")
				printNextStep("Create one", "untangle new")
				return nil
			}
			for _, e := range entries {
				printEntry(e)
			}
			return nil
		},
	}
}

func (c *CLI) savesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <save-id>...",
		Short: "Delete stored saves",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, id := range args {
				if err := st.Delete(ctx, id); err != nil {
					return err
				}
				printSuccess("Deleted %s", id)
			}
			return nil
		},
	}
}

func (c *CLI) savesPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where saves are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), storeLocation(c.settings().Store))
			return nil
		},
	}
}

// storeLocation describes where a backend keeps its data.
func storeLocation(cfg config.StoreConfig) string {
	switch cfg.Backend {
	case config.BackendFile:
		return cfg.Dir
	case config.BackendSQLite:
		return cfg.SQLitePath
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d (prefix %q)", cfg.RedisAddr, cfg.RedisDB, cfg.RedisPrefix)
	case config.BackendMongo:
		return fmt.Sprintf("%s (%s.%s)", cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	}
	return cfg.Backend
}
