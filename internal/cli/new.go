package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/game"
	"github.com/matzehuels/untangle/pkg/saves"
	"github.com/matzehuels/untangle/pkg/store"
)

// newCommand creates the "new" command, which generates a level and saves it.
func (c *CLI) newCommand() *cobra.Command {
	var (
		level   int
		seed    uint64
		density float64
		name    string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new level and save it",
		Long: `Generate a new tangled level and save it.

The level is written to --output when given, otherwise it is added to the
configured save store.`,
		Example: `  untangle new --level 3
  untangle new --seed 42 -o puzzle.usg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := c.settings()

			if !cmd.Flags().Changed("level") {
				level = cfg.Game.StartLevel
			}
			if err := errs.ValidateLevelNumber(level); err != nil {
				return err
			}
			opts := c.gameOptions()
			if cmd.Flags().Changed("seed") {
				opts = append(opts, game.WithSeed(seed))
			}
			if cmd.Flags().Changed("density") {
				opts = append(opts, game.WithDensity(density))
			}

			prog := newProgress(logger)
			sess, err := game.New(level, opts...)
			if err != nil {
				return err
			}
			defer sess.Close()
			prog.done(fmt.Sprintf("Generated level %d", level))

			sg := saves.Capture(sess)
			lvl := sess.Level()

			if output != "" {
				if err := saves.SaveFile(output, sg); err != nil {
					return err
				}
				printSuccess("Saved level %d", level)
				printStats(lvl.VertexCount(), lvl.SegmentCount(), lvl.IntersectionCount())
				printFile(output)
				printNextStep("Inspect it", "untangle inspect "+output)
				return nil
			}

			data, err := saves.Encode(sg)
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			entry, err := st.Put(ctx, store.Entry{Name: name, LevelNumber: level}, data)
			if err != nil {
				return err
			}
			printSuccess("Saved level %d as %s", level, StyleValue.Render(entry.Name))
			printStats(lvl.VertexCount(), lvl.SegmentCount(), lvl.IntersectionCount())
			printDetail("ID: %s", entry.ID)
			printNextStep("Inspect it", "untangle inspect "+entry.ID)
			return nil
		},
	}

	cmd.Flags().IntVarP(&level, "level", "l", 0, "level number (default from config)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for a reproducible level")
	cmd.Flags().Float64Var(&density, "density", 0, "probability of extra edges beyond the spanning tree, 0 to 1")
	cmd.Flags().StringVarP(&name, "name", "n", "", "save name (default \"Level <n>\")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the save to this file instead of the store")

	return cmd
}
