package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tgienger/crm/internal/store"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo customers and tasks into an empty workspace",
		Long: `Load demo data. Customers are added only when there are none, and
tasks only when there are none. --file loads a YAML document with the same
layout as the built-in demo data instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := loadSeed(file)
			if err != nil {
				return usageError(err)
			}

			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			f := newFormatter(rootOpts, cmd)
			f.VerboseLog("seed document has %d customers and %d tasks", len(seed.Customers), len(seed.Tasks))

			res, err := e.store.Seed(seed)
			if err != nil {
				return WrapExitError(ExitFailure, "seed", err)
			}
			return f.Success(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Seeded %d customers and %d tasks\n", res.Customers, res.Tasks)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed document (default: built-in demo data)")
	return cmd
}

func loadSeed(file string) (store.SeedData, error) {
	if file == "" {
		return store.DemoSeed()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return store.SeedData{}, err
	}
	return store.ParseSeed(data)
}
