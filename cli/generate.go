package cli

import (
	"fmt"

	"github.com/katalvlaran/eigentrust/datasource"
	"github.com/spf13/cobra"
)

// DefaultPeers is the peer count used by generate when neither the flag nor
// the config sets one.
const DefaultPeers = 10

type generateOptions struct {
	peers int
	seed  int64
	sat   string
	unsat string
}

func newGenerateCmd(ro *rootOptions) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write random satisfaction and dissatisfaction counts",
		Long: `Generate two random M×M count matrices (uniform bytes, zero diagonal) and
write them as CSV. With --seed the output is reproducible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, ro, o)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&o.peers, "peers", "m", DefaultPeers, "number of peers M")
	f.Int64Var(&o.seed, "seed", 0, "random seed (0 seeds from the clock)")
	f.StringVar(&o.sat, "sat", "", "satisfaction CSV path (default from config)")
	f.StringVar(&o.unsat, "unsat", "", "dissatisfaction CSV path (default from config)")

	return cmd
}

func runGenerate(cmd *cobra.Command, ro *rootOptions, o *generateOptions) error {
	in := ro.cfg.Input
	flags := cmd.Flags()
	if flags.Changed("sat") {
		in.SatPath = o.sat
	}
	if flags.Changed("unsat") {
		in.UnsatPath = o.unsat
	}
	peers := o.peers
	if !flags.Changed("peers") && in.Peers > 0 {
		peers = in.Peers
	}
	seed := o.seed
	if !flags.Changed("seed") {
		seed = in.Seed
	}

	var gen *datasource.Generator
	if seed != 0 {
		gen = datasource.NewGenerator(datasource.WithSeed(seed))
	} else {
		gen = datasource.NewGenerator()
	}

	log := ro.logger.With().Str("command", "generate").Logger()
	for _, path := range []string{in.SatPath, in.UnsatPath} {
		m, err := gen.Generate(peers)
		if err != nil {
			return err
		}
		if err = datasource.WriteCSVFile(path, m); err != nil {
			return err
		}
		log.Info().Str("path", path).Int("peers", peers).Msg("count matrix written")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s (%d peers)\n", in.SatPath, in.UnsatPath, peers)

	return nil
}
