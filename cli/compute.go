package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/katalvlaran/eigentrust/config"
	"github.com/katalvlaran/eigentrust/datasource"
	"github.com/katalvlaran/eigentrust/localtrust"
	"github.com/katalvlaran/eigentrust/metrics"
	"github.com/katalvlaran/eigentrust/propagate"
	"github.com/spf13/cobra"
)

type computeOptions struct {
	sat           string
	unsat         string
	variant       string
	epsilon       float64
	maxIterations int
	damping       float64
	preTrusted    []int
	fallback      string
	startPeer     int
	depth         int
	all           bool
	json          bool
	trace         bool
	metricsFile   string
}

// computeOutput is the --json document.
type computeOutput struct {
	RunID         string              `json:"run_id"`
	Peers         int                 `json:"peers"`
	FallbackPeers []int               `json:"fallback_peers,omitempty"`
	Result        *propagate.Result   `json:"result,omitempty"`
	Results       []*propagate.Result `json:"results,omitempty"`
}

func newComputeCmd(ro *rootOptions) *cobra.Command {
	o := &computeOptions{}
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute global trust from two count matrices",
		Long: `Read the satisfaction and dissatisfaction CSV matrices, build the normalized
local trust matrix C and run the selected propagation variant:

  plain        t(i+1) = Cᵗ·t(i) from one peer's row of C
  damped       t(i+1) = (1−a)·Cᵗ·t(i) + a·P from t(0) = P
  fixed-depth  (Cᵗ)^k applied once, no convergence test

Flags override the values from --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompute(cmd, ro, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.sat, "sat", "", "satisfaction CSV path")
	f.StringVar(&o.unsat, "unsat", "", "dissatisfaction CSV path")
	f.StringVar(&o.variant, "variant", "plain", "propagation variant: plain, damped or fixed-depth")
	f.Float64Var(&o.epsilon, "epsilon", propagate.DefaultEpsilon, "convergence threshold ε")
	f.IntVar(&o.maxIterations, "max-iterations", propagate.DefaultMaxIterations, "iteration cap for plain and damped")
	f.Float64Var(&o.damping, "damping", 0.15, "damping factor a in (0,1)")
	f.IntSliceVar(&o.preTrusted, "pretrusted", nil, "pre-trusted peers sharing P equally (default: all peers)")
	f.StringVar(&o.fallback, "fallback", config.FallbackUniform, "row policy for peers with no positive trust: uniform or pretrust")
	f.IntVar(&o.startPeer, "start-peer", 0, "peer whose local view seeds plain and fixed-depth runs")
	f.IntVar(&o.depth, "depth", propagate.DefaultDepth, "matrix power k for fixed-depth")
	f.BoolVar(&o.all, "all", false, "compute every peer's view concurrently")
	f.BoolVar(&o.json, "json", false, "print the result as JSON")
	f.BoolVar(&o.trace, "trace", false, "include per-iteration deltas in the JSON output")
	f.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics of this run to a textfile-collector file")

	return cmd
}

// apply copies every explicitly set flag into cfg.
func (o *computeOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("sat") {
		cfg.Input.SatPath = o.sat
	}
	if f.Changed("unsat") {
		cfg.Input.UnsatPath = o.unsat
	}
	p := &cfg.Propagation
	if f.Changed("variant") {
		p.Variant = o.variant
	}
	if f.Changed("epsilon") {
		p.Epsilon = o.epsilon
	}
	if f.Changed("max-iterations") {
		p.MaxIterations = o.maxIterations
	}
	if f.Changed("damping") {
		p.Damping = o.damping
	}
	if f.Changed("pretrusted") {
		p.PreTrustedPeers = o.preTrusted
		p.PreTrust = nil
	}
	if f.Changed("fallback") {
		p.Fallback = o.fallback
	}
	if f.Changed("start-peer") {
		p.StartPeer = o.startPeer
	}
	if f.Changed("depth") {
		p.Depth = o.depth
	}
	if f.Changed("metrics-file") {
		cfg.Metrics.Textfile = o.metricsFile
	}
}

func runCompute(cmd *cobra.Command, ro *rootOptions, o *computeOptions) (err error) {
	cfg := *ro.cfg
	o.apply(cmd, &cfg)
	if err = cfg.Validate(); err != nil {
		return err
	}
	variant, err := cfg.Variant()
	if err != nil {
		return err
	}
	log := ro.logger.With().Str("command", "compute").Logger()

	rec := metrics.NewRecorder()
	if path := cfg.Metrics.Textfile; path != "" {
		defer func() {
			if werr := rec.WriteTextfile(path); werr != nil {
				log.Error().Err(werr).Msg("metrics not written")
				if err == nil {
					err = werr
				}
			}
		}()
	}

	sat, err := datasource.ReadCSVFile(cfg.Input.SatPath)
	if err != nil {
		return err
	}
	unsat, err := datasource.ReadCSVFile(cfg.Input.UnsatPath)
	if err != nil {
		return err
	}
	m, err := sat.Dim()
	if err != nil {
		return err
	}

	ltOpts, err := cfg.LocalTrustOptions(m)
	if err != nil {
		return err
	}
	rep, err := localtrust.BuildReport(sat, unsat, ltOpts...)
	if err != nil {
		return err
	}
	rec.ObserveLocalTrust(m, rep.FallbackPeers)
	if len(rep.FallbackPeers) > 0 {
		log.Info().Ints("peers", rep.FallbackPeers).Str("policy", cfg.Propagation.Fallback).
			Msg("fallback rows applied")
	}

	pOpts, err := cfg.PropagateOptions(m, log)
	if err != nil {
		return err
	}
	pOpts = append(pOpts, propagate.WithTrace(o.trace))

	out := computeOutput{RunID: ro.runID, Peers: m, FallbackPeers: rep.FallbackPeers}
	start := time.Now()
	if o.all {
		out.Results, err = propagate.ComputeAll(cmd.Context(), rep.Matrix, pOpts...)
	} else {
		out.Result, err = propagate.Compute(cmd.Context(), rep.Matrix, pOpts...)
	}
	elapsed := time.Since(start)
	if err != nil {
		rec.ObserveFailure(variant, err, elapsed)
		log.Error().Err(err).Str("status", metrics.Status(err)).Dur("elapsed", elapsed).
			Msg("computation failed")
		return err
	}
	if out.Result != nil {
		rec.ObserveResult(out.Result, elapsed)
	}
	for _, r := range out.Results {
		rec.ObserveResult(r, elapsed)
	}
	log.Info().Stringer("variant", variant).Int("peers", m).
		Dur("elapsed", elapsed).Msg("computation finished")

	w := cmd.OutOrStdout()
	if o.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if o.all {
		for i, r := range out.Results {
			fmt.Fprintf(w, "peer %d view:\n", i)
			printResult(w, r)
		}
		return nil
	}
	printResult(w, out.Result)

	return nil
}

// printResult writes one line per peer, then the iteration count.
func printResult(w io.Writer, r *propagate.Result) {
	for i, v := range r.Trust {
		fmt.Fprintf(w, "t[%d] = %.6f\n", i, v)
	}
	fmt.Fprintf(w, "after %d iterations\n", r.Iterations)
}
