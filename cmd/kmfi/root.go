package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"kmfi/internal/domain"
	"kmfi/internal/ingest"
	"kmfi/internal/scoring"
)

type options struct {
	regime      string
	totaling    string
	format      string
	concurrency int
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "kmfi",
		Short: "Aggregate KMFI assessment scores",
		Long: `kmfi reads company records in the backend's JSON shape (a single object or
an array) and computes category totals, self scores, product testing scores
and weighted composites. Pass "-" to read from stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.regime, "regime", string(scoring.RegimeDashboard), "Weighting regime (dashboard|index)")
	root.PersistentFlags().StringVar(&opts.totaling, "totaling", string(scoring.PointsTotal), "Category totaling (points|average)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "table", "Output format (table|json)")
	root.PersistentFlags().IntVar(&opts.concurrency, "concurrency", 4, "Companies scored in parallel")

	root.AddCommand(newScoreCmd(opts), newIndustryCmd(opts))
	return root
}

// params resolves the shared flags.
func (o *options) params() (scoring.Weights, scoring.Totaling, error) {
	w, err := scoring.WeightsFor(scoring.Regime(o.regime))
	if err != nil {
		return scoring.Weights{}, "", err
	}
	method, err := scoring.ParseTotaling(o.totaling)
	if err != nil {
		return scoring.Weights{}, "", err
	}
	switch o.format {
	case "table", "json":
	default:
		return scoring.Weights{}, "", fmt.Errorf("unknown format %q (table|json)", o.format)
	}
	return w, method, nil
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}

// loadCompanies decodes and normalizes a records file. Records that fail
// decoding or normalization are returned as per-company errors.
func loadCompanies(cmd *cobra.Command, path string) ([]domain.Company, []scoring.EntityError, error) {
	f, err := openInput(cmd, path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	recs, failed, err := ingest.DecodeCompanies(f)
	if err != nil {
		return nil, nil, err
	}
	companies, invalid := ingest.NormalizeAll(recs)
	return companies, append(failed, invalid...), nil
}

func reportErrors(w io.Writer, failed []scoring.EntityError) {
	for _, f := range failed {
		fmt.Fprintf(w, "skipped %s: %v\n", f.CompanyID, f.Err)
	}
}
