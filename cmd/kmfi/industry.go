package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"kmfi/internal/scoring"
)

func newIndustryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "industry FILE",
		Short: "Industry averages across every company in FILE",
		Long: `Averages self, product testing, IEG and composite scores field by field.
Companies missing a field are left out of that field's mean. When the file
mixes TIER_1 and TIER_3 companies, TIER_1 self scores are discounted first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, method, err := opts.params()
			if err != nil {
				return err
			}
			companies, failed, err := loadCompanies(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := scoring.ScoreBatch(cmd.Context(), companies, w, method, opts.concurrency)
			if err != nil {
				return err
			}
			reportErrors(cmd.ErrOrStderr(), append(failed, res.Errors...))

			avg, err := scoring.BlendedIndustryAverage(res.Scores, w)
			if err != nil {
				return err
			}
			if opts.format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(avg)
			}
			renderAverages(cmd.OutOrStdout(), scoring.Regime(opts.regime), avg)
			return nil
		},
	}
}
