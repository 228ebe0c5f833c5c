package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"kmfi/internal/scoring"
)

var errAllFailed = errors.New("no company could be scored")

func newScoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "score FILE",
		Short: "Score and rank every company in FILE",
		Args:  cobra.ExactArgs(1),
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
			failed = append(failed, res.Errors...)
			reportErrors(cmd.ErrOrStderr(), failed)

			ranked := scoring.Rank(res.Scores)
			if opts.format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(ranked); err != nil {
					return err
				}
			} else {
				renderRanking(cmd.OutOrStdout(), scoring.Regime(opts.regime), ranked)
			}
			if len(res.Scores) == 0 && len(failed) > 0 {
				return errAllFailed
			}
			return nil
		},
	}
}
