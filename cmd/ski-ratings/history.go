package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/ski-ratings/internal/export"
)

var (
	historyDiscipline string
	historyCompetitor string
)

func init() {
	historyCmd.Flags().StringVarP(&historyDiscipline, "discipline", "d", "", "Discipline to show")
	historyCmd.Flags().StringVar(&historyCompetitor, "competitor", "", "Only show this competitor id")
	historyCmd.MarkFlagRequired("discipline")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the stored rating history of a discipline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, ok := cfg.Discipline(historyDiscipline)
		if !ok {
			return fmt.Errorf("unknown discipline: %s", historyDiscipline)
		}

		a, err := newApp(ctx, cfg, appLog)
		if err != nil {
			return err
		}
		defer a.close()

		store, err := export.NewFactory(a.repos, a.sqlite, cfg.SQLite.Path).Store(d)
		if err != nil {
			return err
		}
		run, snapshots, err := export.ReadHistory(ctx, store, d.Name, historyCompetitor)
		if err != nil {
			return err
		}

		fmt.Printf("run %s finished %s: %d seasons, %d events, %d competitors\n",
			run.ID, run.FinishedAt.UTC().Format(time.RFC3339), run.Seasons, run.Events, run.Competitors)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "COMPETITOR\tSEASON\tORDINAL\tPLACE\tPRE\tPOST\tPREDICTED PRE\tPREDICTED POST")
		for _, s := range snapshots {
			pre, post := "", ""
			if s.PreRating != nil {
				pre = fmt.Sprintf("%.2f", *s.PreRating)
			}
			if s.PostRating != nil {
				post = fmt.Sprintf("%.2f", *s.PostRating)
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%.2f\t%.2f\n",
				s.Competitor.ID, s.Season, s.Ordinal, s.Place, pre, post, s.PredictedPreRating, s.PredictedPostRating)
		}
		return w.Flush()
	},
}
