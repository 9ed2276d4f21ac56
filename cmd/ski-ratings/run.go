package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/ski-ratings/internal/metrics"
	"github.com/yourusername/ski-ratings/internal/service"
)

var runDisciplines []string

func init() {
	runCmd.Flags().StringSliceVarP(&runDisciplines, "discipline", "d", nil, "Disciplines to rate (default: all configured)")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute and export rating histories once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, cfg, appLog)
		if err != nil {
			return err
		}
		defer a.close()

		svc, err := a.ratingService(runDisciplines)
		if err != nil {
			return err
		}

		reports, err := svc.RunAll(ctx)
		if err != nil {
			return err
		}
		printReports(reports)

		if cfg.Metrics.TextfilePath != "" {
			if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
				return err
			}
		}
		return nil
	},
}

func printReports(reports []*service.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DISCIPLINE\tSEASONS\tEVENTS\tCOMPETITORS\tPREDICTED ONLY\tUNMATCHED\tSNAPSHOTS\tOUTPUT")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s:%s\n",
			r.Run.Discipline, r.Run.Seasons, r.Run.Events, r.Run.Competitors,
			r.Run.PredictedOnly, r.Run.Unmatched, r.Run.Snapshots, r.Sink, r.Target)
	}
	w.Flush()
}
