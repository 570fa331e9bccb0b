package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/aquacharge/app"
	"github.com/kilianp07/aquacharge/pkg/export"
	"github.com/kilianp07/aquacharge/qa/scenarios"
)

var simFlags struct {
	scenario string
	format   string
	out      string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a vessel battery scenario and export the trajectory",
	RunE:  runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simFlags.scenario, "scenario", "", "scenario file (yaml)")
	f.StringVar(&simFlags.format, "format", "csv", "output format: csv or json")
	f.StringVarP(&simFlags.out, "out", "o", "", "output file (default stdout)")
	_ = simulateCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(simFlags.format)
	if err != nil {
		return err
	}
	sc, err := scenarios.Load(simFlags.scenario)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	return withService(cmd, func(svc *app.Service) error {
		res, err := svc.Simulate(cmd.Context(), app.Simulation{
			Name:        sc.Name,
			Vessel:      sc.Vessel,
			Decisions:   sc.DecisionList(),
			StepMinutes: sc.StepMinutes,
		})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if simFlags.out != "" {
			f, err := os.Create(simFlags.out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := export.Write(w, format, res.Record); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		sum := res.Record.Summary
		fmt.Fprintf(cmd.ErrOrStderr(), "run %s: %d steps, charged %.3f kWh, discharged %.3f kWh, final soc %.3f kWh\n",
			res.Record.RunID, sum.Steps, sum.ChargedKWh, sum.DischargedKWh, res.Record.Final.SocKWh)
		return nil
	})
}
