package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ndphc-monitor/internal/backend"
	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/store"

	"github.com/spf13/cobra"
)

func metricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Dashboard metrics",
	}
	cmd.AddCommand(operationalEventsCmd())
	return cmd
}

func operationalEventsCmd() *cobra.Command {
	var (
		date    string
		plantID int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "operational-events",
		Short: "Startups, shutdowns and trips per turbine for a day",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			if date == "" {
				date = model.FormatDate(time.Now())
			}
			dashboard := store.NewDashboard(a.api, time.Now())
			data, err := dashboard.FetchOperationalEvents(cmd.Context(), date, plantID)
			if err != nil {
				return fmt.Errorf("failed to fetch operational events: %w", err)
			}
			if asJSON {
				return printJSON(os.Stdout, data)
			}

			tw := newTable(os.Stdout)
			fmt.Fprintln(tw, "PLANT\tTURBINE\tSTARTUPS\tSHUTDOWNS\tTRIPS")
			for _, plant := range data.PowerPlants {
				for _, t := range plant.Data {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", plant.PowerPlant, t.Turbine,
						formatValue(t.Startups), formatValue(t.Shutdowns), formatValue(t.Trips))
				}
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD (defaults to today)")
	cmd.Flags().IntVar(&plantID, "plant", 0, "restrict to one plant")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the merged view as JSON")
	return cmd
}

func summaryCmd() *cobra.Command {
	var stored bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Fleet summary for today against yesterday",
		Long:  "Fetch the dashboard summary. --stored prints the last snapshot kept by serve instead",
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			if stored {
				snapshot, err := a.db.GetLatestSummary()
				if err != nil {
					return fmt.Errorf("no stored summary: %w", err)
				}
				return printJSON(os.Stdout, snapshot)
			}

			if err := a.requireLogin(); err != nil {
				return err
			}
			summary, err := store.NewDashboard(a.api, time.Now()).FetchSummary(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch summary: %w", err)
			}

			cur, prev, pct := summary.CurrentDay, summary.PreviousDay, summary.PercentageChange
			tw := newTable(os.Stdout)
			fmt.Fprintf(tw, "METRIC\t%s\t%s\tCHANGE\n", cur.Date, prev.Date)
			row := func(name string, c, p, change float64) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\n", name, formatValue(c), formatValue(p), strconv.FormatFloat(change, 'f', 1, 64))
			}
			row("Energy generated", cur.EnergyGenerated, prev.EnergyGenerated, pct.EnergyGenerated)
			row("Energy exported", cur.EnergyExported, prev.EnergyExported, pct.EnergyExported)
			row("Energy consumed", cur.EnergyConsumed, prev.EnergyConsumed, pct.EnergyConsumed)
			row("Gas consumed", cur.GasConsumed, prev.GasConsumed, pct.GasConsumed)
			row("Avg power exported", cur.AvgPowerExported, prev.AvgPowerExported, pct.AvgPowerExported)
			row("Avg dependability index", cur.AvgDependabilityIndex, prev.AvgDependabilityIndex, pct.AvgDependabilityIndex)
			row("Avg gas utilization", cur.AvgGasUtilization, prev.AvgGasUtilization, pct.AvgGasUtilization)
			row("Avg availability factor", cur.AvgAvailabilityFactor, prev.AvgAvailabilityFactor, pct.AvgAvailabilityFactor)
			return tw.Flush()
		}),
	}
	cmd.Flags().BoolVar(&stored, "stored", false, "print the latest stored snapshot")
	return cmd
}

func statsCmd() *cobra.Command {
	var daily string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Admin statistics: users by role, plants, capacity and turbines",
		Long:  "Compute admin statistics from the user and plant lists. --daily DATE prints stored snapshot statistics instead",
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			if daily != "" {
				stats, err := a.db.GetDailyStats(daily)
				if err != nil {
					return fmt.Errorf("failed to get daily stats: %w", err)
				}
				return printJSON(os.Stdout, stats)
			}

			if err := a.requireLogin(); err != nil {
				return err
			}
			stats, err := store.NewAdminDashboard(a.api).FetchStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch stats: %w", err)
			}
			return printJSON(os.Stdout, stats)
		}),
	}
	cmd.Flags().StringVar(&daily, "daily", "", "day as YYYY-MM-DD for stored snapshot statistics")
	return cmd
}

func exportCmd() *cobra.Command {
	var plant, preset, from, to, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the plant data spreadsheet",
		Long:  "Download the export for one plant or all plants. --range is all, week, month, 3month, 6month, year or custom (with --from/--to)",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			var customFrom, customTo *time.Time
			if from != "" {
				t, err := model.ParseDate(from)
				if err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
				customFrom = &t
			}
			if to != "" {
				t, err := model.ParseDate(to)
				if err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
				customTo = &t
			}
			start, end := store.ExportRange(preset, time.Now(), customFrom, customTo)

			data, name, err := store.NewAdminDashboard(a.api).Export(cmd.Context(), backend.ExportParams{
				PowerPlantID: plant,
				StartDate:    start,
				EndDate:      end,
			})
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}

			if name == "" {
				name = "power_plant_data.xlsx"
			}
			path := out
			if path == "" {
				path = name
			}
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, name)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Printf("Exported %s to %s into %s (%d bytes)\n", start, end, path, len(data))
			return nil
		}),
	}
	cmd.Flags().StringVar(&plant, "plant", "all", "plant id or all")
	cmd.Flags().StringVar(&preset, "range", store.RangeAll, "date range preset")
	cmd.Flags().StringVar(&from, "from", "", "custom range start YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "custom range end YYYY-MM-DD")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory (defaults to the server's filename)")
	return cmd
}
