package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ndphc-monitor/internal/dataentry"
	"ndphc-monitor/internal/meter"
	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/reconcile"
	"ndphc-monitor/internal/store"

	"github.com/spf13/cobra"
)

// plantDay is the --plant/--date pair shared by the form commands.
type plantDay struct {
	plantID int
	date    string
}

func (p *plantDay) flags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.plantID, "plant", 0, "plant id (defaults to the user's assigned plant)")
	cmd.Flags().StringVar(&p.date, "date", "", "day as YYYY-MM-DD (defaults to today)")
}

func (p *plantDay) resolve(a *app) (int, string, error) {
	plantID := p.plantID
	if plantID == 0 {
		if user := a.session.User(); user != nil && user.PowerPlantID != nil {
			plantID = *user.PowerPlantID
		}
	}
	if plantID == 0 {
		return 0, "", fmt.Errorf("--plant is required for users without an assigned plant")
	}

	date := p.date
	if date == "" {
		date = model.FormatDate(time.Now())
	} else if _, err := model.ParseDate(date); err != nil {
		return 0, "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return plantID, date, nil
}

// cellArg parses "turbineID:hour=value".
func cellArg(s string) (reconcile.Entry, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return reconcile.Entry{}, fmt.Errorf("invalid cell %q, want turbine:hour=value", s)
	}
	turbine, hour, ok := strings.Cut(key, ":")
	if !ok {
		return reconcile.Entry{}, fmt.Errorf("invalid cell %q, want turbine:hour=value", s)
	}
	var (
		e   reconcile.Entry
		err error
	)
	if e.TurbineID, err = strconv.Atoi(turbine); err != nil {
		return e, fmt.Errorf("invalid turbine in %q", s)
	}
	if e.Hour, err = strconv.Atoi(hour); err != nil {
		return e, fmt.Errorf("invalid hour in %q", s)
	}
	if e.Value, err = strconv.ParseFloat(value, 64); err != nil {
		return e, fmt.Errorf("invalid value in %q", s)
	}
	return e, nil
}

func morningCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "morning",
		Short: "Morning availability declarations",
	}
	cmd.AddCommand(morningShowCmd())
	cmd.AddCommand(morningSetCmd())
	return cmd
}

func (a *app) loadMorning(cmd *cobra.Command, pd *plantDay) (*dataentry.Morning, error) {
	plantID, date, err := pd.resolve(a)
	if err != nil {
		return nil, err
	}
	form := dataentry.NewMorning(a.plants(), store.NewMorningReadings(a.api))
	if err := form.Load(cmd.Context(), plantID, date); err != nil {
		return nil, fmt.Errorf("failed to load morning reading: %w", err)
	}
	return form, nil
}

func printMorning(a *app, form *dataentry.Morning) error {
	now := time.Now()
	reading := form.Reading()
	mode := "create"
	if form.IsUpdate() {
		mode = "update"
	}
	declarationTotal, availability := form.Totals()
	fmt.Printf("Plant %d, %s (%s)\n", form.PlantID(), form.Date(), mode)
	fmt.Printf("Deadline: %s  Editable: %t\n", formatDeadline(reading), form.Capabilities(a.session.Role(), now).CanEdit)
	fmt.Printf("Declaration total: %s  Availability capacity: %s\n\n", formatValue(declarationTotal), formatValue(availability))
	return printGrid(os.Stdout, form, form.CellStates(a.session.Role(), now))
}

func morningShowCmd() *cobra.Command {
	var pd plantDay
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the declared hourly availability grid",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			form, err := a.loadMorning(cmd, &pd)
			if err != nil {
				return err
			}
			return printMorning(a, form)
		}),
	}
	pd.flags(cmd)
	return cmd
}

func morningSetCmd() *cobra.Command {
	var (
		pd                   plantDay
		declarationTotal     float64
		availabilityCapacity float64
	)
	cmd := &cobra.Command{
		Use:   "set <turbine:hour=value>...",
		Short: "Set declarations and submit the morning reading",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			form, err := a.loadMorning(cmd, &pd)
			if err != nil {
				return err
			}
			if !form.Capabilities(a.session.Role(), time.Now()).CanEdit {
				return errors.New("the submission deadline has passed; this reading is locked")
			}
			for _, arg := range args {
				e, err := cellArg(arg)
				if err != nil {
					return err
				}
				if !form.Set(e.TurbineID, e.Hour, e.Value) {
					return fmt.Errorf("turbine %d hour %d is not on this form", e.TurbineID, e.Hour)
				}
			}
			if cmd.Flags().Changed("declaration-total") || cmd.Flags().Changed("availability") {
				current, avail := form.Totals()
				if cmd.Flags().Changed("declaration-total") {
					current = declarationTotal
				}
				if cmd.Flags().Changed("availability") {
					avail = availabilityCapacity
				}
				form.SetTotals(current, avail)
			}

			if _, err := form.Submit(cmd.Context()); err != nil {
				return fmt.Errorf("failed to submit morning reading: %w", err)
			}
			return printMorning(a, form)
		}),
	}
	pd.flags(cmd)
	cmd.Flags().Float64Var(&declarationTotal, "declaration-total", 0, "declaration total in MWh")
	cmd.Flags().Float64Var(&availabilityCapacity, "availability", 0, "availability capacity in MW")
	return cmd
}

func hourlyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hourly",
		Short: "Hourly generation readings",
	}
	cmd.AddCommand(hourlyShowCmd())
	cmd.AddCommand(hourlySetCmd())
	cmd.AddCommand(hourlyImportMeterCmd())
	return cmd
}

func (a *app) loadHourly(cmd *cobra.Command, pd *plantDay) (*dataentry.Hourly, error) {
	plantID, date, err := pd.resolve(a)
	if err != nil {
		return nil, err
	}
	form := dataentry.NewHourly(a.plants(), store.NewDailyReports(a.api), store.NewHourlyReadings(a.api))
	if err := form.Load(cmd.Context(), plantID, date); err != nil {
		return nil, fmt.Errorf("failed to load hourly readings: %w", err)
	}
	return form, nil
}

func printHourly(a *app, form *dataentry.Hourly) error {
	now := time.Now()
	report := form.Report()
	fmt.Printf("Plant %d, %s\n", form.PlantID(), form.Date())
	if report == nil {
		fmt.Println("No daily report yet; the first submit creates one")
	}
	fmt.Printf("Deadline: %s  Editable: %t\n\n", formatDeadline(report), form.Capabilities(a.session.Role(), now).CanEdit)
	return printGrid(os.Stdout, form, form.CellStates(a.session.Role(), now))
}

// submitHourly treats "nothing to submit" as a notice rather than a failure.
func submitHourly(cmd *cobra.Command, form *dataentry.Hourly) error {
	if _, err := form.Submit(cmd.Context()); err != nil {
		if errors.Is(err, dataentry.ErrNothingToSubmit) {
			fmt.Println(err)
			return nil
		}
		return fmt.Errorf("failed to submit hourly readings: %w", err)
	}
	return nil
}

func hourlyShowCmd() *cobra.Command {
	var pd plantDay
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the hourly generation grid",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			form, err := a.loadHourly(cmd, &pd)
			if err != nil {
				return err
			}
			return printHourly(a, form)
		}),
	}
	pd.flags(cmd)
	return cmd
}

func hourlySetCmd() *cobra.Command {
	var pd plantDay
	cmd := &cobra.Command{
		Use:   "set <turbine:hour=value>...",
		Short: "Set hourly readings and submit the changed cells",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			form, err := a.loadHourly(cmd, &pd)
			if err != nil {
				return err
			}
			if !form.Capabilities(a.session.Role(), time.Now()).CanEdit {
				return errors.New("the submission deadline has passed; these readings are locked")
			}
			for _, arg := range args {
				e, err := cellArg(arg)
				if err != nil {
					return err
				}
				if !form.Set(e.TurbineID, e.Hour, e.Value) {
					return fmt.Errorf("turbine %d hour %d is not on this form", e.TurbineID, e.Hour)
				}
			}
			if err := submitHourly(cmd, form); err != nil {
				return err
			}
			return printHourly(a, form)
		}),
	}
	pd.flags(cmd)
	return cmd
}

func hourlyImportMeterCmd() *cobra.Command {
	var (
		pd     plantDay
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import-meter",
		Short: "Fill the hourly grid from the plant's Modbus meter",
		Long:  "Read each configured turbine's 24-hour energy profile and submit the nonzero hours",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			if len(a.cfg.Meter.Registers) == 0 {
				return errors.New("no meter registers configured")
			}
			form, err := a.loadHourly(cmd, &pd)
			if err != nil {
				return err
			}
			if !form.Capabilities(a.session.Role(), time.Now()).CanEdit {
				return errors.New("the submission deadline has passed; these readings are locked")
			}

			client := newMeterClient(a)
			if err := client.Connect(); err != nil {
				return err
			}
			defer client.Close()

			entries, err := meter.New(client, meterRegisters(a), a.logger).ReadProfile()
			if err != nil {
				return fmt.Errorf("failed to read meter: %w", err)
			}
			imported := form.Import(meter.NonZero(entries))
			fmt.Printf("Imported %d readings from %s:%d\n", imported, a.cfg.Meter.IP, a.cfg.Meter.Port)

			if !dryRun {
				if err := submitHourly(cmd, form); err != nil {
					return err
				}
			}
			return printHourly(a, form)
		}),
	}
	pd.flags(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the imported grid without submitting")
	return cmd
}

func newMeterClient(a *app) *meter.Client {
	return meter.NewClient(a.cfg.Meter.IP, a.cfg.Meter.Port, a.cfg.Meter.SlaveID, a.cfg.Meter.Timeout)
}

func meterRegisters(a *app) []meter.Register {
	regs := make([]meter.Register, len(a.cfg.Meter.Registers))
	for i, r := range a.cfg.Meter.Registers {
		regs[i] = meter.Register{TurbineID: r.TurbineID, Address: r.Address, Scale: r.Scale}
	}
	return regs
}

func dailyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Daily reports",
	}
	cmd.AddCommand(dailyShowCmd())
	return cmd
}

func dailyShowCmd() *cobra.Command {
	var pd plantDay
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the daily report figures and turbine statistics",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			plantID, date, err := pd.resolve(a)
			if err != nil {
				return err
			}
			form := dataentry.NewDaily(a.plants(), store.NewDailyReports(a.api))
			if err := form.Load(cmd.Context(), plantID, date); err != nil {
				return fmt.Errorf("failed to load daily report: %w", err)
			}

			report := form.Report()
			if report == nil {
				fmt.Printf("No daily report for plant %d on %s\n", plantID, date)
				return nil
			}
			figures := form.Figures()
			fmt.Printf("Plant %d, %s\n", plantID, date)
			fmt.Printf("Deadline: %s  Late: %t  Editable: %t\n\n", formatDeadline(report), report.IsLateSubmission,
				form.Capabilities(a.session.Role(), time.Now()).CanEdit)

			tw := newTable(os.Stdout)
			fmt.Fprintf(tw, "Gas consumed\t%s\n", formatValue(figures.GasConsumed))
			fmt.Fprintf(tw, "Gas loss\t%s\n", formatValue(figures.GasLoss))
			fmt.Fprintf(tw, "NCC loss\t%s\n", formatValue(figures.NCCLoss))
			fmt.Fprintf(tw, "Internal loss\t%s\n", formatValue(figures.InternalLoss))
			fmt.Fprintf(tw, "Declaration total\t%s\n", formatValue(figures.DeclarationTotal))
			fmt.Fprintf(tw, "Availability capacity\t%s\n", formatValue(figures.AvailabilityCapacity))
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Println()

			names := make(map[int]string)
			for _, t := range form.Turbines() {
				names[t.ID] = t.Name
			}
			tw = newTable(os.Stdout)
			fmt.Fprintln(tw, "TURBINE\tGENERATED\tEXPORTED\tHOURS\tSTARTUPS\tSHUTDOWNS\tTRIPS")
			for _, s := range form.Stats() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n", names[s.TurbineID],
					formatValue(s.EnergyGenerated), formatValue(s.EnergyExported), formatValue(s.OperatingHours),
					s.StartupCount, s.ShutdownCount, s.Trips)
			}
			generated, exported := form.Totals()
			fmt.Fprintf(tw, "TOTAL\t%s\t%s\t\t\t\t\n", formatValue(generated), formatValue(exported))
			return tw.Flush()
		}),
	}
	pd.flags(cmd)
	return cmd
}
