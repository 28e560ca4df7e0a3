package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/window/dayledger/config"
	"github.com/window/dayledger/day"
	"github.com/window/dayledger/goals"
	"github.com/window/dayledger/store"
)

// cli carries the state shared by all subcommands of one invocation.
type cli struct {
	out io.Writer
	now func() time.Time

	configPath string
	driver     string
	dbPath     string
	date       string
	asJSON     bool

	cfg    config.Config
	logger *slog.Logger
	repo   *day.DayRepository
	closer io.Closer
	ledger *day.LedgerStore
}

func newRootCmd(out io.Writer) (*cobra.Command, *cli) {
	c := &cli{out: out, now: time.Now}

	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Log sleep, food and work against a daily energy ledger",
		Long:          `ledgerctl reads and edits ledger days in the configured store. A ledger day runs from 05:00 to 04:59 the next morning.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&c.driver, "driver", "", "Store driver: memory, sqlite or badger (overrides config)")
	pf.StringVar(&c.dbPath, "db", "", "Store path (overrides config)")
	pf.StringVar(&c.date, "date", "", "Ledger day to work on, YYYY-MM-DD (default: today)")
	pf.BoolVar(&c.asJSON, "json", false, "Print the day as JSON")

	root.AddCommand(
		c.showCmd(),
		c.addCmd(),
		c.updateCmd(),
		c.deleteCmd(),
		c.deleteHourCmd(),
		c.sleepCmd(),
		c.foodCmd("meal", day.FoodMeal),
		c.foodCmd("snack", day.FoodSnack),
		c.workCmd(),
		c.moodCmd(),
		c.resetCmd(),
		c.daysCmd(),
		c.migrateCmd(),
	)
	return root, c
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func (c *cli) open() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.driver != "" {
		cfg.Store.Driver = c.driver
	}
	if c.dbPath != "" {
		cfg.Store.Path = c.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = cfg.NewLogger()

	c.repo, c.closer, err = store.OpenRepository(cfg.Store, c.logger)
	return err
}

// close releases the store. It is safe to call more than once.
func (c *cli) close() error {
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}

// openLedger positions a Ledger Store on the selected day.
func (c *cli) openLedger(ctx context.Context) (*day.LedgerStore, error) {
	if c.ledger != nil {
		return c.ledger, nil
	}
	ledger, err := day.NewLedgerStore(ctx, c.repo, day.WithClock(c.now), day.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}
	if c.date != "" && c.date != ledger.CurrentDate() {
		moved, err := ledger.GoToDate(ctx, c.date)
		if err != nil {
			return nil, err
		}
		if !moved {
			return nil, fmt.Errorf("%w: %s", day.ErrFutureDate, c.date)
		}
	}
	c.ledger = ledger
	return ledger, nil
}

// mutate runs fn against the ledger and prints the resulting day.
func (c *cli) mutate(cmd *cobra.Command, fn func(ctx context.Context, l *day.LedgerStore) error) error {
	ctx := cmd.Context()
	l, err := c.openLedger(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, l); err != nil {
		return err
	}
	return c.printDay(l, false)
}

// =============================================================================
// COMMANDS
// =============================================================================

func (c *cli) showCmd() *cobra.Command {
	var blocks bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the day's stats and activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			return c.printDay(l, blocks)
		},
	}
	cmd.Flags().BoolVar(&blocks, "blocks", false, "Also print the 24-hour grid")
	return cmd
}

type activityFlags struct {
	name     string
	start    int
	end      int
	exertion string
	kind     string
	category string
	foodType string
}

func (f *activityFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "Activity name")
	fs.IntVar(&f.start, "start", 0, "Start hour (0-23)")
	fs.IntVar(&f.end, "end", 0, "End hour, exclusive (may exceed 24 for overnight)")
	fs.StringVar(&f.exertion, "exertion", string(day.ExertionModerate), "very-low, low, moderate, high or very-high")
	fs.StringVar(&f.kind, "type", string(day.TypeExerting), "exerting or restorative")
	fs.StringVar(&f.category, "category", string(day.CategoryGeneral), "general, sleep or food")
	fs.StringVar(&f.foodType, "food-type", "", "meal or snack (food only)")
}

// apply overlays the flags that were set on base.
func (f *activityFlags) apply(cmd *cobra.Command, base day.Activity) (day.Activity, error) {
	fs := cmd.Flags()
	if fs.Changed("name") {
		base.Name = f.name
	}
	if fs.Changed("start") {
		base.StartTime = f.start
	}
	if fs.Changed("end") {
		base.EndTime = f.end
	}
	if fs.Changed("exertion") || base.ExertionLevel == "" {
		base.ExertionLevel = day.ExertionLevel(f.exertion)
	}
	if fs.Changed("type") || base.Type == "" {
		base.Type = day.ActivityType(f.kind)
	}
	if fs.Changed("category") || base.Category == "" {
		base.Category = day.Category(f.category)
	}
	if fs.Changed("food-type") {
		base.FoodType = day.FoodType(f.foodType)
	}
	err := checkActivity(&base)
	return base, err
}

func checkActivity(a *day.Activity) error {
	a.Name = strings.TrimSpace(a.Name)
	switch {
	case a.Name == "":
		return day.ErrEmptyName
	case a.StartTime < 0 || a.StartTime >= day.HoursPerDay:
		return fmt.Errorf("%w: start %d", day.ErrInvalidHour, a.StartTime)
	case a.EndTime <= a.StartTime || a.Hours() > day.HoursPerDay:
		return fmt.Errorf("invalid span %d-%d", a.StartTime, a.EndTime)
	case !a.ExertionLevel.Valid():
		return fmt.Errorf("unknown exertion level %q", a.ExertionLevel)
	case !a.Type.Valid():
		return fmt.Errorf("unknown activity type %q", a.Type)
	case a.IsFood() && a.FoodType != day.FoodMeal && a.FoodType != day.FoodSnack:
		return errors.New("food activities need --food-type meal or snack")
	}
	return nil
}

func (c *cli) addCmd() *cobra.Command {
	var f activityFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an activity; overlapped hours are taken from existing activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.apply(cmd, day.Activity{})
			if err != nil {
				return err
			}
			return c.mutate(cmd, func(ctx context.Context, l *day.LedgerStore) error {
				return l.AddActivity(ctx, a)
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func (c *cli) updateCmd() *cobra.Command {
	var f activityFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an existing activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutate(cmd, func(ctx context.Context, l *day.LedgerStore) error {
				existing, ok := l.Activity(args[0])
				if !ok {
					return fmt.Errorf("no activity %q on %s", args[0], l.CurrentDate())
				}
				a, err := f.apply(cmd, existing)
				if err != nil {
					return err
				}
				return l.UpdateActivity(ctx, a)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutate(cmd, func(ctx context.Context, l *day.LedgerStore) error {
				if _, ok := l.Activity(args[0]); !ok {
					return fmt.Errorf("no activity %q on %s", args[0], l.CurrentDate())
				}
				return l.DeleteActivity(ctx, args[0])
			})
		},
	}
}

func (c *cli) deleteHourCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-hour ID HOUR",
		Short: "Remove one hour from an activity, splitting it if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hour, err := parseHour(args[1])
			if err != nil {
				return err
			}
			return c.mutate(cmd, func(ctx context.Context, l *day.LedgerStore) error {
				if _, ok := l.Activity(args[0]); !ok {
					return fmt.Errorf("no activity %q on %s", args[0], l.CurrentDate())
				}
				return l.DeleteActivityHour(ctx, args[0], hour)
			})
		},
	}
}

func (c *cli) sleepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sleep BEDTIME WAKE",
		Short: "Log sleep; a wake hour at or before bedtime wraps past midnight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bed, err := parseHour(args[0])
			if err != nil {
				return err
			}
			wake, err := parseHour(args[1])
			if err != nil {
				return err
			}
			return c.mutate(cmd, func(ctx context.Context, l *day.LedgerStore) error {
				a, err := day.NewSleep(l.CurrentDate(), bed, wake)
				if err != nil {
					return err
				}
				return l.AddActivity(ctx, a)
			})
		},
	}
}

func (c *cli) foodCmd(use string, ft day.FoodType) *cobra.Command {
	return &cobra.Command{
		Use:   use + " NAME HOUR",
		Short: fmt.Sprintf("Log a %s for one hour", use),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hour, err := parseHour(args[1])
			if err != nil {
				return err
			}
			return c.mutate(cmd, func(ctx context.Context, l *day.LedgerStore) error {
				a, err := day.NewFood(l.CurrentDate(), args[0], hour, ft)
				if err != nil {
					return err
				}
				return l.AddActivity(ctx, a)
			})
		},
	}
}

func (c *cli) workCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "work START END",
		Short: "Log a work session of at most 12 hours",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseHour(args[0])
			if err != nil {
				return err
			}
			end, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q", day.ErrInvalidHour, args[1])
			}
			return c.mutate(cmd, func(ctx context.Context, l *day.LedgerStore) error {
				a, err := day.NewWork(l.CurrentDate(), name, start, end)
				if err != nil {
					return err
				}
				return l.AddActivity(ctx, a)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Session name (default \"Work\")")
	return cmd
}

func (c *cli) moodCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "mood MOOD",
		Short:     "Set the day's mood",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"sad", "mad", "neutral", "happy", "very-happy"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mood := day.Mood(args[0])
			if !mood.Valid() {
				return fmt.Errorf("unknown mood %q", args[0])
			}
			return c.mutate(cmd, func(ctx context.Context, l *day.LedgerStore) error {
				return l.SetMood(ctx, mood)
			})
		},
	}
}

func (c *cli) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every activity and the mood of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutate(cmd, func(ctx context.Context, l *day.LedgerStore) error {
				return l.ResetDay(ctx, l.CurrentDate())
			})
		},
	}
}

func (c *cli) daysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "days",
		Short: "List days with stored data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := c.repo.All(cmd.Context())
			if err != nil {
				return err
			}
			dates, err := c.repo.Dates(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tENERGY\tMEALS\tSNACKS\tMOOD\tACTIVITIES")
			for _, date := range dates {
				d, ok := all[date]
				if !ok {
					fmt.Fprintf(tw, "%s\t-\t-\t-\t-\tunreadable\n", date)
					continue
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%d\n",
					date, d.Stats.RoundedEnergy(), d.Stats.Meals, d.Stats.Snacks, d.Stats.Mood, len(d.Activities))
			}
			return tw.Flush()
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade stored days to the current schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := day.Migrate(cmd.Context(), c.repo)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "scanned %d, migrated %d, skipped %d\n", report.Scanned, report.Migrated, report.Skipped)
			return nil
		},
	}
}

// =============================================================================
// OUTPUT
// =============================================================================

type dayView struct {
	Date       string         `json:"date"`
	Stats      day.UserStats  `json:"stats"`
	Goals      goals.Progress `json:"goals"`
	Activities []day.Activity `json:"activities"`
}

func (c *cli) printDay(l *day.LedgerStore, withBlocks bool) error {
	stats := l.CurrentStats()
	progress := c.cfg.Goals.Evaluate(stats)

	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(dayView{Date: l.CurrentDate(), Stats: stats, Goals: progress, Activities: l.Activities()})
	}

	label := l.CurrentDate()
	if l.IsToday() {
		label += " (today)"
	}
	fmt.Fprintf(c.out, "%s\n", label)
	fmt.Fprintf(c.out, "energy %d  meals %d/%d  snacks %d/%d  mood %s\n",
		progress.Energy, progress.Meals, progress.MealGoal, progress.Snacks, progress.SnackGoal, stats.Mood)
	if progress.LowEnergy {
		fmt.Fprintln(c.out, "energy is low")
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFROM\tTO\tCATEGORY\tEXERTION")
	for _, a := range l.Activities() {
		category := string(a.Category)
		if a.IsFood() {
			category += "/" + string(a.FoodType)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Name, day.FormatHour(a.StartTime), day.FormatHour(a.EndTime), category, a.ExertionLevel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if withBlocks {
		for _, b := range l.TimeBlocks() {
			name := "."
			if b.Activity != nil {
				name = b.Activity.Name
			}
			fmt.Fprintf(c.out, "%8s  %s\n", day.FormatHour(b.Hour), name)
		}
	}
	return nil
}

func parseHour(s string) (int, error) {
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 || h >= day.HoursPerDay {
		return 0, fmt.Errorf("%w: %q", day.ErrInvalidHour, s)
	}
	return h, nil
}
