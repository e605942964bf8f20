package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/benefits-engine/app"
	"github.com/warp/benefits-engine/benefits"
	"github.com/warp/benefits-engine/config"
	"github.com/warp/benefits-engine/format"
	"github.com/warp/benefits-engine/obs"
	"github.com/warp/benefits-engine/seed"
)

// cli carries state shared by every command of one invocation.
type cli struct {
	cfg  *config.Config
	deps *app.Dependencies
}

// close releases the storage opened by the pre-run hook. cobra skips
// post-run hooks when a command fails, so the caller closes after Execute.
func (c *cli) close() error {
	if c.deps == nil {
		return nil
	}
	err := c.deps.Close()
	c.deps = nil
	return err
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}
	var verbose bool

	root := &cobra.Command{
		Use:           "benefits",
		Short:         "Inspect and edit the benefits roster",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger := obs.NewLoggerTo(cmd.ErrOrStderr(), "console", level)

			deps, err := app.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			c.cfg, c.deps = cfg, deps
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log storage activity to stderr")

	root.AddCommand(
		c.listCmd(),
		c.summaryCmd(),
		c.costsCmd(),
		c.addCmd(),
		c.removeCmd(),
		c.scenariosCmd(),
		c.loadScenarioCmd(),
	)
	return root, c
}

// =============================================================================
// READ COMMANDS
// =============================================================================

func (c *cli) listCmd() *cobra.Command {
	var (
		query string
		page  int
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = c.cfg.ListPageSize
			}
			roster := c.deps.Roster
			rates := roster.Rates()
			p := benefits.Paginate(roster.Search(query), page, limit)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDEPENDENTS\tYEARLY\tPER PAYCHECK\t")
			for _, e := range p.Items {
				costs := rates.CalculateCosts(e)
				name := e.Name
				if rates.IsDiscountEligible(e.Name) {
					name += " *"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t\n",
					e.ID, name, len(e.Dependents),
					format.Currency(costs.TotalYearly), format.Currency(costs.PerPaycheck))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d, %s employees (* discounted)\n",
				p.Page, max(p.TotalPages, 1), format.Number(float64(p.TotalItems)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by employee or dependent name")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "rows per page (default LIST_PAGE_SIZE)")
	return cmd
}

func (c *cli) summaryCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show yearly and per-paycheck totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster := c.deps.Roster
			var (
				totals benefits.SummaryTotals
				ok     bool
			)
			if strings.TrimSpace(query) == "" {
				totals, ok = roster.Summary()
			} else {
				totals, ok = roster.Rates().Summarize(roster.Search(query))
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no data")
				return nil
			}
			writeSummary(cmd.OutOrStdout(), totals)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "summarize only matching employees")
	return cmd
}

func writeSummary(out io.Writer, t benefits.SummaryTotals) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Employees\t%s\t(%s discounted)\n", format.Number(float64(t.EmployeeCount)), format.Number(float64(t.DiscountedEmployeeCount)))
	fmt.Fprintf(w, "Dependents\t%s\t(%s discounted)\n", format.Number(float64(t.DependentCount)), format.Number(float64(t.DiscountedDependentCount)))
	fmt.Fprintf(w, "Employee yearly\t%s\t\n", format.Currency(t.EmployeeYearlyTotal))
	fmt.Fprintf(w, "Dependent yearly\t%s\t\n", format.Currency(t.DependentYearlyTotal))
	fmt.Fprintf(w, "Combined yearly\t%s\t(%s)\n", format.Currency(t.CombinedYearlyTotal), format.Currency(t.CombinedYearlyTotal, format.WithCompact()))
	fmt.Fprintf(w, "Combined per paycheck\t%s\t\n", format.Currency(t.CombinedPerPaycheckTotal))
	fmt.Fprintf(w, "Average per employee\t%s\t(%s per paycheck)\n", format.Currency(t.AverageCombinedYearly), format.Currency(t.AverageCombinedPerPaycheck))
	w.Flush()
}

func (c *cli) costsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "costs ID",
		Short: "Show the cost breakdown of one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.deps.Roster.Get(benefits.EmployeeID(args[0]))
			if err != nil {
				return err
			}
			rates := c.deps.Roster.Rates()
			costs := rates.CalculateCosts(e)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\n", e.Name, format.Currency(costs.EmployeeYearly))
			for _, d := range e.Dependents {
				fmt.Fprintf(w, "  %s\t%s\n", d.Name, format.Currency(rates.DependentYearly(d)))
			}
			fmt.Fprintf(w, "Total yearly\t%s\n", format.Currency(costs.TotalYearly))
			fmt.Fprintf(w, "Per paycheck\t%s\n", format.Currency(costs.PerPaycheck))
			return w.Flush()
		},
	}
}

func (c *cli) scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List demo scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range seed.Scenarios() {
				fmt.Fprintf(w, "%s\t%s\n", s.ID, s.Description)
			}
			return w.Flush()
		},
	}
}

// =============================================================================
// WRITE COMMANDS
// =============================================================================

func (c *cli) addCmd() *cobra.Command {
	var dependents []string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := benefits.Employee{Name: args[0]}
			for _, d := range dependents {
				e.Dependents = append(e.Dependents, benefits.Dependent{Name: d})
			}
			added, err := c.deps.Roster.Add(cmd.Context(), e)
			if err != nil {
				return err
			}
			costs := c.deps.Roster.Rates().CalculateCosts(added)
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) %s/year\n", added.Name, added.ID, format.Currency(costs.TotalYearly))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&dependents, "dependent", "d", nil, "dependent name (repeatable)")
	return cmd
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an employee and their dependents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.deps.Roster.Remove(cmd.Context(), benefits.EmployeeID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) loadScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load-scenario ID",
		Short: "Replace the roster with a demo scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := seed.Build(args[0], c.cfg.Seed)
			if err != nil {
				return err
			}
			if err := c.deps.Roster.Replace(cmd.Context(), employees); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %s: %s employees\n", args[0], format.Number(float64(len(employees))))
			return nil
		},
	}
}
