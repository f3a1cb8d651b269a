package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/config"
	"github.com/warp/attendance-engine/department"
	"github.com/warp/attendance-engine/fileio"
)

var rootCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Attendance calculation engine",
	Long: `attendance turns daily punch exports into per-employee and per-department
period summaries: attendance and tardiness counts, overtime, night and
holiday minutes, premium-weighted minutes, leave usage, and labor-rule
violations, rolled up the department hierarchy.

Inputs are a punch CSV (UTF-8 or Shift-JIS) plus optional YAML files for
work rules and the department master list; run 'attendance init' to
write templates for both.`,
}

var (
	runID  = uuid.NewString()
	logger *slog.Logger
)

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("ATTENDANCE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "attendance-engine"),
		slog.String("run_id", runID),
	)
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("rules", "rules.yaml", "work rules file")
	rootCmd.PersistentFlags().String("departments", "departments.yaml", "department master file")
	rootCmd.PersistentFlags().String("format", "table", "output format: table or json")
	rootCmd.PersistentFlags().Bool("verbose", false, "debug logging")
	_ = viper.BindPFlag("rules", rootCmd.PersistentFlags().Lookup("rules"))
	_ = viper.BindPFlag("departments", rootCmd.PersistentFlags().Lookup("departments"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func registerCommands() {
	rootCmd.AddCommand(calculateCmd())
	rootCmd.AddCommand(departmentsCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(initCmd())
}

// =============================================================================
// CALCULATE
// =============================================================================

func calculateCmd() *cobra.Command {
	var (
		punchFile  string
		month      string
		from, to   string
		level      int
		csvOut     string
		deptCSVOut string
		xlsxOut    string
	)
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate employee and department summaries from a punch file",
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := runBatch(cmd, punchFile, month, from, to)
			if err != nil {
				return err
			}

			var deptSummaries []department.Summary
			if agg, err := loadAggregator(run.rules); err != nil {
				return err
			} else if agg != nil {
				deptSummaries, err = agg.AggregateByLevel(run.summaries, level)
				if err != nil {
					return err
				}
			}

			if csvOut != "" {
				if err := writeCSV(csvOut, func(f *os.File) error {
					return fileio.WriteSummaryCSV(f, run.summaries)
				}); err != nil {
					return err
				}
				logger.Info("employee csv written", slog.String("path", csvOut))
			}
			if deptCSVOut != "" {
				if err := writeCSV(deptCSVOut, func(f *os.File) error {
					return fileio.WriteDepartmentCSV(f, deptSummaries)
				}); err != nil {
					return err
				}
				logger.Info("department csv written", slog.String("path", deptCSVOut))
			}
			if xlsxOut != "" {
				info := fileio.RunInfo{
					RunID:        runID,
					GeneratedAt:  time.Now(),
					Period:       run.period,
					RecordCount:  len(run.records),
					RejectedRows: len(run.rowErrors),
				}
				if err := fileio.WriteWorkbook(xlsxOut, run.summaries, deptSummaries, info); err != nil {
					return err
				}
				logger.Info("workbook written", slog.String("path", xlsxOut))
			}

			if viper.GetString("format") == "json" {
				return printJSON(map[string]any{
					"period":      run.period,
					"employees":   run.summaries,
					"departments": deptSummaries,
				})
			}
			renderEmployeeTable(run.summaries)
			if len(deptSummaries) > 0 {
				fmt.Println()
				renderDepartmentTable(deptSummaries)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&punchFile, "punches", "", "punch CSV file")
	cmd.Flags().StringVar(&month, "month", "", `calendar month, e.g. "2026-07"`)
	cmd.Flags().StringVar(&from, "from", "", "period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "period end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&level, "level", 0, "hierarchy level for the department rollup")
	cmd.Flags().StringVar(&csvOut, "out-csv", "", "write employee summaries to a CSV file")
	cmd.Flags().StringVar(&deptCSVOut, "out-dept-csv", "", "write department summaries to a CSV file")
	cmd.Flags().StringVar(&xlsxOut, "out-xlsx", "", "write an Excel workbook")
	_ = cmd.MarkFlagRequired("punches")
	return cmd
}

// =============================================================================
// DEPARTMENTS
// =============================================================================

func departmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "departments",
		Short: "Validate the department hierarchy and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			departments, err := config.LoadDepartments(viper.GetString("departments"))
			if err != nil {
				return err
			}
			agg, err := department.NewAggregator(departments)
			if err != nil {
				return err
			}
			all := agg.Departments()
			logger.Info("hierarchy valid", slog.Int("departments", len(all)))
			if viper.GetString("format") == "json" {
				return printJSON(all)
			}
			for _, d := range all {
				if d.IsRoot() {
					printTree(agg, d.Code, 0)
				}
			}
			return nil
		},
	}
	return cmd
}

func printTree(agg *department.Aggregator, code attendance.DepartmentCode, depth int) {
	d, ok := agg.Department(code)
	if !ok {
		return
	}
	marker := ""
	if !d.Active {
		marker = " (inactive)"
	}
	fmt.Printf("%s%s  %s%s\n", strings.Repeat("  ", depth), d.Code, d.Name, marker)
	for _, child := range agg.Children(code) {
		printTree(agg, child, depth+1)
	}
}

// =============================================================================
// COMPARE
// =============================================================================

func compareCmd() *cobra.Command {
	var (
		punchFile string
		month     string
		from, to  string
		level     int
		metricStr string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank departments at a hierarchy level",
		RunE: func(cmd *cobra.Command, args []string) error {
			metric, err := department.ParseMetric(metricStr)
			if err != nil {
				return err
			}
			run, err := runBatch(cmd, punchFile, month, from, to)
			if err != nil {
				return err
			}
			agg, err := loadAggregator(run.rules)
			if err != nil {
				return err
			}
			if agg == nil {
				return fmt.Errorf("compare needs a departments file (%s)", viper.GetString("departments"))
			}
			deptSummaries, err := agg.AggregateByLevel(run.summaries, level)
			if err != nil {
				return err
			}
			comparison, err := department.Compare(deptSummaries, metric)
			if err != nil {
				return err
			}
			if viper.GetString("format") == "json" {
				return printJSON(comparison)
			}
			renderComparison(comparison)
			return nil
		},
	}
	cmd.Flags().StringVar(&punchFile, "punches", "", "punch CSV file")
	cmd.Flags().StringVar(&month, "month", "", `calendar month, e.g. "2026-07"`)
	cmd.Flags().StringVar(&from, "from", "", "period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "period end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&level, "level", 0, "hierarchy level to rank")
	cmd.Flags().StringVar(&metricStr, "metric", string(department.MetricCompliance),
		"ranking metric: compliance, attendance_rate, overtime, average_worked")
	_ = cmd.MarkFlagRequired("punches")
	return cmd
}

// =============================================================================
// INIT
// =============================================================================

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write template rules and departments files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeTemplate(viper.GetString("rules"), config.RulesTemplate, force); err != nil {
				return err
			}
			return writeTemplate(viper.GetString("departments"), config.DepartmentsTemplate, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

func writeTemplate(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	logger.Info("template written", slog.String("path", path))
	return nil
}

// =============================================================================
// SHARED PLUMBING
// =============================================================================

type batchRun struct {
	rules     attendance.WorkRules
	period    attendance.Period
	records   []attendance.Record
	rowErrors []fileio.RowError
	summaries []attendance.Summary
}

func runBatch(cmd *cobra.Command, punchFile, month, from, to string) (*batchRun, error) {
	period, err := resolvePeriod(month, from, to)
	if err != nil {
		return nil, err
	}

	rulesPath := viper.GetString("rules")
	rules, usedDefaults, err := config.LoadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	if usedDefaults {
		logger.Warn("rules file not found, using defaults", slog.String("path", rulesPath))
	}

	records, rowErrors, err := fileio.ReadPunchCSV(punchFile)
	if err != nil {
		return nil, err
	}
	for _, re := range rowErrors {
		logger.Warn("punch row rejected", slog.Int("row", re.Row), slog.String("reason", re.Err.Error()))
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s holds no usable punch rows", punchFile)
	}

	calc, err := attendance.NewCalculator(rules)
	if err != nil {
		return nil, err
	}
	summaries, err := calc.CalculateBatch(cmd.Context(), records, period)
	if err != nil {
		return nil, err
	}
	logger.Info("batch calculated",
		slog.String("period", period.String()),
		slog.Int("records", len(records)),
		slog.Int("employees", len(summaries)))

	for _, s := range summaries {
		for _, w := range s.Warnings {
			logger.Debug("summary warning",
				slog.String("employee", string(s.EmployeeID)), slog.String("warning", w.String()))
		}
		for _, v := range s.Violations {
			logger.Warn("rule violation",
				slog.String("employee", string(s.EmployeeID)), slog.String("violation", v.String()))
		}
	}

	return &batchRun{
		rules:     rules,
		period:    period,
		records:   records,
		rowErrors: rowErrors,
		summaries: summaries,
	}, nil
}

// loadAggregator builds the hierarchy if a departments file exists. A
// missing file only disables the rollup.
func loadAggregator(rules attendance.WorkRules) (*department.Aggregator, error) {
	path := viper.GetString("departments")
	departments, err := config.LoadDepartments(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("departments file not found, skipping rollup", slog.String("path", path))
			return nil, nil
		}
		return nil, err
	}
	return department.NewAggregator(departments,
		department.WithOvertimeBaseline(rules.MonthlyOvertimeCap))
}

func resolvePeriod(month, from, to string) (attendance.Period, error) {
	switch {
	case month != "":
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return attendance.Period{}, fmt.Errorf("invalid --month %q: %w", month, err)
		}
		return attendance.MonthOf(t.Year(), t.Month()), nil
	case from != "" && to != "":
		start, err := attendance.ParseDate(from)
		if err != nil {
			return attendance.Period{}, fmt.Errorf("invalid --from: %w", err)
		}
		end, err := attendance.ParseDate(to)
		if err != nil {
			return attendance.Period{}, fmt.Errorf("invalid --to: %w", err)
		}
		return attendance.NewPeriod(start, end)
	default:
		return attendance.Period{}, fmt.Errorf("provide --month or both --from and --to")
	}
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// =============================================================================
// OUTPUT
// =============================================================================

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderEmployeeTable(summaries []attendance.Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{
		"Employee", "Name", "Dept", "Attend", "Absent", "Tardy",
		"Worked", "Sched OT", "Night", "Holiday", "Premium", "Paid Lv", "Warn", "Viol",
	})
	for _, s := range summaries {
		tw.AppendRow(table.Row{
			s.EmployeeID, s.EmployeeName, s.DepartmentCode,
			fmt.Sprintf("%d/%d", s.AttendanceDays, s.BusinessDays),
			s.AbsenceDays, s.TardyCount,
			hhmm(s.WorkedMinutes), hhmm(s.ScheduledOvertimeMinutes),
			hhmm(s.NightMinutes), hhmm(s.HolidayMinutes),
			s.Premium.Total().StringFixed(1),
			s.PaidLeaveDays.String(),
			len(s.Warnings), len(s.Violations),
		})
	}
	tw.Render()
}

func renderDepartmentTable(summaries []department.Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{
		"Dept", "Name", "Lvl", "Employees", "Worked", "Overtime",
		"Attendance", "Compliance", "Viol",
	})
	for _, s := range summaries {
		tw.AppendRow(table.Row{
			s.Code, s.Name, s.Level, s.EmployeeCount,
			hhmm(s.WorkedMinutes), hhmm(s.OvertimeMinutes),
			percent(s.AttendanceRate), s.ComplianceScore.StringFixed(1),
			s.ViolationCount,
		})
	}
	tw.Render()
}

func renderComparison(c department.Comparison) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{
		"#", "Dept", "Name", "Employees", "Compliance", "Attendance", "Overtime", "Advisories",
	})
	for _, r := range c.Ranks {
		tw.AppendRow(table.Row{
			r.Position, r.Summary.Code, r.Summary.Name, r.Summary.EmployeeCount,
			r.Summary.ComplianceScore.StringFixed(1),
			percent(r.Summary.AttendanceRate),
			hhmm(r.Summary.OvertimeMinutes),
			strings.Join(r.Advisories, "; "),
		})
	}
	tw.Render()
}

func hhmm(minutes int) string { return fmt.Sprintf("%d:%02d", minutes/60, minutes%60) }

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
