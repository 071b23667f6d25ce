// health.go implements the "caremate health" command family.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caremate-dev/caremate/internal/health"
)

var (
	metricValue     float64
	metricSystolic  float64
	metricDiastolic float64
	metricUnit      string
	metricNotes     string
	summaryDays     int
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Track health metrics",
	RunE:  runHealthList,
}

var healthListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged metrics",
	RunE:  runHealthList,
}

var healthLogCmd = &cobra.Command{
	Use:   "log <type>",
	Short: "Log a metric reading",
	Long: `Log a metric reading. Types: blood_pressure, heart_rate, weight,
blood_sugar, temperature, oxygen_level. Blood pressure takes --systolic and
--diastolic instead of --value.`,
	Args: cobra.ExactArgs(1),
	RunE: runHealthLog,
}

var healthSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show per-type aggregates",
	RunE:  runHealthSummary,
}

var healthAlertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show abnormal-reading alerts",
	RunE:  runHealthAlerts,
}

func init() {
	healthLogCmd.Flags().Float64Var(&metricValue, "value", 0, "Metric value")
	healthLogCmd.Flags().Float64Var(&metricSystolic, "systolic", 0, "Systolic pressure (blood_pressure only)")
	healthLogCmd.Flags().Float64Var(&metricDiastolic, "diastolic", 0, "Diastolic pressure (blood_pressure only)")
	healthLogCmd.Flags().StringVar(&metricUnit, "unit", "", "Unit of measure")
	healthLogCmd.Flags().StringVar(&metricNotes, "notes", "", "Free-form notes")
	healthSummaryCmd.Flags().IntVar(&summaryDays, "days", 7, "Window in days")

	healthCmd.AddCommand(healthListCmd)
	healthCmd.AddCommand(healthLogCmd)
	healthCmd.AddCommand(healthSummaryCmd)
	healthCmd.AddCommand(healthAlertsCmd)
}

func runHealthList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Health"); err != nil {
		return err
	}

	metrics, err := app.Health.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", app.Health.LastError())
	}

	if len(metrics) == 0 {
		fmt.Println("No metrics logged.")
		return nil
	}
	for _, m := range metrics {
		fmt.Printf("  %-5s  %-15s  %s  %s\n", m.ID, m.Type, formatReading(m), m.Timestamp)
	}
	return nil
}

func runHealthLog(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Health"); err != nil {
		return err
	}

	req := health.LogRequest{
		MetricType: args[0],
		Unit:       metricUnit,
		Notes:      metricNotes,
	}
	if args[0] == health.MetricBloodPressure {
		if metricSystolic == 0 || metricDiastolic == 0 {
			return fmt.Errorf("blood_pressure requires --systolic and --diastolic")
		}
		req.Systolic = &metricSystolic
		req.Diastolic = &metricDiastolic
		if req.Unit == "" {
			req.Unit = "mmHg"
		}
	} else {
		req.Value = &metricValue
	}

	metric, err := app.Health.Log(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("%s", app.Health.LastError())
	}

	fmt.Printf("Logged %s (%s)\n", metric.Type, formatReading(*metric))
	return nil
}

func runHealthSummary(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Health"); err != nil {
		return err
	}

	summaries, err := app.Health.Summaries(cmd.Context(), summaryDays)
	if err != nil {
		return fmt.Errorf("%s", app.Health.LastError())
	}

	if len(summaries) == 0 {
		fmt.Println("No data in the selected window.")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("  %-15s  n=%d", s.Type, s.Count)
		if s.Average != nil {
			fmt.Printf("  avg=%.1f", *s.Average)
		}
		if s.Min != nil && s.Max != nil {
			fmt.Printf("  range=%.1f-%.1f", *s.Min, *s.Max)
		}
		if s.Unit != "" {
			fmt.Printf(" %s", s.Unit)
		}
		fmt.Println()
	}
	return nil
}

func runHealthAlerts(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Health"); err != nil {
		return err
	}

	alerts, err := app.Health.Alerts(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", app.Health.LastError())
	}

	if len(alerts) == 0 {
		fmt.Println("No health alerts.")
		return nil
	}
	for _, a := range alerts {
		fmt.Printf("  [%s] %s: %s\n", a.Severity, a.Type, a.Message)
	}
	return nil
}

func formatReading(m health.Metric) string {
	if m.Type == health.MetricBloodPressure && m.Systolic != nil && m.Diastolic != nil {
		return fmt.Sprintf("%.0f/%.0f %s", *m.Systolic, *m.Diastolic, m.Unit)
	}
	if m.Value != nil {
		return fmt.Sprintf("%.1f %s", *m.Value, m.Unit)
	}
	return "-"
}
