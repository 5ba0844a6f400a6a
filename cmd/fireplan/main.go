package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ktanaka/fireplan/internal/calculation"
	"github.com/ktanaka/fireplan/internal/config"
	"github.com/ktanaka/fireplan/internal/domain"
	"github.com/ktanaka/fireplan/internal/output"
	"github.com/ktanaka/fireplan/internal/tui"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "fireplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "fireplan",
	Short: "Household FIRE projection CLI",
	Long:  "Financial independence projection and Monte Carlo analysis for household plans",
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [plan-file]",
	Short: "Run the deterministic FIRE projection",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := loadPlan(args[0])

		calc := calculation.NewFireCalculator()
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			calc.Logger = simpleCLILogger{}
		}

		result, err := calc.Calculate(context.Background(), &input.FireCalculationInput)
		if err != nil {
			log.Fatal(err)
		}

		report := output.NewReport(result, nil, config.ExpenseCoverageGaps(&input.FireCalculationInput))
		emitReport(cmd, report)
	},
}

var monteCarloCmd = &cobra.Command{
	Use:   "montecarlo [plan-file]",
	Short: "Run the stochastic Monte Carlo analysis",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := loadPlan(args[0])
		applyMonteCarloFlags(cmd, input)

		engine := calculation.NewMonteCarloEngine()
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			engine.Logger = simpleCLILogger{}
			engine.Fire.Logger = simpleCLILogger{}
		}

		ctx := context.Background()
		result, err := engine.Fire.Calculate(ctx, &input.FireCalculationInput)
		if err != nil {
			log.Fatal(err)
		}
		bands, err := engine.Run(ctx, input)
		if err != nil {
			log.Fatal(err)
		}

		report := output.NewReport(result, bands, config.ExpenseCoverageGaps(&input.FireCalculationInput))
		emitReport(cmd, report)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := loadPlan(args[0])

		fmt.Printf("Plan file %s is valid\n", args[0])
		for _, gap := range config.ExpenseCoverageGaps(&input.FireCalculationInput) {
			fmt.Printf("warning: no expense segment covers %s\n", gap)
		}
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui [plan-file]",
	Short: "Explore a plan interactively",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := tui.Run(args[0]); err != nil {
			log.Fatal(err)
		}
	},
}

func loadPlan(path string) *domain.MonteCarloInput {
	parser := config.NewInputParser()
	input, err := parser.LoadFromFile(path)
	if err != nil {
		log.Fatal(err)
	}
	return input
}

// applyMonteCarloFlags overlays command-line settings onto the plan's own
// Monte Carlo section. Flags the user did not set leave the plan untouched.
func applyMonteCarloFlags(cmd *cobra.Command, input *domain.MonteCarloInput) {
	if cmd.Flags().Changed("simulations") {
		input.Simulations, _ = cmd.Flags().GetInt("simulations")
	}
	if cmd.Flags().Changed("return-volatility") {
		v, _ := cmd.Flags().GetFloat64("return-volatility")
		input.ReturnVolatility = decimal.NewFromFloat(v)
	}
	if cmd.Flags().Changed("inflation-volatility") {
		v, _ := cmd.Flags().GetFloat64("inflation-volatility")
		input.InflationVolatility = decimal.NewFromFloat(v)
	}
	if cmd.Flags().Changed("sequence-risk") {
		input.SequenceOfReturnsRisk, _ = cmd.Flags().GetBool("sequence-risk")
	}
	if cmd.Flags().Changed("seed") {
		input.Seed, _ = cmd.Flags().GetInt64("seed")
	}
}

// emitReport formats the report and either prints it or, for binary formats
// and --output, writes a file.
func emitReport(cmd *cobra.Command, report *output.Report) {
	outputFormat, _ := cmd.Flags().GetString("format")
	toFile, _ := cmd.Flags().GetBool("output")

	f := output.GetFormatterByName(outputFormat)
	if f == nil {
		log.Fatalf("Unknown output format: %s (valid: %v)", outputFormat, output.AvailableFormatterNames())
	}

	if toFile || f.Name() == "chart" {
		filename, err := output.WriteFormatted(f, report)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Report written to %s\n", filename)
		return
	}

	data, err := f.Format(report)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(data))
}

func init() {
	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv, chart)")
	calculateCmd.Flags().BoolP("output", "o", false, "Write the report to a timestamped file instead of stdout")
	calculateCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	monteCarloCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv, chart)")
	monteCarloCmd.Flags().BoolP("output", "o", false, "Write the report to a timestamped file instead of stdout")
	monteCarloCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	monteCarloCmd.Flags().IntP("simulations", "n", 0, "Number of trials (clamped to 100-10000)")
	monteCarloCmd.Flags().Float64("return-volatility", 0, "Annual return volatility in percent (clamped to 0-50)")
	monteCarloCmd.Flags().Float64("inflation-volatility", 0, "Annual inflation volatility in percent (clamped to 0-10)")
	monteCarloCmd.Flags().Bool("sequence-risk", false, "Stress the first five retirement years by one sigma")
	monteCarloCmd.Flags().Int64("seed", 0, "Random seed for reproducible runs (0 = time-based)")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(monteCarloCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
