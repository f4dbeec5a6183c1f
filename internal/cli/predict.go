package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/betthink/internal/model"
	"github.com/ppiankov/betthink/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	sportName    string
	homeTeam     string
	awayTeam     string
	matchContext string
	outJSON      string
	outMD        string
	timeout      time.Duration
	noFooter     bool
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the outcome of a single match",
	Long: `Predict asks the configured model to research one match and returns:
- One prediction per betting category for the sport, with a confidence percentage
- The model's free-text reasoning
- The web sources it cited (optionally checked for reachability)

Example:
  betthink predict --home Arsenal --away Chelsea
  betthink predict --sport tennis --home Sinner --away Alcaraz --context "clay, best of 5"
  betthink predict --home Arsenal --away Chelsea --json report.json --md report.md`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)

	// Match flags
	predictCmd.Flags().StringVarP(&sportName, "sport", "s", "", "sport (default: Football)")
	predictCmd.Flags().StringVar(&homeTeam, "home", "", "home team name (required)")
	predictCmd.Flags().StringVar(&awayTeam, "away", "", "away team name (required)")
	predictCmd.Flags().StringVarP(&matchContext, "context", "c", "", "additional context passed verbatim to the model")

	// Output flags
	predictCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	predictCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	predictCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	predictCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall timeout")

	// Feature flags
	predictCmd.Flags().Bool("verify-sources", false, "check that cited sources are reachable")
	predictCmd.Flags().Bool("cache", false, "reuse a cached report for an identical query")
	_ = viper.BindPFlag("sources.verify", predictCmd.Flags().Lookup("verify-sources"))
	_ = viper.BindPFlag("cache.enabled", predictCmd.Flags().Lookup("cache"))

	_ = predictCmd.MarkFlagRequired("home")
	_ = predictCmd.MarkFlagRequired("away")
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	sport, err := model.ParseSport(sportName)
	if err != nil {
		return err
	}
	query := model.MatchQuery{
		Sport:             sport,
		HomeTeamName:      homeTeam,
		AwayTeamName:      awayTeam,
		AdditionalContext: matchContext,
	}
	if err := query.Validate(); err != nil {
		return err
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s (%s)\n", query.Title(), sport)
		fmt.Fprintf(os.Stderr, "Provider: %s\n", analyzer.Provider().Name())
		fmt.Fprintf(os.Stderr, "Timeout: %v\n\n", timeout)
	}

	report, err := analyzer.Analyze(ctx, query)
	if err != nil {
		if errors.Is(err, pipeline.ErrAnalysisFailed) {
			// Already the user-facing message
			return err
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if err := renderer.WriteSummary(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if outJSON != "" || outMD != "" {
		if err := renderer.RenderReport(report, outJSON, outMD, cfg.Output.Verbose); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}

	return nil
}
