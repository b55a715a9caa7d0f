// Thermometer renders fundraising progress as a row of ten thermometer
// gauges, one per million committed.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/seenimoa/thermometer/api"
	"github.com/seenimoa/thermometer/internal/batch"
	"github.com/seenimoa/thermometer/internal/config"
	"github.com/seenimoa/thermometer/internal/funding"
	"github.com/seenimoa/thermometer/internal/layout"
	"github.com/seenimoa/thermometer/internal/logging"
	"github.com/seenimoa/thermometer/internal/render"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set in PersistentPreRunE.
var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "thermometer",
	Short: "Render fundraising progress as ten thermometer gauges",
	Long: `Thermometer reads a funding document (goal, label and up to ten
segment amounts) and draws one gauge per million committed, as SVG or PNG.

Running without a subcommand is the same as "thermometer render".`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runRender,
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	logger, err = logging.New(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	funding.SetLogger(logger)
	if cfg.Logging.Level == "debug" {
		gg.SetLogger(logger)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	addRenderFlags(rootCmd)
	addRenderFlags(renderCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "funding document, .json or .hjson (default from io.input)")
	cmd.Flags().StringP("output", "o", "", "output file (default from io.output)")
	cmd.Flags().StringP("format", "f", "", "svg or png (default: output extension)")
}

// stringFlag returns the flag value if it was set, else fallback.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "thermometer %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", date)
	},
}

// --- Render Command ---

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one funding document to SVG or PNG",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	input := stringFlag(cmd, "input", cfg.IO.Input)
	output := stringFlag(cmd, "output", cfg.IO.Output)

	var format render.Format
	if f := stringFlag(cmd, "format", cfg.IO.Format); f != "" {
		var err error
		if format, err = render.ParseFormat(f); err != nil {
			return err
		}
	}

	data, err := funding.LoadFile(input)
	if err != nil {
		return err
	}
	logger.Debug("normalized input", "input", input, "label", data.Label, "goal", data.Goal, "total", data.Total())

	l, err := render.RenderFile(output, cfg.Style(), data, format)
	if err != nil {
		return err
	}
	logger.Info("rendered", "input", input, "output", output, "total", l.Total, "goal", l.Goal, "percent", l.Percent)
	return nil
}

// --- Layout Command ---

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the computed layout as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := stringFlag(cmd, "input", cfg.IO.Input)
		data, err := funding.LoadFile(input)
		if err != nil {
			return err
		}
		style := cfg.Style()
		if err := style.Validate(); err != nil {
			return fmt.Errorf("invalid style: %w", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(layout.Compute(style, data))
	},
}

func init() {
	layoutCmd.Flags().StringP("input", "i", "", "funding document (default from io.input)")
}

// --- Batch Command ---

var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Render many funding documents concurrently",
	Long: `Render every input file into --out-dir, naming each output after its
input. At most render.concurrency files are rendered at once; the first
failure stops the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out-dir")
		format, err := render.ParseFormat(stringFlag(cmd, "format", string(render.FormatSVG)))
		if err != nil {
			return err
		}
		concurrency := cfg.Render.Concurrency
		if cmd.Flags().Changed("concurrency") {
			concurrency, _ = cmd.Flags().GetInt("concurrency")
		}

		jobs, err := batch.Plan(args, outDir, format)
		if err != nil {
			return err
		}
		runner := &batch.Runner{
			Style:       cfg.Style(),
			Format:      format,
			Concurrency: concurrency,
			Logger:      logger,
		}
		results, err := runner.Run(cmd.Context(), jobs)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%-40s %3d%%  %s\n", r.Label, r.Percent, r.Output)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().String("out-dir", ".", "directory for rendered files")
	batchCmd.Flags().StringP("format", "f", "svg", "svg or png")
	batchCmd.Flags().Int("concurrency", 0, "parallel renders (default from render.concurrency)")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("host") {
			cfg.API.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.API.Port, _ = cmd.Flags().GetInt("port")
		}

		srv, err := api.NewServer(cfg, logger, version)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(cmd.Context(), cfg.API.Addr())
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (default from api.host)")
	serveCmd.Flags().Int("port", 0, "listen port (default from api.port)")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and style summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		style := cfg.Style()

		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintln(out, "  Thermometer — Status")
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  Render:")
		fmt.Fprintf(out, "    Canvas:        %dx%d (bar %d, gap %d)\n", style.BaseWidth, style.Height, style.BarWidth, style.Gap)
		fmt.Fprintf(out, "    Fill:          %s %s\n", style.FillMode, style.FillColor)
		fmt.Fprintf(out, "    Labels:        %s every %d\n", style.LabelMode, style.LabelEvery)
		fmt.Fprintf(out, "    Bulbs:         %s\n", style.BulbMode)
		if err := style.Validate(); err != nil {
			fmt.Fprintf(out, "    Style:         invalid: %v\n", err)
		} else {
			fmt.Fprintf(out, "    Style:         ok (bar height %d px)\n", style.BarHeight())
		}
		fmt.Fprintf(out, "    Concurrency:   %d\n", cfg.Render.Concurrency)
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  IO:")
		fmt.Fprintf(out, "    Input:         %s\n", cfg.IO.Input)
		fmt.Fprintf(out, "    Output:        %s\n", cfg.IO.Output)
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  API:")
		fmt.Fprintf(out, "    Listen:        %s\n", cfg.API.Addr())
		fmt.Fprintf(out, "    Cache TTL:     %s\n", cfg.API.CacheDuration())
		fmt.Fprintf(out, "    Rate limit:    %d per %ds\n", cfg.API.RateLimit, cfg.API.RateWindow)
		for _, s := range config.CheckSecrets(cfg) {
			status := "not set"
			if s.IsSet {
				status = fmt.Sprintf("set (%s: %s)", s.Source, s.Masked)
			}
			fmt.Fprintf(out, "    %-14s %s\n", s.Name+":", status)
		}

		fmt.Fprintln(out, "═══════════════════════════════════════")
		return nil
	},
}
