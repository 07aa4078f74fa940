// cmd/poet is the core CLI entry point built with Cobra, replacing the
// teacher's kvcli: `verify` runs the full pipeline over a trace and
// property, `parse` exercises the grammar in isolation, `serve` starts the
// HTTP verification API of internal/server.
//
// Usage:
//
//	poet verify -p property.pctl -t trace.json --output-level debug
//	poet parse -p property.pctl
//	poet serve --addr :8080
package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/moraneus/PoET/internal/config"
	"github.com/moraneus/PoET/internal/obslog"
	"github.com/moraneus/PoET/internal/parser"
	"github.com/moraneus/PoET/internal/server"
	"github.com/moraneus/PoET/internal/statemanager"
	"github.com/moraneus/PoET/internal/trace"
	"github.com/moraneus/PoET/internal/visual"
)

func main() {
	root := &cobra.Command{
		Use:   "poet",
		Short: "An offline partial-order temporal-logic trace verifier",
	}

	root.AddCommand(verifyCmd(), parseCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ─── verify ─────────────────────────────────────────────────────────────────

func verifyCmd() *cobra.Command {
	var (
		propertyPath  string
		tracePath     string
		reduce        bool
		visualize     bool
		outputLevel   string
		logFile       string
		logCategories string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a PCTL property against a trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := obslog.ParseLevel(outputLevel)
			if err != nil {
				return err
			}

			logWriter, closeLog, err := openLogFile(logFile)
			if err != nil {
				return err
			}
			defer closeLog()
			logger := obslog.NewLogger(logWriter, level, logCategories)

			propertySrc, err := os.ReadFile(propertyPath)
			if err != nil {
				return fmt.Errorf("read property file: %w", err)
			}
			formula, err := parser.Parse(string(propertySrc))
			if err != nil {
				return err
			}

			tr, err := trace.Load(tracePath)
			if err != nil {
				return err
			}

			sm := statemanager.New(tr.Processes, formula, reduce)
			sm.SetLogger(logger)
			obs := obslog.NewObservationWriter(os.Stdout, level)

			var vis visual.Visualizer = visual.Noop{}
			if visualize {
				vis = visual.DOTEmitter{W: os.Stdout}
			}

			for _, e := range tr.Events {
				_, rec, err := sm.OnEvent(e)
				if err != nil {
					return err
				}
				if err := obs.WriteEvent(rec, sm.GetMaximalFrontiers()); err != nil {
					return err
				}
			}

			if err := vis.Render(sm.Frontiers()); err != nil {
				return fmt.Errorf("render visualization: %w", err)
			}

			return obs.WriteSummary(sm.Stats())
		},
	}

	cmd.Flags().StringVarP(&propertyPath, "property", "p", "", "path to the property file (required)")
	cmd.Flags().StringVarP(&tracePath, "trace", "t", "", "path to the trace file (required)")
	cmd.Flags().BoolVarP(&reduce, "reduce", "r", false, "enable the reduction policy")
	cmd.Flags().BoolVarP(&visualize, "visual", "v", false, "emit a Graphviz DOT rendering of the frontier DAG")
	cmd.Flags().StringVar(&outputLevel, "output-level", "default", "nothing|experiment|default|max_state|debug")
	cmd.Flags().StringVar(&logFile, "log-file", "", "path to write diagnostic logs to (default stderr)")
	cmd.Flags().StringVar(&logCategories, "log-categories", "", "comma-separated diagnostic categories, or \"none\"")
	cmd.MarkFlagRequired("property")
	cmd.MarkFlagRequired("trace")

	return cmd
}

// ─── parse ──────────────────────────────────────────────────────────────────

func parseCmd() *cobra.Command {
	var propertyPath string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a property file and pretty-print its AST",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(propertyPath)
			if err != nil {
				return fmt.Errorf("read property file: %w", err)
			}
			formula, err := parser.Parse(string(src))
			if err != nil {
				return err
			}
			fmt.Println(formula.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&propertyPath, "property", "p", "", "path to the property file (required)")
	cmd.MarkFlagRequired("property")

	return cmd
}

// ─── serve ──────────────────────────────────────────────────────────────────

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP verification API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			r := gin.New()
			r.Use(server.Logger(), server.Recovery())
			api := server.NewAPI()
			api.SetupRoutes(r)

			fmt.Printf("starting poet verification service on %s\n", cfg.Addr)
			return r.Run(cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides POET_ADDR)")
	return cmd
}

// ─── helpers ────────────────────────────────────────────────────────────────

func openLogFile(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
