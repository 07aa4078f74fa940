// cmd/poetctl is a thin CLI client for `poet serve`, adapted directly from
// the teacher's cmd/client: the same persistent --server/--timeout flags,
// the same per-subcommand RunE shape, the same prettyPrint helper — with
// put/get/delete/cluster replaced by submit/status against
// internal/poetclient.
//
// Usage:
//
//	poetctl submit -p property.pctl -t trace.json --server http://localhost:8080
//	poetctl status 1 --server http://localhost:8080
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/moraneus/PoET/internal/poetclient"
)

var (
	serverAddr string
	timeout    time.Duration
)

func main() {
	root := &cobra.Command{
		Use:   "poetctl",
		Short: "CLI client for a running poet serve instance",
	}

	root.PersistentFlags().StringVarP(&serverAddr, "server", "s",
		"http://localhost:8080", "poet serve address")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second,
		"HTTP request timeout")

	root.AddCommand(submitCmd(), statusCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ─── submit ─────────────────────────────────────────────────────────────────

func submitCmd() *cobra.Command {
	var propertyPath, tracePath string
	var reduce bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a property and trace for verification",
		RunE: func(cmd *cobra.Command, args []string) error {
			propertySrc, err := os.ReadFile(propertyPath)
			if err != nil {
				return err
			}
			traceSrc, err := os.ReadFile(tracePath)
			if err != nil {
				return err
			}

			c := poetclient.New(serverAddr, timeout)
			run, err := c.Submit(context.Background(), string(propertySrc), string(traceSrc), reduce)
			if err != nil {
				return err
			}
			prettyPrint(run)
			return nil
		},
	}

	cmd.Flags().StringVarP(&propertyPath, "property", "p", "", "path to the property file (required)")
	cmd.Flags().StringVarP(&tracePath, "trace", "t", "", "path to the trace file (required)")
	cmd.Flags().BoolVarP(&reduce, "reduce", "r", false, "enable the reduction policy")
	cmd.MarkFlagRequired("property")
	cmd.MarkFlagRequired("trace")

	return cmd
}

// ─── status ─────────────────────────────────────────────────────────────────

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <run-id>",
		Short: "Retrieve a previously submitted run by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			c := poetclient.New(serverAddr, timeout)
			run, err := c.Status(context.Background(), id)
			if err == poetclient.ErrNotFound {
				fmt.Printf("run %d not found\n", id)
				return nil
			}
			if err != nil {
				return err
			}
			prettyPrint(run)
			return nil
		},
	}
}

// ─── helpers ────────────────────────────────────────────────────────────────

func prettyPrint(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(data))
}
