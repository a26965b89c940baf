// Command healthsync-cli talks to a running healthsync server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"healthsync/common/logger"
	"healthsync/internal/client"
)

const defaultServer = "http://localhost:8080"

// cli holds the state shared by every subcommand
type cli struct {
	server  string
	asJSON  bool
	verbose bool

	out    io.Writer
	api    *client.Client
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "healthsync-cli",
		Short:         "Command line client for the healthsync patient portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if c.verbose {
				level = "debug"
			}
			l, err := logger.NewLogger(level, "console", "healthsync-cli")
			if err != nil {
				return err
			}
			c.logger = l
			c.api = client.New(c.server, l)
			return nil
		},
	}

	server := os.Getenv("HEALTHSYNC_SERVER")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&c.server, "server", server, "healthsync server URL (env HEALTHSYNC_SERVER)")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print raw JSON")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log HTTP calls")

	root.AddCommand(
		c.loginCmd(),
		c.biometricCmd(),
		c.doctorsCmd(),
		c.appointmentsCmd(),
		c.reportsCmd(),
		c.deviceCmd(),
		c.dashboardCmd(),
	)
	return root
}

// printJSON writes v indented
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes a header row and rows, column aligned
func (c *cli) table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	writeRow(tw, header)
	for _, r := range rows {
		writeRow(tw, r)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cols []string) {
	for i, col := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
}
