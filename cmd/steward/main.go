// Command steward inspects and serves access decisions over a CRM
// database or a YAML fixture.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "steward:", err)
		stop()
		os.Exit(1)
	}
}

// cli carries the persistent flags and the runtime built from them.
type cli struct {
	configPath string
	envFile    string
	output     string
	tenant     string
	user       string

	rt *runtime
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "steward",
		Short:         "Role classification, scope and visibility filters for a multi-tenant CRM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.output != "text" && c.output != "json" {
				return fmt.Errorf("--output must be text or json, got %q", c.output)
			}
			cfg, err := loadConfig(c.configPath, c.envFile)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c.rt = rt
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c.rt != nil {
				c.rt.Close()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", os.Getenv(envPrefix+"_CONFIG"), "YAML config file (env STEWARD_CONFIG)")
	pf.StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	pf.StringVarP(&c.output, "output", "o", "text", "output format: text|json")
	pf.StringVarP(&c.tenant, "tenant", "t", "", "tenant to evaluate in")

	root.AddCommand(
		c.classifyCmd(),
		c.scopeCmd(),
		c.filterCmd(),
		c.canCmd(),
		c.accessCmd(),
		c.teamCmd(),
		c.explainCmd(),
		c.serveCmd(),
	)
	return root
}
