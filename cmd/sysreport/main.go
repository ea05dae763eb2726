package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sysreport-dev/sysreport/internal/collect"
	"github.com/sysreport-dev/sysreport/internal/config"
	"github.com/sysreport-dev/sysreport/internal/install"
	"github.com/sysreport-dev/sysreport/internal/logging"
	"github.com/sysreport-dev/sysreport/internal/probe"
	"github.com/sysreport-dev/sysreport/internal/render"
)

var (
	version = "1.0.0"

	cfgFile string
	verbose bool

	flagASCII   bool
	flagJSON    bool
	flagTitle   string
	flagNoColor bool
	flagFast    bool

	flagPurge bool
)

var rootCmd = &cobra.Command{
	Use:   "sysreport",
	Short: "One-shot machine report",
	Long:  `sysreport collects a machine snapshot and prints it as a table or JSON document`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd)
	},
	SilenceUsage: true,
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Add the sysreport alias and login auto-run to the shell profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		binary, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve binary path: %w", err)
		}
		return install.New(binary).Install()
	},
	SilenceUsage: true,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the shell profile integration",
	RunE: func(cmd *cobra.Command, args []string) error {
		binary, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve binary path: %w", err)
		}
		return install.New(binary).Uninstall(flagPurge)
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sysreport v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is sysreport.yaml in the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.Flags().BoolVar(&flagASCII, "ascii", false, "draw the table with ASCII characters")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "print the report as JSON")
	rootCmd.Flags().StringVar(&flagTitle, "title", "", "override the report title")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable ANSI color")
	rootCmd.Flags().BoolVar(&flagFast, "fast", false, "skip slow probes and delta sampling")

	uninstallCmd.Flags().BoolVar(&flagPurge, "purge", false, "also remove the installed binary")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runReport(cmd *cobra.Command) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logging.Init("text", level, nil)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)

	enableConsoleUTF8()

	mode := collect.Full
	if cfg.Fast {
		mode = collect.Fast
	}

	orch := collect.NewOrchestrator(probe.ForOS(runtime.GOOS, probe.NewRunner()))
	snap, err := orch.Collect(context.Background(), mode)
	if err != nil {
		return err
	}

	var out string
	if cfg.Format == "json" {
		out, err = render.JSON(snap)
		if err != nil {
			return err
		}
	} else {
		out = render.Report(snap, render.Options{
			Title:    cfg.Title,
			Subtitle: cfg.Subtitle,
			ASCII:    cfg.ASCII,
			NoColor:  cfg.NoColor || !stdoutIsTerminal(),
		})
	}

	_, err = fmt.Print(out)
	return err
}

// applyFlags layers explicitly set CLI flags over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("ascii") {
		cfg.ASCII = flagASCII
	}
	if cmd.Flags().Changed("no-color") {
		cfg.NoColor = flagNoColor
	}
	if cmd.Flags().Changed("fast") {
		cfg.Fast = flagFast
	}
	if cmd.Flags().Changed("title") {
		cfg.Title = flagTitle
	}
	if cmd.Flags().Changed("json") && flagJSON {
		cfg.Format = "json"
	}
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
