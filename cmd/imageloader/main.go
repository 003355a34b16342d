package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vango-dev/imageloader/internal/config"
	"github.com/vango-dev/imageloader/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	noColor    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "imageloader",
		Short: "Load images and render their loading state",
		Long: `imageloader loads images from HTTP, files or object storage and
renders one of three views for each: the image once loaded, a failure
view, or a pending view while the transfer runs.

Commands:
  • probe   load images once and print the rendered markup
  • serve   run the preview server with live status updates`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				errors.DisableColors()
				styles.disable()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file (default: ./imageloader.{yaml,toml,json} when present)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		probeCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig reads the config file and environment, with command line
// flags taking precedence.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	v := config.NewViper(flags.configPath)
	if f := cmd.Root().PersistentFlags().Lookup("log-level"); f != nil && f.Changed {
		if err := v.BindPFlag("log.level", f); err != nil {
			return nil, err
		}
	}
	return config.LoadViper(v, flags.configPath != "")
}

// newLogger builds the text logger for cfg. Logs go to stderr so command
// output stays clean.
func newLogger(cfg *config.Config) *slog.Logger {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// outputStyles are the terminal styles for command output.
type outputStyles struct {
	title   lipgloss.Style
	subtle  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	pending lipgloss.Style
	loading lipgloss.Style
	markup  lipgloss.Style
}

var styles = newOutputStyles()

func newOutputStyles() *outputStyles {
	return &outputStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("62")).Padding(0, 1),
		subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		pending: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		loading: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		markup:  lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("244")),
	}
}

// disable drops colors and decoration from every style.
func (s *outputStyles) disable() {
	plain := lipgloss.NewStyle()
	*s = outputStyles{
		title:   plain,
		subtle:  plain,
		success: plain,
		failure: plain,
		pending: plain,
		loading: plain,
		markup:  plain.PaddingLeft(4),
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", styles.success.Render("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", styles.failure.Render("✗"), fmt.Sprintf(format, args...))
}
