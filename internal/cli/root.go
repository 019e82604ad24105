// Package cli defines the annotate command tree.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/annotate/internal/adapters/prompt"
	"github.com/example/annotate/internal/app"
	"github.com/example/annotate/internal/config"
	"github.com/example/annotate/internal/core/annotation"
	"github.com/example/annotate/internal/ports/secondary"
	"github.com/example/annotate/internal/version"
	"github.com/example/annotate/internal/wire"
)

// ExitFailure is the process exit code for any failed command.
const ExitFailure = -1

// App is one invocation of the annotate command.
type App struct {
	streams   wire.Streams
	root      *cobra.Command
	container *wire.Container
}

// New creates the command tree writing to streams.
func New(streams wire.Streams) *App {
	a := &App{streams: streams}
	a.root = a.newRootCmd()
	return a
}

// Root returns the root command.
func (a *App) Root() *cobra.Command {
	return a.root
}

func (a *App) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "annotate",
		Short:   "Manage nio service annotations",
		Version: version.String(),
		Long: `annotate inspects and edits the annotations drawn over nio services:
their position, target block, size, alignment and text content.

Commands that need a service or annotation ask for one interactively
when --service or --index is omitted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			c, err := wire.New(cfg, a.streams)
			if err != nil {
				return err
			}
			a.container = c
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.container != nil {
				_ = a.container.Logger.Sync()
			}
		},
	}
	cmd.SetIn(a.streams.In)
	cmd.SetOut(a.streams.Out)
	cmd.SetErr(a.streams.Err)

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(a.servicesCmd())
	cmd.AddCommand(a.listCmd())
	cmd.AddCommand(a.showCmd())
	cmd.AddCommand(a.addCmd())
	cmd.AddCommand(a.updateCmd())
	cmd.AddCommand(a.setContentCmd())
	cmd.AddCommand(a.replaceCmd())
	cmd.AddCommand(a.deleteCmd())
	cmd.AddCommand(a.clearCmd())
	cmd.AddCommand(a.doctorCmd())

	return cmd
}

// Execute runs the command line args and reports any error. It returns the
// process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	a.root.SetArgs(args)
	if err := a.root.ExecuteContext(ctx); err != nil {
		a.report(err)
		return ExitFailure
	}
	return 0
}

// report prints the generic failure banner. The underlying error is shown
// only in verbose mode, unless it tells the operator how to proceed.
func (a *App) report(err error) {
	verbose := a.verbose()

	if errors.Is(err, secondary.ErrCancelled) && !verbose {
		return
	}

	color.New(color.FgRed).Fprintln(a.streams.Err, "An error has occurred...")
	if verbose || a.container == nil || isGuidance(err) {
		fmt.Fprintln(a.streams.Err, err)
	}
}

func (a *App) verbose() bool {
	if a.container != nil {
		return a.container.Config.Verbose
	}
	v, _ := a.root.PersistentFlags().GetBool(config.FlagVerbose)
	return v
}

// isGuidance reports whether err tells the operator how to fix the invocation.
func isGuidance(err error) bool {
	return errors.Is(err, app.ErrServiceSelectionUnavailable) ||
		errors.Is(err, app.ErrNoAnnotations) ||
		errors.Is(err, annotation.ErrIndexOutOfRange) ||
		errors.Is(err, prompt.ErrNoInput)
}
