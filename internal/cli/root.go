package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tejaswankalluri/portclean/internal/config"
	"github.com/tejaswankalluri/portclean/internal/history"
	"github.com/tejaswankalluri/portclean/internal/platform"
	"github.com/tejaswankalluri/portclean/internal/port"
	"github.com/tejaswankalluri/portclean/internal/process"
	"github.com/tejaswankalluri/portclean/internal/run"
)

var (
	// Set via ldflags at build time.
	version = "dev"

	forceFlag  bool
	allFlag    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "portclean <port|start-end>...",
	Short: "Find and kill processes bound to network ports",
	Long: `portclean locates the processes listening on the given ports or port
ranges and terminates them, asking for confirmation unless told not to.

Examples:
  portclean 3000
  portclean 3000-3005 8080
  portclean -f 3000        # kill without asking
  portclean -a 3000        # one confirmation for all processes on the port`,
	Version:      version,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runRoot,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("portclean %s\n", version))
	rootCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Kill without any confirmation")
	rootCmd.Flags().BoolVarP(&allFlag, "all", "a", false, "Confirm once per port instead of once per process")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	rootCmd.AddCommand(historyCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	ports, parseErrs := port.ParseTokens(args)
	for _, msg := range parseErrs {
		fmt.Fprintln(os.Stderr, msg)
	}
	if len(ports) == 0 {
		return fmt.Errorf("no valid ports to act on")
	}

	plat, err := platform.Detect()
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	runner := &port.RealCmdRunner{}

	styles := run.PlainStyles()
	if cfg.ColorEnabled && isatty.IsTerminal(os.Stdout.Fd()) {
		styles = run.ColorStyles()
	}

	// The journal is a convenience; a broken home directory must not
	// stop the run.
	var store *history.Store
	if s, err := history.NewStore(); err == nil {
		store = s
	}

	c := &run.Controller{
		Scanner:  port.NewScanner(plat, runner),
		Killer:   process.NewRealKiller(runner, cfg.ProtectedPIDs),
		Prompter: run.NewStdinPrompter(os.Stdin, os.Stdout, cfg.PromptDefault == "yes"),
		Out:      os.Stdout,
		Errout:   os.Stderr,
		Opts:     run.Options{Force: forceFlag, All: allFlag},
		Styles:   styles,
		History:  store,
	}
	c.Run(cmd.Context(), ports)
	return nil
}
