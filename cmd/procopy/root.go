package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"procopy/internal/app"
	"procopy/internal/config"
	"procopy/internal/domain"
	"procopy/internal/infra/fs"
	"procopy/internal/logging"
	"procopy/internal/presentation"
	"procopy/internal/rules"
	"procopy/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagSource    string
	flagDest      string
	flagTimestamp bool
	flagVerbose   bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "procopy",
		Short:   "Selectively copy a project tree, excluding configured folders",
		Long:    "procopy walks a source folder, skips excluded folders such as .git and node_modules, and copies everything else to a destination. Run without a subcommand for the interactive UI.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: "+config.DefaultPath()+")")
	root.PersistentFlags().StringVarP(&flagSource, "source", "s", "", "source folder (overrides config)")
	root.PersistentFlags().StringVarP(&flagDest, "dest", "d", "", "destination folder (overrides config)")
	root.PersistentFlags().BoolVarP(&flagTimestamp, "timestamp", "t", false, "append a timestamp to the destination folder")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newPlanCmd(), newCopyCmd(), newRulesCmd())
	return root
}

// loadState assembles store, effective config and rule set for one invocation.
func loadState(cmd *cobra.Command, logger logging.Logger) (config.Store, config.Config, *rules.Set) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	store := config.Store{Path: path, Logger: logger}
	cfg := store.Load()

	if flagSource != "" {
		cfg.SourceDir = flagSource
	}
	if flagDest != "" {
		cfg.DestDir = flagDest
	}
	if cmd.Flags().Changed("timestamp") {
		cfg.AppendTimestamp = flagTimestamp
	}

	set := rules.New(cfg.ExcludedExact, cfg.ExcludedPrefix, cfg.ExcludedGlob)
	return store, cfg, set
}

func runTUI(cmd *cobra.Command) error {
	// The TUI owns the terminal; engine logging stays silent.
	store, cfg, set := loadState(cmd, logging.Nop())
	session := &app.Session{FS: fs.OSFS{}, Logger: logging.Nop()}

	model := tui.NewModel(session, store, cfg, set)
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func newPlanCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build and print the copy plan without copying anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(os.Stderr, flagVerbose)
			_, cfg, set := loadState(cmd, logger)

			plan, err := buildPlan(cfg, set, full, logger)
			if err != nil {
				return err
			}

			printer := presentation.Printer{Writer: os.Stdout, Verbose: flagVerbose}
			printer.PrintPlan(plan)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "ignore exclusion rules")
	return cmd
}

func newCopyCmd() *cobra.Command {
	var full, yes bool
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Build the copy plan and execute it",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(os.Stderr, flagVerbose)
			_, cfg, set := loadState(cmd, logger)

			plan, err := buildPlan(cfg, set, full, logger)
			if err != nil {
				return err
			}
			if plan.Total == 0 {
				fmt.Fprintln(os.Stdout, "No files to copy.")
				return nil
			}

			if !yes {
				ok, err := confirmCopy(plan)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(os.Stdout, "Aborted.")
					return nil
				}
			}

			session := &app.Session{FS: fs.OSFS{}, Logger: logger}
			task, err := session.StartCopy(context.Background(), plan, func(copied, total int) {
				fmt.Fprintf(os.Stderr, "\rCopying %d / %d files...", copied, total)
			})
			if err != nil {
				return err
			}
			copied, err := task.Result()
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}

			printer := presentation.Printer{Writer: os.Stdout, Verbose: flagVerbose}
			printer.PrintExecution(plan, copied)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "ignore exclusion rules")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage the persisted folder-exclusion rules",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List exclusion rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, set := loadState(cmd, logging.New(os.Stderr, flagVerbose))
			printer := presentation.Printer{Writer: os.Stdout, Verbose: flagVerbose}
			printer.PrintRules(set)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add (exact|prefix|glob) VALUE",
		Short: "Add an exclusion rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(os.Stderr, flagVerbose)
			store, cfg, set := loadState(cmd, logger)

			added, err := set.Add(rules.Kind(args[0]), args[1])
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(os.Stderr, "%q is already in the %s list\n", args[1], args[0])
				return nil
			}
			return saveRules(store, cfg, set)
		},
	}

	remove := &cobra.Command{
		Use:   "remove (exact|prefix|glob) VALUE",
		Short: "Remove an exclusion rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(os.Stderr, flagVerbose)
			store, cfg, set := loadState(cmd, logger)

			if !set.Remove(rules.Kind(args[0]), args[1]) {
				fmt.Fprintf(os.Stderr, "%q is not in the %s list\n", args[1], args[0])
				return nil
			}
			return saveRules(store, cfg, set)
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

func buildPlan(cfg config.Config, set *rules.Set, full bool, logger logging.Logger) (domain.CopyPlan, error) {
	mode := domain.Selective
	if full {
		mode = domain.Full
	}
	session := &app.Session{FS: fs.OSFS{}, Logger: logger}
	task, err := session.BuildPlan(domain.CopySpec{
		SourceRoot:      cfg.SourceDir,
		DestRoot:        cfg.DestDir,
		Rules:           set,
		Mode:            mode,
		TimestampSuffix: cfg.AppendTimestamp,
	})
	if err != nil {
		return domain.CopyPlan{}, err
	}
	return task.Result()
}

func saveRules(store config.Store, cfg config.Config, set *rules.Set) error {
	cfg.ExcludedExact = set.Exact()
	cfg.ExcludedPrefix = set.Prefix()
	cfg.ExcludedGlob = set.Glob()
	return store.Save(cfg)
}

func confirmCopy(plan domain.CopyPlan) (bool, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("Copy %d files from %s to %s? Existing files will be overwritten. [y/N]: ",
		plan.Total, plan.SourceRoot, plan.DestRoot)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
