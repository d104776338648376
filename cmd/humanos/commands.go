package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/DaanHessen/humanos-tui/internal/credentials"
	"github.com/DaanHessen/humanos-tui/internal/domain"
	"github.com/DaanHessen/humanos-tui/internal/flow"
	"github.com/DaanHessen/humanos-tui/internal/logging"
	"github.com/DaanHessen/humanos-tui/internal/store"
	"github.com/DaanHessen/humanos-tui/internal/text"
	"github.com/DaanHessen/humanos-tui/internal/ui"
)

const renderWidth = 100

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "humanos",
		Short:         "Decision sandbox: simulate two career paths and a synthesized third",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			defer a.close()
			ctl, err := a.controller(credentials.NewCommandBridge(a.cfg.KeySelectCommand, a.cfg.KeyFile))
			if err != nil {
				return err
			}
			return ui.Run(cmd.Context(), ctl, a.cfg, logging.NewComponentLogger("ui"))
		},
	}

	flags := root.PersistentFlags()
	flags.String("tier", "", "Model tier: pro|flash")
	flags.String("history-backend", "", "History backend: sqlite|postgres|memory")
	flags.String("dsn", "", "PostgreSQL DSN for the postgres backend and migrations")
	flags.String("theme", "", "Color theme")
	for key, name := range map[string]string{
		"tier":            "tier",
		"history_backend": "history-backend",
		"dsn":             "dsn",
		"theme":           "theme",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(newSimulateCommand(a))
	root.AddCommand(newHistoryCommand(a))
	root.AddCommand(newMigrateCommand(a))
	root.AddCommand(newVersionCommand())
	return root
}

// simulationInput is the YAML accepted by `simulate --input`.
type simulationInput struct {
	Profile   domain.Profile  `yaml:"profile"`
	ScenarioA domain.Scenario `yaml:"scenarioA"`
	ScenarioB domain.Scenario `yaml:"scenarioB"`
}

func readInput(path string) (simulationInput, error) {
	var in simulationInput
	b, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read input: %w", err)
	}
	if err := yaml.Unmarshal(b, &in); err != nil {
		return in, fmt.Errorf("parse input %s: %w", path, err)
	}
	return in, nil
}

func newSimulateCommand(a *app) *cobra.Command {
	var (
		input  string
		demo   bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one simulation without the TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input == "" && !demo {
				return errors.New("simulate needs --input <file.yaml> or --demo")
			}
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			defer a.close()
			ctl, err := a.controller(nil)
			if err != nil {
				return err
			}

			events := []flow.Event{flow.LoadDemo{}, flow.ConfirmProfile{}}
			if input != "" {
				in, err := readInput(input)
				if err != nil {
					return err
				}
				events = []flow.Event{
					flow.EditProfile{Profile: in.Profile},
					flow.ConfirmProfile{},
					flow.EditScenario{Slot: flow.SlotA, Scenario: in.ScenarioA},
					flow.EditScenario{Slot: flow.SlotB, Scenario: in.ScenarioB},
				}
			}
			events = append(events, flow.RunSimulation{})
			for _, ev := range events {
				if err := ctl.Drive(cmd.Context(), ev); err != nil {
					return err
				}
			}

			s := ctl.State()
			switch {
			case s.Recovery.Open:
				return exitError{code: 2, msg: fmt.Sprintf(
					"inference service rejected the credential: %s\nset GEMINI_API_KEY or key_select_command and retry (billing: %s)",
					s.LastError, flow.BillingURL)}
			case s.Alert != "":
				return fmt.Errorf("simulation failed: %s", s.Alert)
			}
			rec, ok := ctl.CurrentRecord()
			if !ok {
				return errors.New("simulation finished without a record")
			}
			return printRecord(cmd.OutOrStdout(), rec, asJSON)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "YAML file with profile, scenarioA and scenarioB")
	cmd.Flags().BoolVar(&demo, "demo", false, "Use the built-in demo twin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the record as JSON")
	cmd.MarkFlagsMutuallyExclusive("input", "demo")
	return cmd
}

func printRecord(w io.Writer, rec domain.Record, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	_, err := fmt.Fprintln(w, text.Render(text.RecordMarkdown(rec), renderWidth, "auto"))
	return err
}

func newHistoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved simulations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved simulations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			defer a.close()
			records := a.history.Load(cmd.Context())
			w := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(w, "no simulations yet")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(w, "%s  %s  %-18s %s vs %s\n", r.ID, text.Timestamp(r.Timestamp),
					r.Profile.Name, r.ScenarioA.Title, r.ScenarioB.Title)
			}
			return nil
		},
	})

	var showJSON bool
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one saved simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			defer a.close()
			rec, ok := a.history.Find(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("no record %q", args[0])
			}
			return printRecord(cmd.OutOrStdout(), rec, showJSON)
		},
	}
	show.Flags().BoolVar(&showJSON, "json", false, "Print the record as JSON")
	cmd.AddCommand(show)

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all saved simulations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			defer a.close()
			if err := a.history.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	})

	var format, dir string
	export := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a saved simulation as markdown or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := text.ParseFormat(format)
			if err != nil {
				return err
			}
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			defer a.close()
			rec, ok := a.history.Find(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("no record %q", args[0])
			}
			if dir == "" {
				dir = a.cfg.ExportDir
			}
			path, err := text.Export(rec, dir, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	export.Flags().StringVar(&format, "format", "md", "Export format: md|pdf")
	export.Flags().StringVar(&dir, "dir", "", "Output directory (default export_dir)")
	cmd.AddCommand(export)
	return cmd
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the Postgres history schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			defer a.close()
			migrator, err := store.NewMigrator(a.cfg.DSN)
			if err != nil {
				return err
			}
			var msg string
			switch strings.ToLower(args[0]) {
			case "up":
				err, msg = migrator.Up(cmd.Context()), "Migrations applied"
			case "down":
				err, msg = migrator.Down(cmd.Context()), "Migrations rolled back"
			default:
				return fmt.Errorf("unknown migrate action %q; use up|down", args[0])
			}
			if errors.Is(err, store.ErrNoChange) {
				msg = "No migration to apply"
			} else if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "humanos", version)
		},
	}
}
