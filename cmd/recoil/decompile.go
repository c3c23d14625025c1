package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"recoil/internal/decompile"
	"recoil/internal/driver"
	"recoil/internal/ir"
	"recoil/internal/metaload"
	"recoil/internal/observ"
	"recoil/internal/typesys"
	"recoil/internal/ui"
)

var decompileCmd = &cobra.Command{
	Use:   "decompile [flags] module.dll",
	Short: "Decompile every method of a module",
	Long:  `Decompile assembles the type system, then translates each method into a statement tree, reporting per-method diagnostics without aborting siblings`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDecompile,
}

func init() {
	decompileCmd.Flags().Bool("definitions-only", false, "skip member bodies, keep async/iterator detection")
	decompileCmd.Flags().Bool("ui", false, "show interactive progress")
}

func runDecompile(cmd *cobra.Command, args []string) error {
	timer := observ.NewTimer()

	module, hints, res, _, cfg, err := loadMain(cmd, args[0])
	if err != nil {
		return err
	}

	defsOnly, err := cmd.Flags().GetBool("definitions-only")
	if err != nil {
		return fmt.Errorf("failed to get definitions-only flag: %w", err)
	}
	showUI, err := cmd.Flags().GetBool("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	maxDiagnostics, err := persistentInt(cmd, "max-diagnostics")
	if err != nil {
		return err
	}
	if !cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		maxDiagnostics = cfg.Decompiler.MaxDiagnostics
	}
	jobs, err := persistentInt(cmd, "jobs")
	if err != nil {
		return err
	}
	if jobs == 0 {
		jobs = cfg.Decompiler.Jobs
	}

	phase := timer.Begin("assemble")
	closure := typesys.Assemble(module, res, metaload.Loader{}, cfg.TypeSystem.Options())
	timer.End(phase, fmt.Sprintf("%d modules", len(closure.Modules)))

	orch := &decompile.Orchestrator{
		TypeSystem: closure,
		Reader:     &metaload.Reader{Module: module, Hints: hints},
		Transforms: metaload.Transforms(),
		Builder:    metaload.Builder{},
		Settings: ir.Settings{
			DefinitionsOnly:  defsOnly || cfg.Decompiler.DefinitionsOnly,
			LoadDebugSymbols: cfg.Decompiler.DebugSymbols,
		},
	}

	var events chan driver.Event
	uiDone := make(chan error, 1)
	if showUI && isTerminal(os.Stdout) {
		events = make(chan driver.Event, 64)
		var labels []string
		for _, h := range module.MethodHandles() {
			if def := module.MethodByHandle(h); def != nil && def.DeclaringType != nil {
				labels = append(labels, def.DeclaringType.Name.String()+"."+def.Name)
			}
		}
		model := ui.NewProgressModel("decompiling "+module.Name(), labels, events)
		go func() {
			_, err := tea.NewProgram(model).Run()
			uiDone <- err
		}()
	}

	phase = timer.Begin("decompile")
	results, bag, runErr := driver.DecompileModule(cmd.Context(), orch, module, maxDiagnostics, jobs, events)
	timer.End(phase, fmt.Sprintf("%d methods", len(results)))

	if events != nil {
		close(events)
		<-uiDone
	}
	if runErr != nil {
		return runErr
	}

	quiet, err := persistentBool(cmd, "quiet")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !quiet {
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			line := fmt.Sprintf("%-40s state-machine=%s", r.Name, r.Result.Debug.Kind)
			fmt.Fprintln(out, line)
		}
	}

	if bag.Len() > 0 {
		colored := useColor(cmd, os.Stderr)
		for _, d := range bag.Items() {
			msg := fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
			if colored {
				color.New(color.FgRed).Fprintln(os.Stderr, msg)
			} else {
				fmt.Fprintln(os.Stderr, msg)
			}
		}
	}

	timings, err := persistentBool(cmd, "timings")
	if err != nil {
		return err
	}
	if timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	if bag.HasErrors() {
		os.Exit(1)
	}
	return nil
}
