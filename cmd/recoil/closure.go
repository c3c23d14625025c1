package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recoil/internal/metaload"
	"recoil/internal/observ"
	"recoil/internal/typesys"
)

var closureCmd = &cobra.Command{
	Use:   "closure [flags] module.dll",
	Short: "Assemble and list the module's type-system closure",
	Long:  `Closure resolves the transitive set of referenced modules, follows type forwarders, and reports what the assembled type system contains`,
	Args:  cobra.ExactArgs(1),
	RunE:  runClosure,
}

func runClosure(cmd *cobra.Command, args []string) error {
	timer := observ.NewTimer()

	module, _, res, tf, cfg, err := loadMain(cmd, args[0])
	if err != nil {
		return err
	}

	phase := timer.Begin("assemble")
	closure := typesys.Assemble(module, res, metaload.Loader{}, cfg.TypeSystem.Options())
	timer.End(phase, fmt.Sprintf("%d modules", len(closure.Modules)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "root: %s %s", module.Name(), module.Version())
	if tf.IsKnown() {
		fmt.Fprintf(out, " (%s)", tf)
	}
	fmt.Fprintln(out)
	for _, m := range closure.Modules {
		fmt.Fprintf(out, "  %s %s  %s\n", m.Name(), m.Version(), m.Path())
	}
	if closure.Fallback != nil {
		fmt.Fprintf(out, "  %s (synthetic, well-known type stubs)\n", closure.Fallback.Name())
	}

	timings, err := persistentBool(cmd, "timings")
	if err != nil {
		return err
	}
	if timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}
