package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"recoil/internal/metadata"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] module.dll \"Name, Version=..., PublicKeyToken=...\"",
	Short: "Resolve one assembly reference against a main module",
	Long:  `Resolve locates the on-disk file for a symbolic assembly reference, using the main module's target framework to pick the probing strategy`,
	Args:  cobra.ExactArgs(2),
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	modulePath, refName := args[0], args[1]

	ref, err := metadata.ParseFullName(refName)
	if err != nil {
		return fmt.Errorf("invalid reference: %w", err)
	}

	_, _, res, tf, _, err := loadMain(cmd, modulePath)
	if err != nil {
		return err
	}

	quiet, err := persistentBool(cmd, "quiet")
	if err != nil {
		return err
	}
	if !quiet && tf.IsKnown() {
		fmt.Fprintf(os.Stderr, "target framework: %s\n", tf)
	}

	path, ok := res.FindFile(ref)
	if !ok {
		if useColor(cmd, os.Stderr) {
			color.New(color.FgRed).Fprintf(os.Stderr, "not found: %s\n", ref.FullName())
		} else {
			fmt.Fprintf(os.Stderr, "not found: %s\n", ref.FullName())
		}
		os.Exit(1)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
