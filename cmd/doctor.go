package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nibzard/taskclaw/internal/config"
	"github.com/nibzard/taskclaw/internal/storage"
)

func (a *app) newDoctorCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and stored tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.doctor(cmd, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show where each setting came from and every loaded task")
	return cmd
}

func (a *app) doctor(cmd *cobra.Command, verbose bool) error {
	out := cmd.OutOrStdout()
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	allOK := true

	fmt.Fprintln(out, "Claw Doctor")
	fmt.Fprintln(out, "===========")
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Config file: %s\n", cfg.ConfigFile)
	if _, err := os.Stat(cfg.ConfigFile); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "  ⚠️  Not found (using defaults)")
		} else {
			fmt.Fprintf(out, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(out, "  ✅ OK")
	}
	for _, key := range a.cws.Unknown {
		fmt.Fprintf(out, "  ⚠️  Unknown key: %s\n", key)
	}
	if verbose {
		printSources(out, a.cws)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Data directory: %s\n", cfg.DataDir)
	if info, err := os.Stat(cfg.DataDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "  ⚠️  Not found (will be created on first write)")
		} else {
			fmt.Fprintf(out, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(out, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(out, "  ✅ OK")
	}
	fmt.Fprintln(out)

	backend, err := openBackend(cfg, a.logger)
	if err != nil {
		fmt.Fprintf(out, "Storage: %s\n", cfg.Storage)
		fmt.Fprintf(out, "  ❌ Error: %v\n", err)
		fmt.Fprintln(out)
		return finishDoctor(out, false)
	}
	fmt.Fprintf(out, "Storage: %s\n", backend.Describe())
	store, report, err := storage.OpenStore(backend)
	if err != nil {
		fmt.Fprintf(out, "  ❌ Load error: %v\n", err)
		fmt.Fprintln(out)
		return finishDoctor(out, false)
	}
	fmt.Fprintf(out, "  ✅ Loaded %d task(s), %d pending, next id %d\n", report.Loaded, store.Pending(), store.NextID())
	for _, path := range report.Repaired {
		fmt.Fprintf(out, "  ⚠️  Repaired: %s\n", path)
	}
	if !report.OK() {
		fmt.Fprintf(out, "  ❌ Skipped %d record(s):\n", len(report.Skipped))
		for _, rec := range report.Skipped {
			fmt.Fprintf(out, "     - %v\n", rec)
		}
		allOK = false
	}
	if verbose {
		for _, t := range store.Tasks() {
			fmt.Fprintf(out, "    - %s\n", t)
		}
	}
	fmt.Fprintln(out)

	return finishDoctor(out, allOK)
}

func printSources(out io.Writer, cws *config.ConfigWithSources) {
	fmt.Fprintln(out, "  Settings:")
	for _, field := range config.Fields() {
		fmt.Fprintf(out, "    %-15s %s\n", field, cws.Sources[field])
	}
}

func finishDoctor(out io.Writer, ok bool) error {
	if ok {
		fmt.Fprintln(out, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(out, "⚠️  Some checks failed.")
	return userError("doctor checks failed")
}
