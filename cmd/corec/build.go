package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"corec/internal/compiler"
	"corec/internal/diag"
	"corec/internal/diagfmt"
	"corec/internal/diskcache"
	"corec/internal/driver"
	"corec/internal/layout"
	"corec/internal/project"
	"corec/internal/source"
)

var buildCmd = &cobra.Command{
	Use:   "build [manifest-dir]",
	Short: "build every unit named in corec.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("out", "", "output directory for emitted .ll files (default: manifest directory)")
	buildCmd.Flags().Bool("progress", false, "show an interactive progress display")
}

func runBuild(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	manifest, ok, err := project.Load(startDir)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no corec.toml found starting from %s", startDir)
	}

	target := layout.X86_64LinuxGNU()
	if manifest.Config.Build.Triple != "" {
		target.Triple = manifest.Config.Build.Triple
	}
	targetSpec := compiler.TargetSpec{Triple: target.Triple, CPU: manifest.Config.Build.CPU}

	cache, err := diskcache.Open()
	if err != nil {
		return fmt.Errorf("failed to open build cache: %w", err)
	}

	units := make([]driver.UnitInput, 0, len(manifest.Config.Units))
	unitDigests := make(map[string]diskcache.Digest, len(manifest.Config.Units))

	for _, u := range manifest.Config.Units {
		files, err := manifest.UnitFiles(u)
		if err != nil {
			return err
		}
		sources := make([]compiler.Source, 0, len(files))
		names := make([][]byte, 0, len(files))
		contents := make([][]byte, 0, len(files))
		for _, f := range files {
			content, err := os.ReadFile(f)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", f, err)
			}
			sources = append(sources, compiler.Source{Name: filepath.Base(f), Content: content})
			names = append(names, []byte(f))
			contents = append(contents, content)
		}
		units = append(units, driver.UnitInput{Name: u.Name, Sources: sources, Build: buildKindFromConfig(u.Kind)})
		unitDigests[u.Name] = diskcache.HashSources(names, contents)
	}

	showProgress, _ := cmd.Flags().GetBool("progress")
	showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	var result *driver.Result
	if showProgress && diagfmt.IsTTY(os.Stdout) {
		result = runBuildWithUI(cmd.Context(), manifest.Config.Package.Name, units, targetSpec)
	} else {
		result = driver.CompileUnits(cmd.Context(), units, targetSpec, nil)
	}

	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = manifest.Root
	}

	hadErrors := false

	for _, ur := range result.Units {
		if ur.Err != nil {
			fmt.Fprintf(os.Stderr, "corec: unit %s: %v\n", ur.Name, ur.Err)
			hadErrors = true
			continue
		}
		if ur.Bag != nil && ur.Bag.Len() > 0 {
			reportUnitDiagnostics(ur.Name, ur.Bag, ur.FileSet, cmd)
		}
		if ur.Bag != nil && ur.Bag.HasErrors() {
			hadErrors = true
			_ = cache.Put(unitDigests[ur.Name], &diskcache.Payload{UnitName: ur.Name, ContentHash: unitDigests[ur.Name], Broken: true})
			continue
		}
		if ur.Object == nil {
			continue
		}
		outPath := filepath.Join(outDir, ur.Name+".ll")
		if err := os.WriteFile(outPath, ur.Object.IR, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		if err := cache.Put(unitDigests[ur.Name], &diskcache.Payload{
			UnitName:    ur.Name,
			ContentHash: unitDigests[ur.Name],
			Exports:     ur.Object.Exports,
		}); err != nil {
			return fmt.Errorf("failed to update build cache: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "compiled %s -> %s\n", ur.Name, outPath)
		}
		if showTimings && ur.Timer != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "-- %s timings --\n%s", ur.Name, ur.Timer.Summary())
		}
	}

	if hadErrors {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		os.Exit(1)
	}
	return nil
}

func reportUnitDiagnostics(unitName string, bag *diag.Bag, fs *source.FileSet, cmd *cobra.Command) {
	bag.Sort()
	fmt.Fprintf(os.Stderr, "-- %s --\n", unitName)
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:   colorEnabled(cmd, os.Stderr),
		Context: 1,
	})
}

func buildKindFromConfig(kind string) compiler.BuildKind {
	if kind == "modulepack" {
		return compiler.ModulePack
	}
	return compiler.Executable
}
