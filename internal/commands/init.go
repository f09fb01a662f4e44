package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bankentry-dev/bankentry/internal/config"
	"github.com/bankentry-dev/bankentry/internal/gitops"
	"github.com/bankentry-dev/bankentry/internal/templates"
)

func newInitCommand() *cobra.Command {
	var name string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if name == "" {
				name = filepath.Base(absDir)
			}

			return runInit(absDir, name, !noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "workspace name (defaults to the directory name)")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git initialization")

	return cmd
}

func runInit(dir, name string, useGit bool) error {
	dirs := []string{
		"logs",
		"templates",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name)
	cfg.Git.AutoCommit = useGit
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Starter recurring templates.
	svc := templates.NewService(templates.DefaultTemplates())
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing templates: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !useGit {
		fmt.Printf("Initialized workspace %q at %s\n", name, dir)
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(dir, "init: "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized workspace %q at %s (%s)\n", name, dir, hash)
	return nil
}
