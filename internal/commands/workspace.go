package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bankentry-dev/bankentry/internal/auditlog"
	"github.com/bankentry-dev/bankentry/internal/config"
	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/editor"
	"github.com/bankentry-dev/bankentry/internal/gitops"
	"github.com/bankentry-dev/bankentry/internal/id"
	"github.com/bankentry-dev/bankentry/internal/store"
)

// Workspace is an initialized ledger directory: its config, its JSON
// ledger file, and its logs.
type Workspace struct {
	Dir    string
	Config *config.Config
}

// addDirFlag registers the shared --dir flag.
func addDirFlag(cmd *cobra.Command, dir *string) {
	cmd.Flags().StringVar(dir, "dir", ".", "workspace directory")
}

func openWorkspace(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(abs, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("opening workspace (did you run bankentry init?): %w", err)
	}
	return &Workspace{Dir: abs, Config: cfg}, nil
}

// Normalizer builds the configured date normalizer.
func (w *Workspace) Normalizer() (dates.Normalizer, error) {
	return w.Config.Dates.Normalizer()
}

// OpenStore opens the workspace ledger file.
func (w *Workspace) OpenStore() (store.Store, error) {
	return store.OpenJSONFile(filepath.Join(w.Dir, w.Config.Workspace.LedgerFile))
}

// OpenSession opens an editor session over the workspace ledger. The
// returned closer must be called when done.
func (w *Workspace) OpenSession() (*editor.Session, func() error, error) {
	norm, err := w.Normalizer()
	if err != nil {
		return nil, nil, err
	}
	st, err := w.OpenStore()
	if err != nil {
		return nil, nil, err
	}
	return editor.NewSession(st, norm), st.Close, nil
}

// recordActivity snapshots the workspace (when auto-commit is on) and
// appends one audit-log row for the operation.
func (w *Workspace) recordActivity(action, details, recordIDs string) error {
	var hash string
	if w.Config.Git.AutoCommit {
		var err error
		hash, err = gitops.Snapshot(w.Dir, action+": "+details, w.Config.Git.AuthorName, w.Config.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("snapshotting workspace: %w", err)
		}
	}

	return auditlog.Append(w.Dir, []auditlog.Entry{{
		Timestamp: time.Now().UTC(),
		Batch:     id.NewBatch(),
		Action:    action,
		Details:   details,
		RecordIDs: recordIDs,
		Commit:    hash,
	}})
}
