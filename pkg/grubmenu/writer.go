// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package grubmenu

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/vivisn00b/timesnap-btrfs/pkg/errors"
)

const scriptCheckCommand = "grub-script-check"

// Checker validates a staged configuration file before it is promoted.
type Checker interface {
	Check(ctx context.Context, path string) error
}

// ScriptChecker validates staged files with the bootloader's own script
// syntax checker.
type ScriptChecker struct{}

// Check runs grub-script-check against the file at path. A non-zero exit
// surfaces the checker's combined output as the error message.
func (ScriptChecker) Check(ctx context.Context, path string) error {
	checkPath, err := exec.LookPath(scriptCheckCommand)
	if err != nil {
		return errors.Wrap(errors.ErrCodeToolUnavailable, scriptCheckCommand+" not found in PATH", err)
	}

	cmd := exec.CommandContext(ctx, checkPath, path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidGeneratedSyntax,
			"generated configuration failed syntax validation", err,
			map[string]any{"diagnostic": strings.TrimSpace(string(output)), "path": path})
	}
	return nil
}

// Writer commits a rendered document to its final location through a
// staged file, validating before promotion and restoring the previous
// configuration on failure.
type Writer struct {
	// FinalPath is where the promoted configuration lives.
	FinalPath string
	// Checker validates the staged file. Nil skips validation.
	Checker Checker
}

// Commit writes, validates, and promotes the document.
//
// The staged file is FinalPath+".new" and the backup FinalPath+".bkp".
// A pre-existing final configuration is moved aside before promotion and
// restored verbatim when validation fails. A document with zero entries
// leaves any existing configuration untouched and reports
// NO_SNAPSHOTS_FOUND.
func (w *Writer) Commit(ctx context.Context, doc *Document) error {
	staged := w.FinalPath + ".new"
	backup := w.FinalPath + ".bkp"

	if doc.EntryCount() == 0 {
		// A stale staged file from an interrupted run must not linger.
		_ = os.Remove(staged)
		return errors.New(errors.ErrCodeNoSnapshotsFound, "no snapshots produced any menu entries")
	}

	if err := os.WriteFile(staged, []byte(doc.Render()), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "writing staged configuration", err)
	}

	hadPrevious := false
	if _, err := os.Stat(w.FinalPath); err == nil {
		if err := os.Rename(w.FinalPath, backup); err != nil {
			_ = os.Remove(staged)
			return errors.Wrap(errors.ErrCodeInternal, "backing up previous configuration", err)
		}
		hadPrevious = true
	}

	if w.Checker != nil {
		if err := w.Checker.Check(ctx, staged); err != nil {
			_ = os.Remove(staged)
			if hadPrevious {
				if restoreErr := os.Rename(backup, w.FinalPath); restoreErr != nil {
					slog.Error("restoring previous configuration failed",
						"backup", backup, "error", restoreErr)
				}
			}
			return err
		}
	}

	if err := os.Rename(staged, w.FinalPath); err != nil {
		if hadPrevious {
			_ = os.Rename(backup, w.FinalPath)
		}
		_ = os.Remove(staged)
		return errors.Wrap(errors.ErrCodeInternal, "promoting staged configuration", err)
	}
	if hadPrevious {
		_ = os.Remove(backup)
	}
	return nil
}
