// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/time/rate"

	"github.com/vivisn00b/timesnap-btrfs/pkg/errors"
)

// DefaultPollInterval is how often the snapshot directory is fingerprinted.
const DefaultPollInterval = 30 * time.Second

// Watcher polls a snapshot directory and regenerates the bootloader
// configuration when its contents change. Regeneration bursts are bounded
// by a rate limiter so a flurry of snapshot churn produces one pass.
type Watcher struct {
	dir      string
	interval time.Duration
	limiter  *rate.Limiter
	generate func(ctx context.Context) error

	// notify is daemon.SdNotify, replaceable in tests.
	notify func(unsetEnv bool, state string) (bool, error)
	// watchdog reports the systemd watchdog interval, zero when disabled.
	watchdog func() time.Duration
}

// New creates a Watcher over dir that invokes generate on change. A
// non-positive interval falls back to DefaultPollInterval.
func New(dir string, interval time.Duration, generate func(ctx context.Context) error) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		dir:      dir,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		generate: generate,
		notify:   daemon.SdNotify,
		watchdog: func() time.Duration {
			d, err := daemon.SdWatchdogEnabled(false)
			if err != nil {
				return 0
			}
			return d
		},
	}
}

// Run performs an initial generation pass, signals readiness, and then
// polls until the context is canceled. Generation failures are logged and
// the watcher keeps running; an empty snapshot set is not a failure at all.
func (w *Watcher) Run(ctx context.Context) error {
	// Baseline before the initial pass, so snapshots taken while it runs
	// still register as a change on the first tick.
	last, err := fingerprint(w.dir)
	if err != nil {
		slog.Warn("cannot read snapshot directory", "dir", w.dir, "error", err)
	}

	w.regenerate(ctx)

	if _, err := w.notify(false, daemon.SdNotifyReady); err != nil {
		slog.Debug("readiness notification not delivered", "error", err)
	}

	poll := time.NewTicker(w.interval)
	defer poll.Stop()

	var keepalive <-chan time.Time
	if d := w.watchdog(); d > 0 {
		t := time.NewTicker(d / 2)
		defer t.Stop()
		keepalive = t.C
		slog.Info("systemd watchdog enabled", "interval", d)
	}

	dirty := false
	slog.Info("watching snapshot directory", "dir", w.dir, "interval", w.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("watcher stopping")
			return nil
		case <-keepalive:
			if _, err := w.notify(false, daemon.SdNotifyWatchdog); err != nil {
				slog.Debug("watchdog notification not delivered", "error", err)
			}
		case <-poll.C:
			current, err := fingerprint(w.dir)
			if err != nil {
				slog.Warn("cannot read snapshot directory", "dir", w.dir, "error", err)
				continue
			}
			if current != last {
				last = current
				dirty = true
			}
			if !dirty {
				continue
			}
			if !w.limiter.Allow() {
				// keep the pending change, retry next tick
				continue
			}
			slog.Info("snapshot directory changed, regenerating", "dir", w.dir)
			w.regenerate(ctx)
			dirty = false
		}
	}
}

func (w *Watcher) regenerate(ctx context.Context) {
	err := w.generate(ctx)
	switch {
	case err == nil:
	case errors.IsCode(err, errors.ErrCodeNoSnapshotsFound):
		slog.Info("no snapshots to publish")
	default:
		slog.Error("generation pass failed", "error", err)
	}
}

// fingerprint summarizes the directory contents as entry names and
// modification times. A missing directory fingerprints to the empty
// string, so its later appearance registers as a change.
func fingerprint(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d", e.Name(), info.ModTime().UnixNano()))
	}
	sort.Strings(parts)
	return strings.Join(parts, "\n"), nil
}
