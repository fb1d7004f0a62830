// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/vivisn00b/timesnap-btrfs/pkg/generator"
	"github.com/vivisn00b/timesnap-btrfs/pkg/watcher"
)

const daemonName = "timesnapd"

func daemonCommand() *cli.Command {
	flags := append(commonFlags(), configFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:    "watch-dir",
			Usage:   "snapshot directory to watch for changes",
			Sources: cli.EnvVars("TIMESNAP_WATCH_DIR"),
		},
		&cli.DurationFlag{
			Name:    "poll-interval",
			Usage:   "how often the snapshot directory is checked",
			Value:   watcher.DefaultPollInterval,
			Sources: cli.EnvVars("TIMESNAP_POLL_INTERVAL"),
		},
	)

	return &cli.Command{
		Name:  daemonName,
		Usage: "Keep the snapshot boot menu current as snapshots come and go",
		Description: `Watches the snapshot directory and regenerates the bootloader
configuration fragment whenever the snapshot set changes. Notifies
systemd when ready and answers its watchdog when one is configured.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("version") {
				printVersion()
				return nil
			}

			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.IsSet("watch-dir") {
				cfg.WatchDir = cmd.String("watch-dir")
			}

			interval := cmd.Duration("poll-interval")
			w := watcher.New(cfg.WatchDir, interval, func(ctx context.Context) error {
				return generator.New(cfg).Run(ctx)
			})
			return w.Run(ctx)
		},
	}
}

// RunDaemon executes the watcher daemon. Unlike the one-shot generator,
// any failure exits non-zero so a supervisor notices.
func RunDaemon(args []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := daemonCommand().Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", daemonName, err)
		return 1
	}
	return 0
}
