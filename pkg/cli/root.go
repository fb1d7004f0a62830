// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/vivisn00b/timesnap-btrfs/pkg/config"
	"github.com/vivisn00b/timesnap-btrfs/pkg/errors"
	"github.com/vivisn00b/timesnap-btrfs/pkg/generator"
	"github.com/vivisn00b/timesnap-btrfs/pkg/grubmenu"
	"github.com/vivisn00b/timesnap-btrfs/pkg/logging"
	"github.com/vivisn00b/timesnap-btrfs/pkg/version"
)

const name = "timesnap"

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: "Generate bootloader menu entries for btrfs snapshots",
		Description: `Discovers btrfs snapshots, locates the bootable kernel, initramfs,
and microcode images for each one, and writes a validated GRUB
configuration fragment. A short loader stub that sources the fragment
is printed on stdout for inclusion in the GRUB build.`,
		Flags: append(commonFlags(), configFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("version") {
				printVersion()
				return nil
			}

			cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			if err := generator.New(cfg).Run(ctx); err != nil {
				return err
			}

			// stdout is reserved for the loader stub
			fmt.Print(grubmenu.StubFragment(cfg.ConfigName))
			return nil
		},
	}
}

// setup loads the configuration, applies flag and environment overrides,
// and initializes logging from the parsed log level.
func setup(cmd *cli.Command) (*config.Config, error) {
	logging.SetDefaultStructuredLoggerWithLevel(name, version.Version, cmd.String("log-level"))
	slog.Info("starting",
		"name", name,
		"version", version.Version,
		"commit", version.Commit,
		"date", version.Date)

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	applyOverrides(cmd, cfg)
	return cfg, nil
}

func printVersion() {
	fmt.Printf("%s version %s (commit %s, built %s)\n",
		name, version.Version, version.Commit, version.Date)
}

// Run executes the generator command and maps its outcome to an exit
// code: structured generation failures exit 1, usage mistakes keep the
// historical exit-0 behavior of the tool this replaces.
func Run(args []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCommand().Run(ctx, args); err != nil {
		return reportError(err)
	}
	return 0
}

func reportError(err error) int {
	var structured *errors.StructuredError
	if stderrors.As(err, &structured) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", name, structured.Error())
		fmt.Fprintln(os.Stderr, "The previous bootloader configuration, if any, is still in place.")
		fmt.Fprintln(os.Stderr, "Report problems at https://github.com/vivisn00b/timesnap-btrfs/issues.")
		return 1
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", name, err)
	return 0
}
