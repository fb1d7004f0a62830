// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/urfave/cli/v3"

	"github.com/vivisn00b/timesnap-btrfs/pkg/config"
)

// commonFlags are shared by the generator and the daemon.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "configuration file (default is " + config.DefaultPath + ")",
			Sources: cli.EnvVars("TIMESNAP_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("TIMESNAP_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:    "version",
			Aliases: []string{"V"},
			Usage:   "print version and exit",
		},
	}
}

// configFlags expose the recognized configuration options, each also
// settable through its TIMESNAP_* environment variable. Only explicitly
// set flags override the configuration file.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "title",
			Usage:   "title of the generated submenu",
			Sources: cli.EnvVars("TIMESNAP_TITLE"),
		},
		&cli.StringFlag{
			Name:    "grub-dir",
			Usage:   "directory the configuration fragment is written to",
			Sources: cli.EnvVars("TIMESNAP_GRUB_DIR"),
		},
		&cli.StringFlag{
			Name:    "config-name",
			Usage:   "file name of the generated fragment",
			Sources: cli.EnvVars("TIMESNAP_CONFIG_NAME"),
		},
		&cli.StringFlag{
			Name:    "boot-dir",
			Usage:   "boot directory holding kernels and initramfs images",
			Sources: cli.EnvVars("TIMESNAP_BOOT_DIR"),
		},
		&cli.IntFlag{
			Name:    "limit",
			Usage:   "maximum number of snapshots in the menu (0 disables output)",
			Value:   config.DefaultLimit,
			Sources: cli.EnvVars("TIMESNAP_LIMIT"),
		},
		&cli.StringFlag{
			Name:    "sort-order",
			Usage:   "subvolume listing sort order passed to btrfs",
			Sources: cli.EnvVars("TIMESNAP_SORT_ORDER"),
		},
		&cli.BoolFlag{
			Name:    "show-snapshots-found",
			Usage:   "log each snapshot selected for the menu",
			Sources: cli.EnvVars("TIMESNAP_SHOW_SNAPSHOTS_FOUND"),
		},
		&cli.BoolFlag{
			Name:    "show-total-found",
			Usage:   "log the total number of selected snapshots",
			Sources: cli.EnvVars("TIMESNAP_SHOW_TOTAL_FOUND"),
		},
		&cli.StringSliceFlag{
			Name:    "ignore-path",
			Usage:   "snapshot path to exclude (exact match, can be repeated)",
			Sources: cli.EnvVars("TIMESNAP_IGNORE_PATH"),
		},
		&cli.StringSliceFlag{
			Name:    "ignore-prefix",
			Usage:   "snapshot path prefix to exclude (can be repeated)",
			Sources: cli.EnvVars("TIMESNAP_IGNORE_PREFIX"),
		},
		&cli.StringSliceFlag{
			Name:    "ignore-tag",
			Usage:   "snapshot tag to exclude (can be repeated)",
			Sources: cli.EnvVars("TIMESNAP_IGNORE_TAG"),
		},
		&cli.StringSliceFlag{
			Name:    "ignore-description",
			Usage:   "snapshot description to exclude (can be repeated)",
			Sources: cli.EnvVars("TIMESNAP_IGNORE_DESCRIPTION"),
		},
		&cli.StringSliceFlag{
			Name:    "kernel-name",
			Usage:   "additional kernel file name pattern (can be repeated)",
			Sources: cli.EnvVars("TIMESNAP_KERNEL_NAME"),
		},
		&cli.StringSliceFlag{
			Name:    "initramfs-name",
			Usage:   "additional initramfs file name pattern (can be repeated)",
			Sources: cli.EnvVars("TIMESNAP_INITRAMFS_NAME"),
		},
		&cli.StringSliceFlag{
			Name:    "microcode-name",
			Usage:   "additional microcode file name pattern (can be repeated)",
			Sources: cli.EnvVars("TIMESNAP_MICROCODE_NAME"),
		},
		&cli.StringSliceFlag{
			Name:    "authorized-user",
			Usage:   "bootloader superuser allowed to boot the submenu (can be repeated)",
			Sources: cli.EnvVars("TIMESNAP_AUTHORIZED_USER"),
		},
		&cli.BoolFlag{
			Name:    "disable-protection",
			Usage:   "mark the generated submenu --unrestricted",
			Sources: cli.EnvVars("TIMESNAP_DISABLE_PROTECTION"),
		},
		&cli.StringFlag{
			Name:    "rootflags",
			Usage:   "extra root mount options for snapshot entries",
			Sources: cli.EnvVars("TIMESNAP_ROOTFLAGS"),
		},
		&cli.StringFlag{
			Name:    "kernel-parameters",
			Usage:   "extra kernel command line parameters for snapshot entries",
			Sources: cli.EnvVars("TIMESNAP_KERNEL_PARAMETERS"),
		},
		&cli.BoolFlag{
			Name:    "enable-cryptodisk",
			Usage:   "load LUKS modules in each entry",
			Sources: cli.EnvVars("TIMESNAP_ENABLE_CRYPTODISK"),
		},
		&cli.StringSliceFlag{
			Name:    "title-column",
			Usage:   "submenu title column: date, snapshot, tag, description (can be repeated)",
			Sources: cli.EnvVars("TIMESNAP_TITLE_COLUMN"),
		},
		&cli.BoolFlag{
			Name:    "force-separate-boot",
			Usage:   "treat boot artifacts as living on a shared boot partition",
			Sources: cli.EnvVars("TIMESNAP_FORCE_SEPARATE_BOOT"),
		},
		&cli.BoolFlag{
			Name:    "fixed-subvolid",
			Usage:   "emit a fixed subvolume-id directive in each entry",
			Sources: cli.EnvVars("TIMESNAP_FIXED_SUBVOLID"),
		},
	}
}

func applyOverrides(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("title") {
		cfg.Title = cmd.String("title")
	}
	if cmd.IsSet("grub-dir") {
		cfg.GrubDir = cmd.String("grub-dir")
	}
	if cmd.IsSet("config-name") {
		cfg.ConfigName = cmd.String("config-name")
	}
	if cmd.IsSet("boot-dir") {
		cfg.BootDirName = cmd.String("boot-dir")
	}
	if cmd.IsSet("limit") {
		cfg.Limit = int(cmd.Int("limit"))
	}
	if cmd.IsSet("sort-order") {
		cfg.SortOrder = cmd.String("sort-order")
	}
	if cmd.IsSet("show-snapshots-found") {
		cfg.ShowSnapshotsFound = cmd.Bool("show-snapshots-found")
	}
	if cmd.IsSet("show-total-found") {
		cfg.ShowTotalFound = cmd.Bool("show-total-found")
	}
	if cmd.IsSet("ignore-path") {
		cfg.IgnorePaths = cmd.StringSlice("ignore-path")
	}
	if cmd.IsSet("ignore-prefix") {
		cfg.IgnorePrefixes = cmd.StringSlice("ignore-prefix")
	}
	if cmd.IsSet("ignore-tag") {
		cfg.IgnoreTags = cmd.StringSlice("ignore-tag")
	}
	if cmd.IsSet("ignore-description") {
		cfg.IgnoreDescriptions = cmd.StringSlice("ignore-description")
	}
	if cmd.IsSet("kernel-name") {
		cfg.KernelNames = cmd.StringSlice("kernel-name")
	}
	if cmd.IsSet("initramfs-name") {
		cfg.InitramfsNames = cmd.StringSlice("initramfs-name")
	}
	if cmd.IsSet("microcode-name") {
		cfg.MicrocodeNames = cmd.StringSlice("microcode-name")
	}
	if cmd.IsSet("authorized-user") {
		cfg.AuthorizedUsers = cmd.StringSlice("authorized-user")
	}
	if cmd.IsSet("disable-protection") {
		cfg.DisableProtection = cmd.Bool("disable-protection")
	}
	if cmd.IsSet("rootflags") {
		cfg.RootFlags = cmd.String("rootflags")
	}
	if cmd.IsSet("kernel-parameters") {
		cfg.KernelParameters = cmd.String("kernel-parameters")
	}
	if cmd.IsSet("enable-cryptodisk") {
		cfg.EnableCryptodisk = cmd.Bool("enable-cryptodisk")
	}
	if cmd.IsSet("title-column") {
		cfg.TitleColumns = cmd.StringSlice("title-column")
	}
	if cmd.IsSet("force-separate-boot") {
		cfg.ForceSeparateBoot = cmd.Bool("force-separate-boot")
	}
	if cmd.IsSet("fixed-subvolid") {
		cfg.FixedSubvolID = cmd.Bool("fixed-subvolid")
	}
}
