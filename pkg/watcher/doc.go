// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package watcher keeps the generated bootloader configuration current by
// polling the snapshot directory and re-running generation when it
// changes. It integrates with systemd through readiness and watchdog
// notifications.
package watcher
