// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package bootfiles

// Binding groups one kernel with zero-or-one compatible initramfs and
// zero-or-one microcode image. Empty fields mean the component is absent.
// Ephemeral, used only during entry synthesis.
type Binding struct {
	Kernel    string
	Initramfs string
	Microcode string
}

// Bindings expands the artifact set into the cartesian product of boot
// combinations. Each kernel pairs with every compatible initramfs, one
// binding per match when naming is ambiguous, or with none when nothing
// matches. Microcode is not version-matched: every microcode file combines
// with every pair.
func (s *ArtifactSet) Bindings() []Binding {
	bindings := make([]Binding, 0, len(s.Kernels))

	for _, kernel := range s.Kernels {
		version := versionSuffix(kernel)

		matched := make([]string, 0, 1)
		for _, initramfs := range s.Initramfs {
			if MatchesKernel(initramfs, version) {
				matched = append(matched, initramfs)
			}
		}
		if len(matched) == 0 {
			// kernel-only boot is valid
			matched = append(matched, "")
		}

		microcodes := s.Microcode
		if len(microcodes) == 0 {
			microcodes = []string{""}
		}

		for _, initramfs := range matched {
			for _, microcode := range microcodes {
				bindings = append(bindings, Binding{
					Kernel:    kernel,
					Initramfs: initramfs,
					Microcode: microcode,
				})
			}
		}
	}

	return bindings
}
