package grubmenu

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivisn00b/timesnap-btrfs/pkg/bootfiles"
	"github.com/vivisn00b/timesnap-btrfs/pkg/btrfs"
	"github.com/vivisn00b/timesnap-btrfs/pkg/config"
	"github.com/vivisn00b/timesnap-btrfs/pkg/errors"
)

func TestParseColumns(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []Column
	}{
		{
			name:  "ordered subset",
			input: []string{"snapshot", "date"},
			want:  []Column{ColumnSnapshot, ColumnDate},
		},
		{
			name:  "case insensitive with whitespace",
			input: []string{" DATE ", "Tag"},
			want:  []Column{ColumnDate, ColumnTag},
		},
		{
			name:  "invalid names skipped",
			input: []string{"date", "bogus", "description"},
			want:  []Column{ColumnDate, ColumnDescription},
		},
		{
			name:  "all invalid falls back to full set",
			input: []string{"nope", "nada"},
			want:  []Column{ColumnDate, ColumnSnapshot, ColumnTag, ColumnDescription},
		},
		{
			name:  "empty falls back to full set",
			input: nil,
			want:  []Column{ColumnDate, ColumnSnapshot, ColumnTag, ColumnDescription},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseColumns(tc.input))
		})
	}
}

func TestLayoutRows(t *testing.T) {
	snaps := []btrfs.Snapshot{
		{OTime: "2026-08-01 10:00:00", Path: "snapshots/100/snapshot", Tag: "pre", Description: "pacman upgrade"},
		{OTime: "2026-08-02 11:30:00", Path: "snapshots/7/snapshot", Tag: "N/A", Description: "N/A"},
	}
	l := NewLayout([]Column{ColumnDate, ColumnSnapshot, ColumnTag}, snaps)

	assert.Equal(t, "2026-08-01 10:00:00 | snapshots/100/snapshot | pre", l.Row(snaps[0]))
	// shorter values pad to the widest value of their column
	assert.Equal(t, "2026-08-02 11:30:00 | snapshots/7/snapshot   | N/A", l.Row(snaps[1]))
}

func TestLayoutHeaderCentering(t *testing.T) {
	snaps := []btrfs.Snapshot{
		{OTime: "2026-08-01 10:00:00", Path: "snapshots/100/snapshot", Tag: "a"},
	}
	l := NewLayout([]Column{ColumnDate, ColumnTag}, snaps)

	// "Date" centered over 19 chars; "Tag" wider than the single-char data
	// stays unpadded.
	assert.Equal(t, "       Date        | Tag", l.HeaderRow())
}

func TestLayoutNonASCIIWidths(t *testing.T) {
	snaps := []btrfs.Snapshot{
		{OTime: "2026-08-01 10:00:00", Tag: "müde"},
		{OTime: "2026-08-02 10:00:00", Tag: "x"},
	}
	l := NewLayout([]Column{ColumnTag}, snaps)

	// widths count runes, not bytes
	assert.Equal(t, "müde", l.Row(snaps[0]))
	assert.Equal(t, "x   ", l.Row(snaps[1]))
	assert.Equal(t, "Tag ", l.HeaderRow())
}

func testEntryContext(t *testing.T, kernels ...string) EntryContext {
	t.Helper()
	dir := t.TempDir()
	for _, k := range kernels {
		require.NoError(t, os.WriteFile(filepath.Join(dir, k), []byte("x"), 0o644))
	}
	return EntryContext{
		Snapshot:   btrfs.Snapshot{ID: 257, OTime: "2026-08-01 10:00:00", Path: "snapshots/1/snapshot"},
		BootDir:    dir,
		BootPath:   "/snapshots/1/snapshot/boot",
		BootUUID:   "0b56138b-6124-4ec4-a7a3-7c503516a65c",
		RootTarget: "UUID=4f5c33b5-43c8-4f35-a2dc-3a262b2d5f35",
		KernelArgs: "rw quiet",
		RootFlags:  "relatime,subvol=snapshots/1/snapshot",
		GroupID:    "timesnap-0b56138b-6124-4ec4-a7a3-7c503516a65c",
	}
}

func TestBuilderEntry(t *testing.T) {
	cfg := config.Default()
	b := NewBuilder(cfg)
	ctx := testEntryContext(t, "vmlinuz-linux")

	blocks := b.Entries(ctx, &bootfiles.ArtifactSet{
		Kernels:   []string{"vmlinuz-linux"},
		Initramfs: []string{"initramfs-linux.img"},
		Microcode: []string{"intel-ucode.img"},
	})
	require.Len(t, blocks, 1)
	entry := blocks[0]

	assert.Contains(t, entry, "menuentry 'vmlinuz-linux initramfs-linux.img intel-ucode.img'")
	assert.Contains(t, entry, "$menuentry_id_option 'timesnap-0b56138b-6124-4ec4-a7a3-7c503516a65c'")
	assert.Contains(t, entry, "insmod btrfs")
	assert.Contains(t, entry, "search --no-floppy --fs-uuid --set=root 0b56138b-6124-4ec4-a7a3-7c503516a65c")
	assert.Contains(t, entry,
		`linux "/snapshots/1/snapshot/boot/vmlinuz-linux" root=UUID=4f5c33b5-43c8-4f35-a2dc-3a262b2d5f35 rw quiet rootflags=relatime,subvol=snapshots/1/snapshot`)
	// microcode precedes the initramfs on the initrd line
	assert.Contains(t, entry,
		`initrd "/snapshots/1/snapshot/boot/intel-ucode.img" "/snapshots/1/snapshot/boot/initramfs-linux.img"`)
	assert.NotContains(t, entry, "cryptodisk")
	assert.NotContains(t, entry, "btrfs_subvolid")
}

func TestBuilderEntryToggles(t *testing.T) {
	cfg := config.Default()
	cfg.EnableCryptodisk = true
	cfg.FixedSubvolID = true
	b := NewBuilder(cfg)
	ctx := testEntryContext(t, "vmlinuz-linux")

	blocks := b.Entries(ctx, &bootfiles.ArtifactSet{Kernels: []string{"vmlinuz-linux"}})
	require.Len(t, blocks, 1)

	assert.Contains(t, blocks[0], "insmod cryptodisk")
	assert.Contains(t, blocks[0], "insmod luks")
	assert.Contains(t, blocks[0], "set btrfs_subvolid=257")
	// kernel-only boot has no initrd line
	assert.NotContains(t, blocks[0], "initrd")
}

func TestBuilderSkipsVanishedKernel(t *testing.T) {
	b := NewBuilder(config.Default())
	ctx := testEntryContext(t, "vmlinuz-linux")

	blocks := b.Entries(ctx, &bootfiles.ArtifactSet{
		Kernels: []string{"vmlinuz-linux", "vmlinuz-gone"},
	})
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0], "vmlinuz-linux")
}

func testDocument(cfg *config.Config, blocks ...string) *Document {
	snaps := []btrfs.Snapshot{{OTime: "2026-08-01 10:00:00", Path: "snapshots/1/snapshot", Tag: "N/A", Description: "N/A"}}
	layout := NewLayout(ParseColumns(cfg.TitleColumns), snaps)
	doc := NewDocument(cfg, layout, "timesnap-uuid")
	if len(blocks) > 0 {
		doc.AddGroup(snaps[0], blocks)
	}
	return doc
}

func TestDocumentRender(t *testing.T) {
	cfg := config.Default()
	doc := testDocument(cfg, "menuentry 'a' {\n\ttrue\n}")

	out := doc.Render()
	assert.Contains(t, out, "submenu 'Btrfs snapshots' $menuentry_id_option 'timesnap-uuid' {")
	assert.Contains(t, out, "\tsubmenu '---|")
	assert.Contains(t, out, "\t\ttrue")
	assert.Contains(t, out, "\tsubmenu '2026-08-01 10:00:00 | snapshots/1/snapshot | N/A | N/A' {")
	assert.Contains(t, out, "\t\tmenuentry 'a' {")
	assert.Equal(t, 1, doc.EntryCount())
}

func TestDocumentProtectionFlags(t *testing.T) {
	cfg := config.Default()
	cfg.AuthorizedUsers = []string{"root", "admin"}
	assert.Contains(t, testDocument(cfg).Render(), "submenu 'Btrfs snapshots' --users root,admin ")

	cfg.DisableProtection = true
	assert.Contains(t, testDocument(cfg).Render(), "submenu 'Btrfs snapshots' --unrestricted ")
}

func TestDocumentDropsEmptyGroups(t *testing.T) {
	doc := testDocument(config.Default())
	doc.AddGroup(btrfs.Snapshot{Path: "snapshots/9/snapshot"}, nil)
	assert.Equal(t, 0, doc.EntryCount())
}

func TestStubFragment(t *testing.T) {
	out := StubFragment("timesnap-btrfs.cfg")
	assert.Equal(t, "if [ -s \"${prefix}/timesnap-btrfs.cfg\" ]; then\n\tsource \"${prefix}/timesnap-btrfs.cfg\"\nfi\n", out)
}

type fakeChecker struct {
	err error
}

func (f fakeChecker) Check(_ context.Context, _ string) error {
	return f.err
}

func TestWriterCommit(t *testing.T) {
	cfg := config.Default()

	t.Run("zero entries leaves previous configuration", func(t *testing.T) {
		final := filepath.Join(t.TempDir(), "timesnap-btrfs.cfg")
		require.NoError(t, os.WriteFile(final, []byte("previous"), 0o644))

		w := &Writer{FinalPath: final, Checker: fakeChecker{}}
		err := w.Commit(context.Background(), testDocument(cfg))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeNoSnapshotsFound, errors.CodeOf(err))

		data, err := os.ReadFile(final)
		require.NoError(t, err)
		assert.Equal(t, "previous", string(data))
	})

	t.Run("valid document promotes and drops backup", func(t *testing.T) {
		final := filepath.Join(t.TempDir(), "timesnap-btrfs.cfg")
		require.NoError(t, os.WriteFile(final, []byte("previous"), 0o644))

		doc := testDocument(cfg, "menuentry 'a' {\n\ttrue\n}")
		w := &Writer{FinalPath: final, Checker: fakeChecker{}}
		require.NoError(t, w.Commit(context.Background(), doc))

		data, err := os.ReadFile(final)
		require.NoError(t, err)
		assert.Equal(t, doc.Render(), string(data))

		assert.NoFileExists(t, final+".new")
		assert.NoFileExists(t, final+".bkp")
	})

	t.Run("rejected document restores previous configuration", func(t *testing.T) {
		final := filepath.Join(t.TempDir(), "timesnap-btrfs.cfg")
		require.NoError(t, os.WriteFile(final, []byte("previous"), 0o644))

		checkErr := errors.New(errors.ErrCodeInvalidGeneratedSyntax, "syntax error at line 3")
		w := &Writer{FinalPath: final, Checker: fakeChecker{err: checkErr}}
		err := w.Commit(context.Background(), testDocument(cfg, "menuentry 'a' {\n\ttrue\n}"))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidGeneratedSyntax, errors.CodeOf(err))

		data, err := os.ReadFile(final)
		require.NoError(t, err)
		assert.Equal(t, "previous", string(data))
		assert.NoFileExists(t, final+".new")
		assert.NoFileExists(t, final+".bkp")
	})

	t.Run("first run with no previous configuration", func(t *testing.T) {
		final := filepath.Join(t.TempDir(), "timesnap-btrfs.cfg")
		w := &Writer{FinalPath: final, Checker: fakeChecker{}}
		require.NoError(t, w.Commit(context.Background(), testDocument(cfg, "menuentry 'a' {\n\ttrue\n}")))
		assert.FileExists(t, final)
	})
}
