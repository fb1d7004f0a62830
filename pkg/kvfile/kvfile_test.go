package kvfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    []Option
		want    []string
	}{
		{
			name:    "skips blanks and comments",
			content: "a\n\n# comment\n  b  \n",
			want:    []string{"a", "b"},
		},
		{
			name:    "keeps comments when configured",
			content: "# keep me\nx\n",
			opts:    []Option{WithSkipComments(false)},
			want:    []string{"# keep me", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewParser(tt.opts...).Lines(writeFile(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinesErrors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := NewParser().Lines("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewParser().Lines(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		path := writeFile(t, strings.Repeat("x", 64)+"\n")
		_, err := NewParser(WithMaxSize(16)).Lines(path)
		assert.ErrorContains(t, err, "maximum size")
	})

	t.Run("invalid utf8", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bin")
		require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0xfd}, 0o644))
		_, err := NewParser().Lines(path)
		assert.ErrorContains(t, err, "UTF-8")
	})
}

func TestMap(t *testing.T) {
	t.Run("sidecar metadata", func(t *testing.T) {
		path := writeFile(t, "tags = ondemand\ncomments = before upgrade\n")
		got, err := NewParser().Map(path)
		require.NoError(t, err)
		assert.Equal(t, "ondemand", got["tags"])
		assert.Equal(t, "before upgrade", got["comments"])
	})

	t.Run("grub defaults with quoted values", func(t *testing.T) {
		path := writeFile(t, "GRUB_CMDLINE_LINUX_DEFAULT=\"quiet splash\"\nGRUB_DISABLE_LINUX_UUID='true'\n")
		got, err := NewParser(WithTrimChars(`"'`)).Map(path)
		require.NoError(t, err)
		assert.Equal(t, "quiet splash", got["GRUB_CMDLINE_LINUX_DEFAULT"])
		assert.Equal(t, "true", got["GRUB_DISABLE_LINUX_UUID"])
	})

	t.Run("key without value", func(t *testing.T) {
		path := writeFile(t, "orphan\n")
		got, err := NewParser(WithValueDefault("N/A")).Map(path)
		require.NoError(t, err)
		assert.Equal(t, "N/A", got["orphan"])
	})
}

func TestFields(t *testing.T) {
	path := writeFile(t, "# /etc/fstab\nUUID=abc / btrfs rw,noatime,subvol=@ 0 1\n/dev/sda2 /boot ext4 defaults 0 2\n")
	got, err := NewParser().Fields(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"UUID=abc", "/", "btrfs", "rw,noatime,subvol=@", "0", "1"}, got[0])
	assert.Equal(t, "/boot", got[1][1])
}
