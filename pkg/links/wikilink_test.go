package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWikilinks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single", "See [[Project Atlas]] today", []string{"Project Atlas"}},
		{"alias stripped", "See [[Project Atlas|The Atlas]]", []string{"Project Atlas"}},
		{"heading kept", "See [[Project Atlas#Head]]", []string{"Project Atlas#Head"}},
		{"multiple", "[[A]] then [[B]]", []string{"A", "B"}},
		{"trimmed", "[[  spaced out  ]]", []string{"spaced out"}},
		{"unterminated ignored", "start [[dangling", nil},
		{"unterminated tail", "[[ok]] and [[nope", []string{"ok"}},
		{"nested restart", "x [[ y [[real]]", []string{"real"}},
		{"none", "plain text", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractWikilinks(tt.text)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripWikilinks(t *testing.T) {
	assert.Equal(t, "See Project Atlas now", StripWikilinks("See [[Project Atlas]] now"))
	assert.Equal(t, "a|b", StripWikilinks("[[a|b]]"))
	assert.Equal(t, "keep [[dangling", StripWikilinks("keep [[dangling"))
	assert.Equal(t, "x and [[tail", StripWikilinks("[[ x ]] and [[tail"))
}

func TestExtractBlockRefs(t *testing.T) {
	assert.Equal(t, []string{"blk-1"}, ExtractBlockRefs("see ((blk-1))"))
	assert.Equal(t, []string{"blk-1"}, ExtractBlockRefs("see ((blk-1|that one))"))
	assert.Empty(t, ExtractBlockRefs("see ((dangling"))
}

func TestStripBlockRefs(t *testing.T) {
	assert.Equal(t, "see blk-1", StripBlockRefs("see ((blk-1))"))
	assert.Equal(t, "see that one", StripBlockRefs("see ((blk-1|that one))"))
	assert.Equal(t, "see ((dangling", StripBlockRefs("see ((dangling"))
}

func TestExtractTargets(t *testing.T) {
	got := ExtractTargets("See [[Project Atlas#Head]] and [[Other Page|alias]] and [[!!!]]")
	require.Equal(t, []string{"project-atlas", "other-page"}, got)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Project Atlas", "project-atlas"},
		{"  Hello,  World!  ", "hello-world"},
		{"already-slugged", "already-slugged"},
		{"Ünïcode Røcks", "n-code-r-cks"},
		{"!!!", SlugFallback},
		{"", SlugFallback},
		{"A", "a"},
		{"2026 Plans", "2026-plans"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestReplaceWikilinks(t *testing.T) {
	t.Run("preserves heading and alias", func(t *testing.T) {
		in := "See [[Project Atlas|Alias]] and [[Project Atlas#Head]]"
		want := "See [[Project Nova|Alias]] and [[Project Nova#Head]]"
		assert.Equal(t, want, ReplaceWikilinks(in, "Project Atlas", "Project Nova"))
	})
	t.Run("normalized match", func(t *testing.T) {
		in := "[[project   atlas]]"
		assert.Equal(t, "[[Project Nova]]", ReplaceWikilinks(in, "Project Atlas", "Project Nova"))
	})
	t.Run("non-matching copied through", func(t *testing.T) {
		in := "[[Other]] and [[Project Atlas]]"
		assert.Equal(t, "[[Other]] and [[Nova]]", ReplaceWikilinks(in, "Project Atlas", "Nova"))
	})
	t.Run("noop when titles normalize equal", func(t *testing.T) {
		in := "[[Project Atlas]]"
		assert.Equal(t, in, ReplaceWikilinks(in, "Project Atlas", "project ATLAS"))
	})
	t.Run("noop when old normalizes empty", func(t *testing.T) {
		in := "[[Project Atlas]]"
		assert.Equal(t, in, ReplaceWikilinks(in, "!!!", "Nova"))
	})
	t.Run("blank new keeps original target", func(t *testing.T) {
		in := "[[Project Atlas|Alias]]"
		assert.Equal(t, in, ReplaceWikilinks(in, "Project Atlas", "   "))
	})
	t.Run("empty target copied through", func(t *testing.T) {
		in := "[[#just-a-heading]]"
		assert.Equal(t, in, ReplaceWikilinks(in, "Project Atlas", "Nova"))
	})
	t.Run("unterminated untouched", func(t *testing.T) {
		in := "[[Project Atlas]] and [[tail"
		assert.Equal(t, "[[Nova]] and [[tail", ReplaceWikilinks(in, "Project Atlas", "Nova"))
	})
}
