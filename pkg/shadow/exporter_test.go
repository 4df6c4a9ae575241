package shadow

import (
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/loom/internal/store"
)

func blk(uid string, indent int, t store.BlockType, text string) *store.Block {
	return &store.Block{UID: uid, Indent: indent, Type: t, Text: text}
}

func TestExportGolden(t *testing.T) {
	page := &store.Page{UID: "weekly-review", Title: "Weekly Review"}
	blocks := []*store.Block{
		blk("b1", 0, store.TypeHeading1, "Agenda"),
		blk("b2", 1, store.TypeText, "Review [[Inbox]]"),
		blk("b3", 1, store.TypeTodo, "[x] Clear email"),
		blk("b4", 1, store.TypeTodo, "Water plants"),
		blk("b5", 0, store.TypeQuote, "Make it count"),
		blk("b6", 0, store.TypeDivider, ""),
		blk("b7", 0, store.TypeCode, "fmt.Println(\"hi\")\nreturn"),
		blk("b8", 0, store.TypeCallout, "Remember backups"),
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "weekly_review", []byte(Export(page, blocks)))
}

func TestExportEmptyPage(t *testing.T) {
	page := &store.Page{UID: "empty", Title: "Empty"}
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "empty_page", []byte(Export(page, nil)))
}

func TestExportDeterministic(t *testing.T) {
	page := &store.Page{UID: "p", Title: "P"}
	blocks := []*store.Block{
		blk("x", 0, store.TypeText, "same input"),
		blk("y", 1, store.TypeToggle, "same output"),
	}
	first := Export(page, blocks)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Export(page, blocks))
	}
}

func TestCheckboxInference(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"[x] done thing", "- [x] done thing ^t"},
		{"[ ] open thing", "- [ ] open thing ^t"},
		{"no prefix", "- [ ] no prefix ^t"},
	}
	for _, c := range cases {
		got := Export(&store.Page{UID: "p", Title: "P"},
			[]*store.Block{blk("t", 0, store.TypeTodo, c.text)})
		require.Contains(t, got, c.want+"\n")
	}
}

type fakeSource struct {
	pages  []*store.Page
	blocks map[int64][]*store.Block
}

func (f *fakeSource) ListPages() ([]*store.Page, error) { return f.pages, nil }
func (f *fakeSource) ListBlocks(pageID int64) ([]*store.Block, error) {
	return f.blocks[pageID], nil
}

func TestExportAll(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	src := &fakeSource{
		pages: []*store.Page{
			{ID: 1, UID: "alpha", Title: "Alpha"},
			{ID: 2, UID: "beta", Title: "Beta"},
		},
		blocks: map[int64][]*store.Block{
			1: {blk("a1", 0, store.TypeText, "first")},
		},
	}
	require.NoError(t, w.ExportAll(src))

	for _, uid := range []string{"alpha", "beta"} {
		_, err := os.Stat(w.PagePath(uid))
		require.NoError(t, err, "expected export for %s", uid)
	}
}

func TestWriterIdempotentOverwrite(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	page := &store.Page{UID: "inbox", Title: "Inbox"}
	blocks := []*store.Block{blk("b1", 0, store.TypeText, "hello")}

	require.NoError(t, w.WritePage(page, blocks))
	first, err := os.ReadFile(w.PagePath("inbox"))
	require.NoError(t, err)

	// re-export overwrites in place, same content
	require.NoError(t, w.WritePage(page, blocks))
	second, err := os.ReadFile(w.PagePath("inbox"))
	require.NoError(t, err)
	require.Equal(t, first, second)

	// a changed page replaces the file wholesale
	blocks[0].Text = "goodbye"
	require.NoError(t, w.WritePage(page, blocks))
	third, err := os.ReadFile(w.PagePath("inbox"))
	require.NoError(t, err)
	require.Contains(t, string(third), "goodbye")
	require.NotContains(t, string(third), "hello")
}
