package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/mindchat/internal/embeddings"
	"github.com/ziadkadry99/mindchat/internal/progress"
)

var vocabulary = []string{"go", "goroutine", "channel", "python", "snake", "list"}

// wordEmbedding counts vocabulary words plus a constant bias so no vector
// is zero.
func wordEmbedding(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, len(vocabulary)+1)
	vec[len(vocabulary)] = 0.1
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,:;!?")
		for i, v := range vocabulary {
			if w == v {
				vec[i]++
			}
		}
	}
	return embeddings.Normalize(vec), nil
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(chromem.EmbeddingFunc(wordEmbedding))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSearchRanksAndDeduplicates(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	texts := map[string]string{
		"go.md":     "A goroutine talks over a channel. Go go go.",
		"copy.md":   "A goroutine talks over a channel.  Go go go.",
		"python.md": "Python is named after a comedy troupe, not a snake.",
		"lists.md":  "A python list grows as needed.",
	}
	for src, text := range texts {
		if _, err := s.AddText(ctx, src, text); err != nil {
			t.Fatalf("AddText(%s): %v", src, err)
		}
	}
	if s.Count() != 4 {
		t.Fatalf("Count() = %d", s.Count())
	}

	got, err := s.Search(ctx, "goroutine channel", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d: %+v", len(got), got)
	}
	if !strings.Contains(got[0].Text, "goroutine") {
		t.Errorf("best match = %q", got[0].Text)
	}
	if normalize(got[0].Text) == normalize(got[1].Text) {
		t.Error("duplicate passage returned")
	}
	if got[0].Source != "go.md" && got[0].Source != "copy.md" {
		t.Errorf("Source = %q", got[0].Source)
	}
}

func TestSearchEdgeCases(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if got, err := s.Search(ctx, "go", 3); err != nil || got != nil {
		t.Errorf("empty store: %v, %v", got, err)
	}

	if _, err := s.AddText(ctx, "a.md", "go channel"); err != nil {
		t.Fatal(err)
	}
	if got, err := s.Search(ctx, "go", 10); err != nil || len(got) != 1 {
		t.Errorf("n larger than store: %v, %v", got, err)
	}
	if got, _ := s.Search(ctx, "   ", 3); got != nil {
		t.Error("blank query should return nothing")
	}
	if got, _ := s.Search(ctx, "go", 0); got != nil {
		t.Error("n=0 should return nothing")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "intro.md", "Go has goroutines.")
	writeFile(t, dir, "notes/python.txt", "Python lists.\n\nPython snakes.")
	writeFile(t, dir, "notes/deep/more.md", "Channels.")
	writeFile(t, dir, "image.png", "not text")

	s := newStore(t)
	n, err := s.LoadDir(context.Background(), dir, []string{"**/*.md", "**/*.txt", "*.md"}, progress.Nop{})
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if n != 3 {
		t.Errorf("indexed %d files, want 3", n)
	}
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3 (small paragraphs pack into one passage)", s.Count())
	}
}

func TestLoadDirFixture(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	n, err := s.LoadDir(ctx, filepath.Join("..", "..", "testdata", "knowledge"), []string{"**/*.md", "**/*.txt"}, progress.Nop{})
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if n != 3 {
		t.Fatalf("indexed %d files, want 3", n)
	}

	got, err := s.Search(ctx, "cells", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	sources := make(map[string]bool)
	for _, p := range got {
		sources[p.Source] = true
	}
	for _, want := range []string{"biology/cells.md", "biology/photosynthesis.md", "geology.txt"} {
		if !sources[want] {
			t.Errorf("missing source %s in %v", want, sources)
		}
	}
}

func TestLoadDirErrors(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.LoadDir(ctx, filepath.Join(t.TempDir(), "missing"), []string{"**/*.md"}, nil); err == nil {
		t.Error("expected error for missing dir")
	}

	file := filepath.Join(t.TempDir(), "f.md")
	os.WriteFile(file, []byte("x"), 0o644)
	if _, err := s.LoadDir(ctx, file, []string{"**/*.md"}, nil); err == nil {
		t.Error("expected error for a file path")
	}

	if _, err := s.LoadDir(ctx, t.TempDir(), []string{"[unclosed"}, nil); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestChunk(t *testing.T) {
	if got := Chunk("  \n\n ", 100); len(got) != 0 {
		t.Errorf("blank text: %q", got)
	}

	got := Chunk("one\n\ntwo\n\nthree", 100)
	if len(got) != 1 || got[0] != "one\n\ntwo\n\nthree" {
		t.Errorf("packing: %q", got)
	}

	got = Chunk("aaaa\n\nbbbb\n\ncccc", 10)
	if len(got) != 2 || got[0] != "aaaa\n\nbbbb" || got[1] != "cccc" {
		t.Errorf("splitting paragraphs: %q", got)
	}

	long := strings.Repeat("界", 25)
	got = Chunk(long, 10)
	if len(got) != 3 {
		t.Fatalf("long paragraph: %q", got)
	}
	for _, c := range got {
		if n := len([]rune(c)); n > 10 {
			t.Errorf("chunk has %d runes", n)
		}
	}
	if strings.Join(got, "") != long {
		t.Error("runes lost while splitting")
	}
}
