package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/lexandro/assetview-mcp/filetype"
)

func rawManifest(n int) []RawEntry {
	raw := make([]RawEntry, n)
	for i := range raw {
		raw[i] = RawEntry{Path: fmt.Sprintf("assets\\dir%d\\file%d.txt", i%3, i), Size: int64(i)}
	}
	return raw
}

func Test_Map_CompleteForAnyBatchSize(t *testing.T) {
	raw := rawManifest(37)

	for _, batchSize := range []int{1, 2, 5, 36, 37, 38, 800} {
		t.Run(fmt.Sprintf("batch_%d", batchSize), func(t *testing.T) {
			entries, err := Map(context.Background(), raw, MapOptions{BatchSize: batchSize})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(entries) != len(raw) {
				t.Fatalf("expected %d entries, got %d", len(raw), len(entries))
			}
			for i, entry := range entries {
				if entry.ID != i {
					t.Fatalf("entry %d has id %d", i, entry.ID)
				}
				want := fmt.Sprintf("assets/dir%d/file%d.txt", i%3, i)
				if entry.Path != want {
					t.Fatalf("entry %d path = %q, want %q", i, entry.Path, want)
				}
			}
		})
	}
}

func Test_Map_ProgressPerBatch(t *testing.T) {
	raw := rawManifest(10)

	var calls [][2]int
	_, err := Map(context.Background(), raw, MapOptions{
		BatchSize:  4,
		OnProgress: func(done, total int) { calls = append(calls, [2]int{done, total}) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := [][2]int{{4, 10}, {8, 10}, {10, 10}}
	if len(calls) != len(expected) {
		t.Fatalf("expected %d progress calls, got %d: %v", len(expected), len(calls), calls)
	}
	for i := range expected {
		if calls[i] != expected[i] {
			t.Errorf("progress[%d] = %v, want %v", i, calls[i], expected[i])
		}
	}
}

func Test_Map_EmptyManifest(t *testing.T) {
	var calls int
	entries, err := Map(context.Background(), nil, MapOptions{
		OnProgress: func(done, total int) {
			calls++
			if done != 0 || total != 0 {
				t.Errorf("expected progress 0/0, got %d/%d", done, total)
			}
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty catalog, got %d entries", len(entries))
	}
	if calls != 1 {
		t.Errorf("expected a single progress call, got %d", calls)
	}
}

func Test_Map_DefaultBatchSize(t *testing.T) {
	raw := rawManifest(DefaultBatchSize + 1)

	var calls int
	_, err := Map(context.Background(), raw, MapOptions{OnProgress: func(int, int) { calls++ }})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 batches with the default size, got %d", calls)
	}
}

func Test_Map_CancelledBetweenBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	raw := rawManifest(10)

	entries, err := Map(ctx, raw, MapOptions{
		BatchSize: 3,
		OnProgress: func(done, total int) {
			if done == 3 {
				cancel()
			}
		},
	})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if entries != nil {
		t.Errorf("expected no catalog after cancellation, got %d entries", len(entries))
	}
}

func Test_NewEntry_NormalizesPath(t *testing.T) {
	entry := NewEntry(7, RawEntry{Path: "a\\b\\c.txt", Size: 1536})

	if entry.Path != "a/b/c.txt" {
		t.Errorf("expected normalized path a/b/c.txt, got %q", entry.Path)
	}
	if entry.Name != "c.txt" {
		t.Errorf("expected name c.txt, got %q", entry.Name)
	}
	if entry.SizeLabel != "1.5 KB" {
		t.Errorf("expected size label 1.5 KB, got %q", entry.SizeLabel)
	}
	if entry.Type != filetype.Text {
		t.Errorf("expected text type, got %s", entry.Type)
	}
	if entry.ID != 7 {
		t.Errorf("expected id 7, got %d", entry.ID)
	}
}

func Test_NewEntry_NoDirectory(t *testing.T) {
	entry := NewEntry(0, RawEntry{Path: "clip.MP4"})
	if entry.Name != "clip.MP4" {
		t.Errorf("expected name clip.MP4, got %q", entry.Name)
	}
	if entry.Type != filetype.Video {
		t.Errorf("expected video type, got %s", entry.Type)
	}
}
