package text

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunk_Basics(t *testing.T) {
	if got := Chunk("", 100); got != nil {
		t.Errorf("Chunk(\"\") = %v, want nil", got)
	}
	if got := Chunk("   ", 100); got != nil {
		t.Errorf("Chunk(whitespace) = %v, want nil", got)
	}

	short := "A short chapter."
	got := Chunk(short, 100)
	if len(got) != 1 || got[0] != short {
		t.Errorf("Chunk(short) = %v, want [%q]", got, short)
	}
}

func TestChunk_SentenceBoundaries(t *testing.T) {
	got := Chunk("One. Two. Three.", 10)
	want := []string{"One. Two.", "Three."}
	if len(got) != len(want) {
		t.Fatalf("Chunk() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChunk_QuotedSentence(t *testing.T) {
	got := Chunk(`He said "Stop!" Then he left quietly.`, 25)
	want := []string{`He said "Stop!"`, "Then he left quietly."}
	if len(got) != len(want) {
		t.Fatalf("Chunk() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChunk_OversizedWord(t *testing.T) {
	got := Chunk(strings.Repeat("a", 25), 10)
	want := []string{strings.Repeat("a", 10), strings.Repeat("a", 10), strings.Repeat("a", 5)}
	if len(got) != len(want) {
		t.Fatalf("Chunk() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChunk_RespectsLimit(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 300; i++ {
		sb.WriteString("The quick brown fox jumps over the lazy dog. ")
	}
	input := sb.String()

	for _, max := range []int{50, 200, DefaultChunkSize} {
		chunks := Chunk(input, max)
		if len(chunks) == 0 {
			t.Fatalf("max=%d: no chunks", max)
		}
		var joinedLen int
		for i, c := range chunks {
			if c == "" {
				t.Errorf("max=%d: chunk %d is empty", max, i)
			}
			if n := utf8.RuneCountInString(c); n > max {
				t.Errorf("max=%d: chunk %d has %d runes", max, i, n)
			}
			joinedLen += len(c)
		}
		// Nothing but separator whitespace may be lost.
		if joined := strings.Join(chunks, " "); len(joined) != len(strings.TrimSpace(input)) {
			t.Errorf("max=%d: joined length %d, want %d", max, len(joined), len(strings.TrimSpace(input)))
		}
	}
}

func TestChunk_DefaultSize(t *testing.T) {
	input := strings.Repeat("Word after word after word. ", 400) // ~11k runes
	chunks := Chunk(input, 0)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > DefaultChunkSize {
			t.Errorf("chunk %d has %d runes, limit %d", i, n, DefaultChunkSize)
		}
	}
}
