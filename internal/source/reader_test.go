package source

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type memProvider map[string][]byte

func (m memProvider) Open(path string) (io.ReadCloser, error) {
	data, ok := m[path]
	if !ok {
		return nil, errors.New("not found: " + path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestReadLinesBasic(t *testing.T) {
	provider := memProvider{"a.cob": []byte("line one\nline two\nline three")}
	r := NewReader(provider)

	var got []Line
	err := r.ReadLines("a.cob", func(l Line) error {
		cp := make([]byte, len(l.Bytes))
		copy(cp, l.Bytes)
		got = append(got, Line{Number: l.Number, Bytes: cp})
		return nil
	})
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3", len(got))
	}
	for i, want := range []string{"line one", "line two", "line three"} {
		if got[i].Number != i+1 {
			t.Errorf("line %d: Number = %d, want %d", i, got[i].Number, i+1)
		}
		if string(got[i].Bytes) != want {
			t.Errorf("line %d: Bytes = %q, want %q", i, got[i].Bytes, want)
		}
	}
}

func TestReadLinesEmptyInput(t *testing.T) {
	provider := memProvider{"empty.cob": []byte{}}
	r := NewReader(provider)

	count := 0
	err := r.ReadLines("empty.cob", func(Line) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if count != 0 {
		t.Fatalf("got %d lines, want 0", count)
	}
}

func TestReadLinesRestartsAtOneForEachFile(t *testing.T) {
	provider := memProvider{
		"first.cob":  []byte("a\nb\n"),
		"second.cob": []byte("x\n"),
	}
	r := NewReader(provider)

	var firstNums, secondNums []int
	if err := r.ReadLines("first.cob", func(l Line) error {
		firstNums = append(firstNums, l.Number)
		return nil
	}); err != nil {
		t.Fatalf("ReadLines(first): %v", err)
	}
	if err := r.ReadLines("second.cob", func(l Line) error {
		secondNums = append(secondNums, l.Number)
		return nil
	}); err != nil {
		t.Fatalf("ReadLines(second): %v", err)
	}

	if len(firstNums) != 2 || firstNums[0] != 1 || firstNums[1] != 2 {
		t.Errorf("firstNums = %v, want [1 2]", firstNums)
	}
	if len(secondNums) != 1 || secondNums[0] != 1 {
		t.Errorf("secondNums = %v, want [1]", secondNums)
	}
}

func TestReadLinesStripsUTF8BOM(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("IDENTIFICATION DIVISION.\n")...)
	provider := memProvider{"bom.cob": content}
	r := NewReader(provider)

	var got string
	err := r.ReadLines("bom.cob", func(l Line) error {
		got = string(l.Bytes)
		return nil
	})
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if got != "IDENTIFICATION DIVISION." {
		t.Errorf("got %q, want stripped-BOM line", got)
	}
}

func TestReadLinesPropagatesCallbackError(t *testing.T) {
	provider := memProvider{"a.cob": []byte("one\ntwo\n")}
	r := NewReader(provider)

	sentinel := errors.New("stop")
	seen := 0
	err := r.ReadLines("a.cob", func(Line) error {
		seen++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if seen != 1 {
		t.Fatalf("expected callback invoked once before stopping, got %d", seen)
	}
}

func TestOpenMissingFile(t *testing.T) {
	provider := memProvider{}
	r := NewReader(provider)
	err := r.ReadLines("missing.cob", func(Line) error { return nil })
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
