package asm

import (
	"bytes"
	"io"

	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/zerr"
)

// Extract returns the block of text belonging to label: the first line that
// starts with label, followed by every consecutive line starting with a tab.
// The returned slice aliases text.
//
// Matching is by prefix, so "foo" also matches a "foobar:" line that comes first.
func Extract(text []byte, label string) ([]byte, error) {
	if label == "" {
		return nil, zerr.Wrap(domain.ErrLabelNotFound, "empty label")
	}

	start := -1
	for off := 0; off < len(text); {
		end := lineEnd(text, off)
		if bytes.HasPrefix(text[off:end], []byte(label)) {
			start = off
			break
		}
		off = end
	}
	if start < 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrLabelNotFound, "no matching line"), "label", label)
	}

	end := lineEnd(text, start)
	for end < len(text) && text[end] == '\t' {
		end = lineEnd(text, end)
	}
	return text[start:end], nil
}

// lineEnd returns the offset just past the newline ending the line at off,
// or len(text) for an unterminated last line.
func lineEnd(text []byte, off int) int {
	if i := bytes.IndexByte(text[off:], '\n'); i >= 0 {
		return off + i + 1
	}
	return len(text)
}

// WriteLabel writes the block for label to w.
// Nothing is written when the label is absent.
func WriteLabel(w io.Writer, text []byte, label string) error {
	block, err := Extract(text, label)
	if err != nil {
		return err
	}
	_, err = w.Write(block)
	return err
}

// WriteAll writes the whole filtered text to w.
func WriteAll(w io.Writer, text []byte) error {
	_, err := w.Write(text)
	return err
}
