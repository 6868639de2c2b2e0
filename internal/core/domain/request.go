package domain

import "strings"

// Request is one client query: a source path and an optional label.
type Request struct {
	Path  string
	Label string
}

// ParseRequest splits a request line on its first space into path and label.
// A trailing newline (and carriage return) is ignored. A bare path, or a path
// followed by an empty label, asks for the whole filtered buffer.
func ParseRequest(line string) (Request, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	path, label, _ := strings.Cut(line, " ")
	if path == "" {
		return Request{}, ErrInvalidRequest
	}
	return Request{Path: path, Label: label}, nil
}

// HasLabel reports whether the request asks for a single label block.
func (r Request) HasLabel() bool {
	return r.Label != ""
}

// String renders the request in wire form, without the newline.
func (r Request) String() string {
	if r.HasLabel() {
		return r.Path + " " + r.Label
	}
	return r.Path
}
