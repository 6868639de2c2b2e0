package asm

import (
	"bytes"
	"strings"
)

// scanState is a state of the line classifier.
type scanState uint8

const (
	// stateStart is column 0, nothing consumed yet.
	stateStart scanState = iota
	// stateBlank means only spaces and tabs were seen.
	stateBlank
	// stateDot means the line began with '.'.
	stateDot
	// stateDotL means the line began with ".L".
	stateDotL

	// Terminal states.

	// stateKeep keeps an indented instruction line.
	stateKeep
	// stateLabel keeps a line starting at column 0 and separates it with a blank line.
	stateLabel
	// stateDrop drops a directive line.
	stateDrop

	numScanStates
)

// charClass groups the characters the classifier distinguishes.
type charClass uint8

const (
	charOther charClass = iota
	charBlank
	charDot
	charL
	charDigit

	numCharClasses
)

// transitions drives the classifier. Rows are states, columns character classes.
// Terminal states never leave themselves.
var transitions = [numScanStates][numCharClasses]scanState{
	stateStart: {
		charOther: stateLabel,
		charBlank: stateBlank,
		charDot:   stateDot,
		charL:     stateLabel,
		charDigit: stateLabel,
	},
	stateBlank: {
		charOther: stateKeep,
		charBlank: stateBlank,
		charDot:   stateDrop,
		charL:     stateKeep,
		charDigit: stateKeep,
	},
	stateDot: {
		charOther: stateDrop,
		charBlank: stateDrop,
		charDot:   stateDrop,
		charL:     stateDotL,
		charDigit: stateDrop,
	},
	stateDotL: {
		charOther: stateDrop,
		charBlank: stateDrop,
		charDot:   stateDrop,
		charL:     stateDrop,
		charDigit: stateLabel,
	},
	stateKeep:  {stateKeep, stateKeep, stateKeep, stateKeep, stateKeep},
	stateLabel: {stateLabel, stateLabel, stateLabel, stateLabel, stateLabel},
	stateDrop:  {stateDrop, stateDrop, stateDrop, stateDrop, stateDrop},
}

func classOf(c byte) charClass {
	switch {
	case c == ' ' || c == '\t':
		return charBlank
	case c == '.':
		return charDot
	case c == 'L':
		return charL
	case c >= '0' && c <= '9':
		return charDigit
	default:
		return charOther
	}
}

func (s scanState) terminal() bool {
	return s >= stateKeep
}

// classify runs the state machine over one line without its newline.
// Lines that end before reaching a terminal state (empty, blank, "." or ".L")
// are dropped.
func classify(line []byte) scanState {
	state := stateStart
	for _, c := range line {
		state = transitions[state][classOf(c)]
		if state.terminal() {
			return state
		}
	}
	return stateDrop
}

// Filter is an io.Writer that reduces raw compiler assembly to instruction
// and label lines, appending the kept lines to a Buffer.
//
// Kept lines are indented instructions, lines starting at column 0 (symbol
// labels) and numeric local labels (".L" followed by a digit), which mark jump
// targets inside a function. Labels are preceded by a blank line. Every other
// line whose first non-blank character is '.' is an assembler directive and is
// dropped; ".type <name>, @function" directives are remembered as function names.
type Filter struct {
	buf       *Buffer
	pending   []byte
	functions []string
}

// NewFilter returns a filter writing kept lines to buf.
func NewFilter(buf *Buffer) *Filter {
	return &Filter{buf: buf}
}

// Write consumes raw compiler output. Partial lines are held until their newline arrives.
func (f *Filter) Write(p []byte) (int, error) {
	f.pending = append(f.pending, p...)

	rest := f.pending
	for {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			break
		}
		if err := f.line(rest[:i]); err != nil {
			return 0, err
		}
		rest = rest[i+1:]
	}
	f.pending = append(f.pending[:0], rest...)

	// A line that can never fit is an overflow, even before its newline shows up.
	if len(f.pending) > f.buf.max {
		return 0, f.buf.reserve(len(f.pending) + 1)
	}
	return len(p), nil
}

// Close flushes a final line that was not newline terminated.
func (f *Filter) Close() error {
	if len(f.pending) == 0 {
		return nil
	}
	line := f.pending
	f.pending = nil
	return f.line(line)
}

// Functions returns the function names declared so far, in output order.
func (f *Filter) Functions() []string {
	return f.functions
}

func (f *Filter) line(line []byte) error {
	line = bytes.TrimSuffix(line, []byte{'\r'})

	switch classify(line) {
	case stateLabel:
		if err := f.buf.WriteByte('\n'); err != nil {
			return err
		}
	case stateKeep:
	default:
		if name, ok := functionName(line); ok {
			f.functions = append(f.functions, name)
		}
		return nil
	}

	if _, err := f.buf.Write(line); err != nil {
		return err
	}
	return f.buf.WriteByte('\n')
}

// functionName parses a ".type <name>, @function" directive.
// ARM assemblers spell the type "%function".
func functionName(line []byte) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimLeft(string(line), " \t"), ".type")
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}

	name, kind, ok := strings.Cut(rest, ",")
	if !ok {
		return "", false
	}
	name = strings.TrimSpace(name)
	kind = strings.TrimSpace(kind)
	if name == "" || (kind != "@function" && kind != "%function") {
		return "", false
	}
	return name, true
}

// FilterText filters a complete assembly text in one pass.
// Filtering already filtered text returns it unchanged.
func FilterText(text []byte, maxBytes int) ([]byte, []string, error) {
	f := NewFilter(NewBuffer(maxBytes))
	if _, err := f.Write(text); err != nil {
		return nil, nil, err
	}
	if err := f.Close(); err != nil {
		return nil, nil, err
	}
	return f.buf.Bytes(), f.Functions(), nil
}
