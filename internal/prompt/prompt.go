// Package prompt reads validated values from an interactive terminal.
//
// Every question loops until the answer parses and passes its checks, so callers
// only ever see accepted values. An empty answer selects the default when the
// question has one.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
)

// ErrNoInput is returned when the input ends before a value was accepted
var ErrNoInput = errors.New("no more input")

// Check validates a parsed value
type Check func(v float64) error

// Positive rejects zero and negative values
func Positive(v float64) error {
	if v <= 0 {
		return errors.New("must be greater than 0")
	}
	return nil
}

// NonNegative rejects negative values
func NonNegative(v float64) error {
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// Prompter asks questions on out and reads answers line by line from in
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer

	once  sync.Once
	lines chan line
}

type line struct {
	text string
	err  error
	eof  bool
}

// New creates a prompter
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
		lines:   make(chan line),
	}
}

// Int asks for a required integer
func (p *Prompter) Int(ctx context.Context, label string, checks ...Check) (int, error) {
	return ask(ctx, p, label, parseInt, nil, checks)
}

// Float asks for a required number
func (p *Prompter) Float(ctx context.Context, label string, checks ...Check) (float64, error) {
	return ask(ctx, p, label, parseFloat, nil, checks)
}

// FloatDefault asks for a number, returning def on an empty answer
func (p *Prompter) FloatDefault(ctx context.Context, label string, def float64, checks ...Check) (float64, error) {
	return ask(ctx, p, label, parseFloat, &def, checks)
}

// read feeds lines to readLine until the input ends
func (p *Prompter) read() {
	defer close(p.lines)
	for p.scanner.Scan() {
		p.lines <- line{text: p.scanner.Text()}
	}
	p.lines <- line{err: p.scanner.Err(), eof: true}
}

// readLine waits for the next answer or for ctx to be done
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.once.Do(func() { go p.read() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-p.lines:
		switch {
		case !ok:
			return "", ErrNoInput
		case l.err != nil:
			return "", fmt.Errorf("failed to read input: %w", l.err)
		case l.eof:
			return "", ErrNoInput
		}
		return l.text, nil
	}
}

func ask[T int | float64](ctx context.Context, p *Prompter, label string, parse func(string) (T, error), def *T, checks []Check) (T, error) {
	var zero T
	for {
		fmt.Fprint(p.out, label)

		text, err := p.readLine(ctx)
		if err != nil {
			return zero, err
		}

		raw := strings.TrimSpace(text)
		if raw == "" && def != nil {
			fmt.Fprintf(p.out, "Using default value = %v.\n", *def)
			return *def, nil
		}

		v, err := parse(raw)
		for i := 0; err == nil && i < len(checks); i++ {
			err = checks[i](float64(v))
		}
		if err != nil {
			fmt.Fprintf(p.out, "Invalid value '%s': %v. Retry.\n", raw, err)
			continue
		}

		return v, nil
	}
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("not an integer")
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a number")
	}
	return v, nil
}
