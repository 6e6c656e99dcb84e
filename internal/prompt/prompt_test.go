package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestIntAcceptsValidAnswer(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("10\n"), &out)

	got, err := p.Int(context.Background(), "Enter a number: ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if out.String() != "Enter a number: " {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestIntRetriesUntilValid(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("abc\n12.5\n-3\n\n7\n"), &out)

	got, err := p.Int(context.Background(), "Elevation (m): ", NonNegative)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}

	text := out.String()
	for _, want := range []string{
		"Invalid value 'abc': not an integer. Retry.",
		"Invalid value '12.5': not an integer. Retry.",
		"Invalid value '-3': must not be negative. Retry.",
		"Invalid value '': not an integer. Retry.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output %q", want, text)
		}
	}
	if n := strings.Count(text, "Elevation (m): "); n != 5 {
		t.Fatalf("expected the question 5 times, got %d", n)
	}
}

func TestDefaults(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("\n  \n4.5\n"), &out)

	speed, err := p.FloatDefault(context.Background(), "Speed: ", 300, Positive)
	if err != nil || speed != 300 {
		t.Fatalf("expected default 300, got %v (%v)", speed, err)
	}
	horiz, err := p.FloatDefault(context.Background(), "Horizontal: ", 4, Positive)
	if err != nil || horiz != 4 {
		t.Fatalf("expected default 4, got %v (%v)", horiz, err)
	}
	margin, err := p.FloatDefault(context.Background(), "Margin: ", 20)
	if err != nil || margin != 4.5 {
		t.Fatalf("expected 4.5, got %v (%v)", margin, err)
	}

	if !strings.Contains(out.String(), "Using default value = 300.") ||
		!strings.Contains(out.String(), "Using default value = 4.") {
		t.Fatalf("expected default notices in %q", out.String())
	}
}

func TestFloatRejectsNonFiniteAndNonPositive(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("NaN\nInf\n0\n-1\n3.25\n"), &out)

	got, err := p.Float(context.Background(), "Speed: ", Positive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3.25 {
		t.Fatalf("expected 3.25, got %v", got)
	}
	if n := strings.Count(out.String(), "Retry."); n != 4 {
		t.Fatalf("expected 4 retries, got %d", n)
	}
}

func TestEndOfInput(t *testing.T) {
	p := New(strings.NewReader("oops\n"), &bytes.Buffer{})

	if _, err := p.Float(context.Background(), "Distance: "); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestEndOfInputIsSticky(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})

	for i := 0; i < 2; i++ {
		if _, err := p.Int(context.Background(), "Elevation: "); !errors.Is(err, ErrNoInput) {
			t.Fatalf("read %d: expected ErrNoInput, got %v", i, err)
		}
	}
}

func TestCanceledWhileWaiting(t *testing.T) {
	// nothing is ever written, so the read blocks
	in, w := io.Pipe()
	defer w.Close()

	p := New(in, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := p.Float(ctx, "Distance: ")
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("prompt did not return after cancel")
	}
}
