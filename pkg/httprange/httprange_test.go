package httprange

import (
	"errors"
	"testing"
)

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		name   string
		header string
		size   int64
		start  int64
		end    int64
	}{
		{name: "closed", header: "bytes=0-99", size: 1000, start: 0, end: 99},
		{name: "single byte", header: "bytes=0-0", size: 1000, start: 0, end: 0},
		{name: "open ended", header: "bytes=500-", size: 1000, start: 500, end: 999},
		{name: "suffix", header: "bytes=-100", size: 1000, start: 900, end: 999},
		{name: "suffix larger than file", header: "bytes=-5000", size: 1000, start: 0, end: 999},
		{name: "end clamped to eof", header: "bytes=900-4000", size: 1000, start: 900, end: 999},
		{name: "last byte", header: "bytes=999-999", size: 1000, start: 999, end: 999},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end, err := Parse(tc.header, tc.size)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tc.header, err)
			}
			if start != tc.start || end != tc.end {
				t.Fatalf("Parse(%q) = [%d,%d], expected [%d,%d]", tc.header, start, end, tc.start, tc.end)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	headers := []string{
		"",
		"bytes",
		"bytes=",
		"bytes=-",
		"bytes=abc-def",
		"bytes=10",
		"bytes=-0",
		"bytes=0-99,200-299",
		"items=0-99",
	}

	for _, h := range headers {
		if _, _, err := Parse(h, 1000); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) = %v, expected ErrMalformed", h, err)
		}
	}
}

func TestParse_Unsatisfiable(t *testing.T) {
	headers := []string{
		"bytes=1000-1010",
		"bytes=1000-",
		"bytes=5000-6000",
		"bytes=10-5",
	}

	for _, h := range headers {
		if _, _, err := Parse(h, 1000); !errors.Is(err, ErrUnsatisfiable) {
			t.Errorf("Parse(%q) = %v, expected ErrUnsatisfiable", h, err)
		}
	}

	if _, _, err := Parse("bytes=0-10", 0); !errors.Is(err, ErrUnsatisfiable) {
		t.Errorf("zero-size resource should be unsatisfiable, got %v", err)
	}
}
