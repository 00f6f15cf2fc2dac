package omeife

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("connection refused")
	err := newError(ErrorCodeTransport, "translate", "http request", cause)

	msg := err.Error()
	for _, want := range []string{"translate", "TRANSPORT", "http request", "connection refused"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}

	bare := newError(ErrorCodeParse, "translate", "no field", nil)
	if strings.Count(bare.Error(), ":") != 2 {
		t.Errorf("unexpected format without cause: %q", bare.Error())
	}
}

func TestCodeOf(t *testing.T) {
	inner := newError(ErrorCodeTransport, "text-to-speech", "http request", errors.New("x"))
	outer := newError(ErrorCodeSynthesis, "synthesize", "speech request failed", inner)

	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain", errors.New("plain"), ""},
		{"direct", inner, ErrorCodeTransport},
		{"outermost wins", outer, ErrorCodeSynthesis},
		{"wrapped", fmt.Errorf("run: %w", inner), ErrorCodeTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusError(t *testing.T) {
	if got := (&StatusError{StatusCode: 500}).Error(); got != "unexpected status 500" {
		t.Errorf("got %q", got)
	}
	if got := (&StatusError{StatusCode: 404, Body: "nope"}).Error(); got != "unexpected status 404: nope" {
		t.Errorf("got %q", got)
	}
}
