package jsonutil

import (
	"encoding/json"
	"testing"
)

func TestFlexibleString(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  string
	}{
		{name: "string value", input: json.RawMessage(`"Big Mac"`), want: "Big Mac"},
		{name: "integer value", input: json.RawMessage(`563`), want: "563"},
		{name: "float value", input: json.RawMessage(`3.5`), want: "3.5"},
		{name: "boolean", input: json.RawMessage(`true`), want: "true"},
		{name: "null", input: json.RawMessage(`null`), want: ""},
		{name: "nil", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlexibleString(tt.input); got != tt.want {
				t.Errorf("FlexibleString(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFlexibleInt(t *testing.T) {
	tests := []struct {
		name   string
		input  json.RawMessage
		want   int
		wantOK bool
	}{
		{name: "number", input: json.RawMessage(`563`), want: 563, wantOK: true},
		{name: "float rounds", input: json.RawMessage(`562.6`), want: 563, wantOK: true},
		{name: "numeric string", input: json.RawMessage(`"563"`), want: 563, wantOK: true},
		{name: "string with unit", input: json.RawMessage(`"563 cal"`), want: 563, wantOK: true},
		{name: "null", input: json.RawMessage(`null`), wantOK: false},
		{name: "non-numeric string", input: json.RawMessage(`"lots"`), wantOK: false},
		{name: "empty", input: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FlexibleInt(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("FlexibleInt(%s) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("FlexibleInt(%s) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFlexibleFloat(t *testing.T) {
	got, ok := FlexibleFloat(json.RawMessage(`"20g"`))
	if !ok || got != 20 {
		t.Errorf("FlexibleFloat(\"20g\") = %v, %v, want 20, true", got, ok)
	}
}
