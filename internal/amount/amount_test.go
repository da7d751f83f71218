package amount

import (
	"math"
	"testing"
)

func TestFromFloat(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		want    int64
		wantErr bool
	}{
		{name: "two decimals", in: 42.42, want: 4242},
		{name: "whole euros", in: 10, want: 1000},
		{name: "single cent", in: 0.01, want: 1},
		{name: "zero", in: 0, wantErr: true},
		{name: "negative", in: -1.50, wantErr: true},
		{name: "sub-cent precision", in: 42.425, wantErr: true},
		{name: "NaN", in: math.NaN(), wantErr: true},
		{name: "infinite", in: math.Inf(1), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromFloat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromFloat(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Fatalf("FromFloat(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "two decimals", in: "42.42", want: 4242},
		{name: "no decimals", in: "42", want: 4200},
		{name: "one decimal", in: "42.5", want: 4250},
		{name: "zero", in: "0.00", wantErr: true},
		{name: "negative", in: "-5", wantErr: true},
		{name: "three decimals", in: "1.234", wantErr: true},
		{name: "not a number", in: "abc", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "trailing dot", in: "42.", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Fatalf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if got := Format(4242); got != "42.42" {
		t.Fatalf("Format(4242) = %s, want 42.42", got)
	}
	if got := Format(5); got != "0.05" {
		t.Fatalf("Format(5) = %s, want 0.05", got)
	}
	if got := Format(1000); got != "10.00" {
		t.Fatalf("Format(1000) = %s, want 10.00", got)
	}
}
