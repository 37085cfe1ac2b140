package searchperf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ctrcompare/internal/searchperf"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "dot thousands separator", input: "1.234", expected: 1234},
		{name: "comma thousands separator", input: "1,234", expected: 1234},
		{name: "both separators are stripped", input: "1.234,5", expected: 12345},
		{name: "plain integer", input: "42", expected: 42},
		{name: "leading whitespace", input: "  17", expected: 17},
		{name: "trailing garbage ignored", input: "12 clicks", expected: 12},
		{name: "empty cell", input: "", expected: 0},
		{name: "not a number", input: "n/a", expected: 0},
		{name: "negative value", input: "-5", expected: 0},
		{name: "overflowing value", input: "99999999999999999999999", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, searchperf.ParseCount(tt.input))
		})
	}
}

func TestParseCTR(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "european decimal comma with percent", input: "12,5%", expected: 12.5},
		{name: "dot decimal with percent", input: "3.25%", expected: 3.25},
		{name: "percent with space", input: "7 %", expected: 7},
		{name: "no percent sign", input: "0.5", expected: 0.5},
		{name: "empty cell", input: "", expected: 0},
		{name: "garbage", input: "abc", expected: 0},
		{name: "infinite value", input: "Infinity%", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, searchperf.ParseCTR(tt.input), 1e-9)
		})
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "european decimal floors", input: "3,7", expected: 3},
		{name: "dot decimal floors", input: "9.99", expected: 9},
		{name: "integer", input: "1", expected: 1},
		{name: "below one floors to zero", input: "0,8", expected: 0},
		{name: "negative", input: "-2.5", expected: -3},
		{name: "exponent", input: "1e1", expected: 10},
		{name: "empty cell", input: "", expected: 0},
		{name: "garbage", input: "top", expected: 0},
		{name: "huge value is capped", input: "1e400", expected: 2147483647},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, searchperf.ParsePosition(tt.input))
		})
	}
}
