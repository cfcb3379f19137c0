package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"title case", "The Quick Brown Fox Jumps Over The Lazy Dog.", "the-quick-brown-fox-jumps-over-the-lazy-dog"},
		{"hyphen runs", "The---Quick---Brown Fox Jumps Over---The---Lazy Dog.", "the-quick-brown-fox-jumps-over-the-lazy-dog"},
		{"punctuation stripped", "The Quick Brown Fox: [It Jumps Over The Lazy Dog].", "the-quick-brown-fox-it-jumps-over-the-lazy-dog"},
		{"already canonical", "calculus-i", "calculus-i"},
		{"empty", "", ""},
		{"only punctuation", "!!! ...", ""},
		{"digits kept", "Year 1", "year-1"},
		{"interior apostrophe", "Euler's Method", "eulers-method"},
		{"leading dot hides", ".Logs", "logs"},
		{"mixed separators", "semester\t1\ncalculus", "semester-1-calculus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonicalize(tt.input))
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Calculus I",
		"calculus-i",
		"The Quick Brown Fox",
		"...",
		"",
		"Year 1/Semester 1",
		"UPPER lower MiXeD",
	}

	for _, in := range inputs {
		once := Canonicalize(in)
		assert.Equal(t, once, Canonicalize(once), "canonicalize must be idempotent for %q", in)
	}
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden(".logs"))
	assert.True(t, IsHidden("Drafts"))
	assert.True(t, IsHidden(""))
	assert.True(t, IsHidden("..."))
	assert.False(t, IsHidden("calculus"))
	assert.False(t, IsHidden("year-1"))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"Quick", "Brown", "Fox"}, Words("Quick-Brown_Fox"))
	assert.Equal(t, []string{"Eulers", "Method"}, Words("Euler's Method!"))
	assert.Empty(t, Words("---"))
}
