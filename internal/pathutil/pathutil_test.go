package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelative(t *testing.T) {
	tests := []struct {
		name string
		dst  string
		base string
		want string
		ok   bool
	}{
		{"sibling subtrees", "university/year-1/semester-1", "university/year-2/semester-2", "../../year-1/semester-1", true},
		{"up to current dir", ".", "university/year-1", "../../.", true},
		{"common prefix", "tests/profile/common", "tests/profile/notes/calculus", "../../common", true},
		{"descend only", "tests/profile/common/calculus", "tests/profile/common", "calculus", true},
		{"same path", "tests/profile/common", "tests/profile/common", "", true},
		{"dst under parent dir", "../rust", ".", "../rust", true},
		{"base under parent dir", ".", "../rust", "", false},
		{"shared parent dir", "../rust/././bin", "../rust/", "bin", true},
		{"absolute common root", "/tests/profile/common", "/dev/sda/calculus-drive", "../../../tests/profile/common", true},
		{"mixed abs dst", "/abs/path", "rel/base", "/abs/path", true},
		{"mixed abs base", "rel/path", "/abs/base", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Relative(tt.dst, tt.base)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"./tests/profile/notes/calculus", "tests/profile/notes/calculus", true},
		{"../case/..", "..", true},
		{"../case/../tests/../../../of", "../../../of", true},
		{"./tests/../calculus/calculus-i/../", "calculus", true},
		{"./Calculus/Calculus I", "Calculus/Calculus I", true},
		{"./Calculus/../Calculus I/../../p", "../p", true},
		{".", "", false},
		{"a/..", "", false},
	}

	for _, tt := range tests {
		got, ok := Normalize(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	}
}
