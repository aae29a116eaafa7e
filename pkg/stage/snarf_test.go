package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortestUniqueSuffixes(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		expected []string
	}{
		{
			name:     "single path returns its base name",
			paths:    []string{"/var/log/db/data/db.log"},
			expected: []string{"db.log"},
		},
		{
			name:     "shared directory strips to file names",
			paths:    []string{"/var/log/db/a.log", "/var/log/db/b.log"},
			expected: []string{"a.log", "b.log"},
		},
		{
			name:     "divergent subdirectories keep enough to disambiguate",
			paths:    []string{"/var/log/db/node1/out.log", "/var/log/db/node2/out.log"},
			expected: []string{"node1__out.log", "node2__out.log"},
		},
		{
			name:     "no shared prefix keeps full paths",
			paths:    []string{"/a/out.log", "/b/out.log"},
			expected: []string{"a__out.log", "b__out.log"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shortestUniqueSuffixes(tt.paths))
		})
	}
}

func TestIsBenignSnarfError(t *testing.T) {
	assert.True(t, isBenignSnarfError(errString("scp: a.log: No such file or directory")))
	assert.True(t, isBenignSnarfError(errString("read |0: pipe closed")))
	assert.False(t, isBenignSnarfError(errString("connection reset by peer")))
}

type errString string

func (e errString) Error() string { return string(e) }
