// SPDX-License-Identifier: MIT

package topics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidName(t *testing.T) {
	require.True(t, ValidName("a/b/c"))
	require.True(t, ValidName("$SYS/stats"))
	require.False(t, ValidName(""))
	require.False(t, ValidName("a/+/b"))
	require.False(t, ValidName("a/#"))
}

func TestValidFilter(t *testing.T) {
	cases := []struct {
		filter string
		valid  bool
	}{
		{"a/b/c", true},
		{"a/+/c", true},
		{"a/#", true},
		{"#", true},
		{"+", true},
		{"a/+", true},
		{"a/b#", false},
		{"a/#/c", false},
		{"a+/b", false},
		{"", false},
		{"$share/group/a/b", true},
		{"$share//a/b", false},
		{"$share/grp+/a", false},
	}
	for _, c := range cases {
		require.Equal(t, c.valid, ValidFilter(c.filter), "filter %q", c.filter)
	}
}

func TestSharedFilter(t *testing.T) {
	group, rest, ok := SharedFilter("$share/workers/a/b")
	require.True(t, ok)
	require.Equal(t, "workers", group)
	require.Equal(t, "a/b", rest)

	_, _, ok = SharedFilter("a/b")
	require.False(t, ok)

	_, _, ok = SharedFilter("$share/onlygroup")
	require.False(t, ok)
}

func TestMatches(t *testing.T) {
	cases := []struct {
		filter, name string
		match        bool
	}{
		{"a/b/c", "a/b/c", true},
		{"a/+/c", "a/b/c", true},
		{"a/+/c", "a/b/c/d", false},
		{"a/#", "a/b/c", true},
		{"a/#", "a", true},
		{"#", "$SYS/stats", false},
		{"+/stats", "$SYS/stats", false},
		{"a/b", "a/c", false},
	}
	for _, c := range cases {
		require.Equal(t, c.match, Matches(c.filter, c.name), "filter %q name %q", c.filter, c.name)
	}
}

func TestFilterKeyStable(t *testing.T) {
	require.Equal(t, FilterKey("a/b/c"), FilterKey("a/b/c"))
	require.NotEqual(t, FilterKey("a/b/c"), FilterKey("a/b/d"))
}
