// SPDX-License-Identifier: MIT

// Package topics implements MQTT topic name and topic filter syntax:
// validation, wildcard matching, and shared-subscription parsing. It
// holds no subscriber state — that is broker machinery, out of scope
// here; this package is pure syntax over strings, in the same spirit as
// the packets package over bytes. Grounded on the teacher's topics.go
// IsValidFilter/isolateParticle/IsSharedFilter functions, stripped of the
// subscription trie that used to sit alongside them.
package topics

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// MaxTopicLen mirrors the 16-bit length prefix MQTT uses for every
	// topic string; a topic/filter can never legally exceed this, so it
	// doubles as a fast early-reject before a full scan.
	MaxTopicLen = 65535

	sharePrefix = "$share/"
)

// ValidName reports whether name is a legal topic name for PUBLISH: non-
// empty, at most MaxTopicLen bytes, and no wildcard characters. A leading
// '$' is accepted (publishing to a $-topic from a client is a
// server-policy matter, not a syntax one, so that check is left to the
// caller).
func ValidName(name string) bool {
	if name == "" || len(name) > MaxTopicLen {
		return false
	}
	return !strings.ContainsAny(name, "+#")
}

// ValidFilter reports whether filter is syntactically legal for
// SUBSCRIBE/UNSUBSCRIBE, per the wildcard placement rules: '+' matches
// exactly one level in full, '#' matches any number of trailing levels
// and must be the final level, and neither may be glued to other
// characters within a level.
func ValidFilter(filter string) bool {
	if filter == "" || len(filter) > MaxTopicLen {
		return false
	}
	if group, rest, ok := SharedFilter(filter); ok {
		if group == "" || strings.ContainsAny(group, "+#/") {
			return false
		}
		filter = rest
	}
	levels := strings.Split(filter, "/")
	for i, level := range levels {
		if level == "+" || level == "#" {
			if level == "#" && i != len(levels)-1 {
				return false
			}
			continue
		}
		if strings.ContainsAny(level, "+#") {
			return false
		}
	}
	return true
}

// SharedFilter splits a $share/<group>/<filter> shared-subscription
// filter (MQTT 5 §3.8.3.1) into its group name and the underlying
// filter. ok is false for a non-shared filter, in which case group and
// rest are zero-valued.
func SharedFilter(filter string) (group, rest string, ok bool) {
	if !strings.HasPrefix(filter, sharePrefix) {
		return "", "", false
	}
	tail := filter[len(sharePrefix):]
	idx := strings.IndexByte(tail, '/')
	if idx < 0 {
		return "", "", false
	}
	return tail[:idx], tail[idx+1:], true
}

// Matches reports whether name (a published topic name, never
// containing wildcards) matches filter (a subscription filter, which
// may). Shared-subscription prefixes are not stripped here; callers
// match against the post-SharedFilter remainder.
func Matches(filter, name string) bool {
	if strings.HasPrefix(filter, "$") != strings.HasPrefix(name, "$") {
		// a "#" or "+" at the top level never matches a $-prefixed
		// system topic name, per MQTT 5 §4.7.2.
		return false
	}
	return matchLevels(strings.Split(filter, "/"), strings.Split(name, "/"))
}

func matchLevels(filter, name []string) bool {
	for i, f := range filter {
		if f == "#" {
			return true
		}
		if i >= len(name) {
			return false
		}
		if f != "+" && f != name[i] {
			return false
		}
	}
	return len(filter) == len(name)
}

// FilterKey returns a stable, collision-resistant key for filter, for
// use as a map key in subscriber-tracking structures that live outside
// this package. Grounded on the broker layer's use of a fast
// non-cryptographic hash (xxhash) over trie traversal for filter
// indexing.
func FilterKey(filter string) uint64 {
	return xxhash.Sum64String(filter)
}
