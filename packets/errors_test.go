// SPDX-License-Identifier: MIT

package packets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	a := newError(ErrInvalidQos, 5, "bad qos")
	b := newError(ErrInvalidQos, 99, "different offset, same kind")
	require.True(t, errors.Is(a, b))

	c := newError(ErrInvalidHeader, 5, "different kind")
	require.False(t, errors.Is(a, c))
}

func TestErrorMessageIncludesOffset(t *testing.T) {
	e := newError(ErrInvalidProtocol, 3, "bad protocol name")
	require.Contains(t, e.Error(), "3")
	require.Contains(t, e.Error(), "bad protocol name")
}

func TestWithOffsetRebasesErrorOnly(t *testing.T) {
	e := newError(ErrInvalidString, 2, "x")
	rebased := withOffset(e, 10)
	cerr, ok := rebased.(*Error)
	require.True(t, ok)
	require.Equal(t, 12, cerr.Offset)

	other := errors.New("not an *Error")
	require.Same(t, other, withOffset(other, 10))
}

func TestKindStringNames(t *testing.T) {
	require.Equal(t, "InvalidQos", ErrInvalidQos.String())
	require.Equal(t, "PacketTooLarge", ErrPacketTooLarge.String())
	require.Equal(t, "Unknown", Kind(999).String())
}

func TestNeedMoreIsDistinctFromError(t *testing.T) {
	nm := needMore(3)
	_, isError := error(nm).(*Error)
	require.False(t, isError)
	require.Equal(t, 3, nm.N)
}
