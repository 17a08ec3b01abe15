package wiki

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	t.Parallel()

	netErr := fmt.Errorf("resolve: %w", &NetworkError{URL: "https://x", StatusCode: 503, Err: context.DeadlineExceeded})
	require.ErrorIs(t, netErr, ErrNetwork)
	require.ErrorIs(t, netErr, context.DeadlineExceeded)
	require.NotErrorIs(t, netErr, ErrNotFound)
	require.Contains(t, netErr.Error(), "status 503")

	var target *NetworkError
	require.True(t, errors.As(netErr, &target))
	require.Equal(t, 503, target.StatusCode)

	notFound := &NotFoundError{Query: "zzzz"}
	require.ErrorIs(t, notFound, ErrNotFound)
	require.EqualError(t, notFound, `no article found for "zzzz"`)

	malformed := &MalformedDataError{Index: 2, Err: errors.New("unexpected EOF")}
	require.ErrorIs(t, malformed, ErrMalformedData)
	require.EqualError(t, malformed, "structured data block 2: unexpected EOF")

	exportErr := &ExportError{Path: "/tmp/a.pdf", Err: errors.New("disk full")}
	require.ErrorIs(t, exportErr, ErrExport)
	require.NotErrorIs(t, exportErr, ErrNetwork)
}
