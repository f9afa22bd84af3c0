package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "  req-1 ")
	require.Equal(t, "req-1", CorrelationID(ctx))

	require.Empty(t, CorrelationID(context.Background()))
	require.Empty(t, CorrelationID(WithCorrelationID(context.Background(), " ")))
}
