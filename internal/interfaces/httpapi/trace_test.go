package httpapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	t.Parallel()

	assert.True(t, shouldCreateHTTPAPISpan("httpapi.Handler.SubmitPick"))
	assert.False(t, shouldCreateHTTPAPISpan("httpapi.writeError"))
	assert.False(t, shouldCreateHTTPAPISpan("httpapi.recoverPanic"))
}

func TestStartSpan_NoParentIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.ListSports")
	defer span.End()

	assert.Equal(t, ctx, got)
	assert.False(t, span.SpanContext().IsValid())
}
