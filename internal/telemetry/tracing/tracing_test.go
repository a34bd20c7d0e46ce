package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndSpanWithErrCheck(t *testing.T) {
	_, span := GlobalTracer.Start(context.Background(), "test")
	var err error
	assert.NotPanics(t, func() {
		EndSpanWithErrCheck(span, &err)
	})

	_, span = GlobalTracer.Start(context.Background(), "test-err")
	err = errors.New("boom")
	assert.NotPanics(t, func() {
		EndSpanWithErrCheck(span, &err)
	})

	_, span = GlobalTracer.Start(context.Background(), "test-nil")
	assert.NotPanics(t, func() {
		EndSpanWithErrCheck(span, nil)
	})
}

func TestHoneycombSetup_Disabled(t *testing.T) {
	shutdown, err := HoneycombSetup(false, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NotPanics(t, shutdown)
}
