package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithNewRunID_Unique(t *testing.T) {
	ctx1, id1 := WithNewRunID(context.Background())
	ctx2, id2 := WithNewRunID(context.Background())

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, id1, GetTraceID(ctx1))
	assert.Equal(t, id2, GetTraceID(ctx2))
}

func TestWithComponentAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)

	WithError(WithComponent(logger, "batch"), errors.New("boom")).Info("failed")
	assert.Contains(t, buf.String(), `"component":"batch"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)

	buf.Reset()
	WithError(logger, nil).Info("ok")
	assert.NotContains(t, buf.String(), "error")
}
