package logging

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestLogger_UsesRequestID(t *testing.T) {
	buf := captureLog(t)

	ctx := WithRequestID(context.Background(), "abc123")
	NewLogger(ctx).LogInfof("run_tool", "tool=%s", "interior-ai")

	assert.Equal(t, "[info] request_id=abc123 operation=run_tool tool=interior-ai\n", buf.String())
}

func TestLogger_BackgroundContext(t *testing.T) {
	buf := captureLog(t)

	NewLogger(context.Background()).LogError("poll", errors.New("boom"))

	assert.Equal(t, "[error] request_id=background operation=poll error=boom\n", buf.String())
}

func TestRequestID_Missing(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}
