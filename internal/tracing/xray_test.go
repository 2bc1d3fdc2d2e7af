package tracing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The adapter must satisfy the SDK's logging interface
var _ xraylog.Logger = (*xrayLoggerAdapter)(nil)

type stringMsg string

func (s stringMsg) String() string { return string(s) }

func TestLoggerAdapterLevels(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetLevel(logrus.DebugLevel)

	adapter := &xrayLoggerAdapter{logger: base}

	cases := []struct {
		level xraylog.LogLevel
		text  string
	}{
		{xraylog.LogLevelDebug, "debug message"},
		{xraylog.LogLevelInfo, "info message"},
		{xraylog.LogLevelWarn, "warn message"},
		{xraylog.LogLevelError, "error message"},
	}

	for _, tc := range cases {
		buf.Reset()
		adapter.Log(tc.level, stringMsg(tc.text))
		assert.Contains(t, buf.String(), tc.text)
	}
}

func TestInitializeDisabled(t *testing.T) {
	base := logrus.New()

	err := Initialize(Config{Enabled: false}, base)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestTraceJobDisabledPassthrough(t *testing.T) {
	enabled = false

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")

	var seen context.Context
	wantErr := errors.New("job failed")

	err := TraceJob(ctx, "analysis", func(jobCtx context.Context) error {
		seen = jobCtx
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, "marker", seen.Value(ctxKey{}), "context must pass through untouched")
}

func TestSubsegmentHelpersDisabled(t *testing.T) {
	enabled = false

	ctx := context.Background()
	subCtx, seg := StartSubsegment(ctx, "analysis.cs2")
	assert.Equal(t, ctx, subCtx)
	assert.Nil(t, seg)

	assert.NotPanics(t, func() {
		seg.Close(nil)
		seg.Close(fmt.Errorf("late error"))
		AddAnnotation(subCtx, "sport", "cs2")
		AddError(subCtx, errors.New("boom"))
	})
}
