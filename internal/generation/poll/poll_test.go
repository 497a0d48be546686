package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fast() Options {
	return Options{Interval: 5 * time.Millisecond, Timeout: time.Second}
}

func sequence(results ...Result) (CheckFunc, *int32) {
	var calls int32
	return func(ctx context.Context) (Result, error) {
		n := atomic.AddInt32(&calls, 1)
		if int(n) > len(results) {
			return results[len(results)-1], nil
		}
		return results[n-1], nil
	}, &calls
}

func TestUntil_Success(t *testing.T) {
	var pending int32
	opts := fast()
	opts.OnPending = func(Result) { atomic.AddInt32(&pending, 1) }

	check, calls := sequence(
		Result{Status: StatusProcessing},
		Result{Status: StatusProcessing},
		Result{Status: StatusSuccess, URLs: []string{"https://cdn/x.png"}},
	)

	res, err := Until(context.Background(), opts, check)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, []string{"https://cdn/x.png"}, res.URLs)
	assert.EqualValues(t, 3, atomic.LoadInt32(calls))
	assert.EqualValues(t, 2, atomic.LoadInt32(&pending))
}

func TestUntil_Failed(t *testing.T) {
	check, _ := sequence(Result{Status: StatusFailed, Message: "nsfw"})

	res, err := Until(context.Background(), fast(), check)
	assert.ErrorIs(t, err, ErrFailed)
	assert.Equal(t, "nsfw", res.Message)
}

func TestUntil_Timeout(t *testing.T) {
	check, _ := sequence(Result{Status: StatusProcessing})
	opts := Options{Interval: 5 * time.Millisecond, Timeout: 40 * time.Millisecond}

	start := time.Now()
	res, err := Until(context.Background(), opts, check)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, StatusProcessing, res.Status)
	assert.Less(t, time.Since(start), time.Second)
}

func TestUntil_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	check := func(context.Context) (Result, error) {
		cancel()
		return Result{Status: StatusProcessing}, nil
	}

	_, err := Until(ctx, fast(), check)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUntil_CheckErrorIsNotRetried(t *testing.T) {
	boom := errors.New("network down")
	var calls int32
	check := func(context.Context) (Result, error) {
		atomic.AddInt32(&calls, 1)
		return Result{}, boom
	}

	_, err := Until(context.Background(), fast(), check)
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestUntil_WaitsOneIntervalBeforeFirstCheck(t *testing.T) {
	var first time.Time
	check := func(context.Context) (Result, error) {
		first = time.Now()
		return Result{Status: StatusSuccess}, nil
	}

	start := time.Now()
	_, err := Until(context.Background(), Options{Interval: 30 * time.Millisecond, Timeout: time.Second}, check)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, first.Sub(start), 30*time.Millisecond)
}

func TestOptions_Defaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, DefaultInterval, o.Interval)
	assert.Equal(t, DefaultTimeout, o.Timeout)
}
