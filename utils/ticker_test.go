package utils

import (
	"context"
	"testing"
	"time"

	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"go.viam.com/legacyimage/logging"
)

func TestSlowLogger(t *testing.T) {
	orig := SlowLogInterval
	SlowLogInterval = 10 * time.Millisecond
	defer func() { SlowLogInterval = orig }()

	t.Run("warns_until_stopped", func(t *testing.T) {
		logger, logs := logging.NewObservedTestLogger(t)
		stop := SlowLogger(context.Background(), "still converting", "file", "a.pgm", logger)
		testutils.WaitForAssertion(t, func(tb testing.TB) {
			tb.Helper()
			test.That(tb, logs.FilterMessage("still converting").Len(), test.ShouldBeGreaterThanOrEqualTo, 1)
		})
		stop()

		entry := logs.FilterMessage("still converting").All()[0]
		test.That(t, entry.ContextMap()["file"], test.ShouldEqual, "a.pgm")
		test.That(t, entry.ContextMap(), test.ShouldContainKey, "time_elapsed")

		seen := logs.FilterMessage("still converting").Len()
		time.Sleep(50 * time.Millisecond)
		test.That(t, logs.FilterMessage("still converting").Len(), test.ShouldEqual, seen)
	})

	t.Run("quiet_when_fast", func(t *testing.T) {
		logger, logs := logging.NewObservedTestLogger(t)
		stop := SlowLogger(context.Background(), "still converting", "file", "a.pgm", logger)
		stop()
		time.Sleep(30 * time.Millisecond)
		test.That(t, logs.FilterMessage("still converting").Len(), test.ShouldEqual, 0)
	})

	t.Run("stops_with_context", func(t *testing.T) {
		logger, _ := logging.NewObservedTestLogger(t)
		ctx, cancel := context.WithCancel(context.Background())
		stop := SlowLogger(ctx, "still converting", "file", "a.pgm", logger)
		cancel()
		stop()
	})
}
