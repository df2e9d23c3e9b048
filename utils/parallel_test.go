package utils

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.viam.com/test"
	gutils "go.viam.com/utils"
)

func TestRunInParallel(t *testing.T) {
	wait100ms := func(ctx context.Context) error {
		gutils.SelectContextOrWait(ctx, 100*time.Millisecond)
		return ctx.Err()
	}

	elapsed, err := RunInParallel(context.Background(), []SimpleFunc{wait100ms, wait100ms})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, elapsed, test.ShouldBeLessThan, 190*time.Millisecond)
	test.That(t, elapsed, test.ShouldBeGreaterThan, 90*time.Millisecond)

	errFunc := func(ctx context.Context) error {
		return errors.New("bad")
	}

	elapsed, err = RunInParallel(context.Background(), []SimpleFunc{wait100ms, wait100ms, errFunc})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bad")
	test.That(t, elapsed, test.ShouldBeLessThan, 90*time.Millisecond)

	panicFunc := func(ctx context.Context) error {
		panic(1)
	}

	_, err = RunInParallel(context.Background(), []SimpleFunc{panicFunc})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "panic")

	_, err = RunInParallel(context.Background(), nil)
	test.That(t, err, test.ShouldBeNil)
}

func TestRunInParallelLimit(t *testing.T) {
	var running, peak atomic.Int32
	f := func(ctx context.Context) error {
		n := running.Inc()
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Dec()
		return nil
	}
	fs := []SimpleFunc{f, f, f, f, f, f}
	_, err := RunInParallelLimit(context.Background(), 2, fs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, peak.Load(), test.ShouldBeLessThanOrEqualTo, int32(2))
	test.That(t, peak.Load(), test.ShouldBeGreaterThan, int32(0))

	errA := errors.New("a")
	errB := errors.New("b")
	_, err = RunInParallelLimit(context.Background(), 0, []SimpleFunc{
		func(ctx context.Context) error { return errA },
		func(ctx context.Context) error { return errB },
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, len(multierr.Errors(err)), test.ShouldBeGreaterThanOrEqualTo, 1)
	test.That(t, len(multierr.Errors(err)), test.ShouldBeLessThanOrEqualTo, 2)
}

func TestParallelForEachPixel(t *testing.T) {
	for _, size := range []image.Point{{0, 0}, {1, 1}, {3, 17}, {64, 5}} {
		var mu sync.Mutex
		seen := map[image.Point]int{}
		ParallelForEachPixel(size, func(x, y int) {
			mu.Lock()
			seen[image.Point{x, y}]++
			mu.Unlock()
		})
		test.That(t, len(seen), test.ShouldEqual, size.X*size.Y)
		for _, n := range seen {
			test.That(t, n, test.ShouldEqual, 1)
		}
	}
}
