package txmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop_CompensatesInReverseOrderOnFailure(t *testing.T) {
	t.Parallel()

	var undone []string
	errWrite := errors.New("sessions write failed")

	err := Noop{}.Do(context.Background(), func(ctx context.Context) error {
		Compensate(ctx, func(context.Context) error { undone = append(undone, "subscription"); return nil })
		Compensate(ctx, func(context.Context) error { undone = append(undone, "agreement"); return nil })
		Compensate(ctx, func(context.Context) error { undone = append(undone, "contact"); return nil })
		return errWrite
	})

	require.ErrorIs(t, err, errWrite)
	assert.Equal(t, []string{"contact", "agreement", "subscription"}, undone)
}

func TestNoop_SuccessSkipsCompensations(t *testing.T) {
	t.Parallel()

	called := false
	err := Noop{}.Do(context.Background(), func(ctx context.Context) error {
		Compensate(ctx, func(context.Context) error { called = true; return nil })
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called)
}

func TestNoop_CompensationFailureIsReported(t *testing.T) {
	t.Parallel()

	errWrite := errors.New("write failed")
	err := Noop{}.Do(context.Background(), func(ctx context.Context) error {
		Compensate(ctx, func(context.Context) error { return errors.New("delete failed") })
		return errWrite
	})

	require.ErrorIs(t, err, errWrite)
	assert.Contains(t, err.Error(), "compensation failed: delete failed")
}

func TestNoop_CompensationsRunAfterCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var undoErr error

	err := Noop{}.Do(ctx, func(ctx context.Context) error {
		Compensate(ctx, func(ctx context.Context) error { undoErr = ctx.Err(); return nil })
		cancel()
		return context.Canceled
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, undoErr)
}

func TestNoop_NestedCallSharesCompensations(t *testing.T) {
	t.Parallel()

	var undone []string
	errWrite := errors.New("write failed")

	err := Noop{}.Do(context.Background(), func(ctx context.Context) error {
		Compensate(ctx, func(context.Context) error { undone = append(undone, "outer"); return nil })
		if err := (Noop{}).Do(ctx, func(ctx context.Context) error {
			Compensate(ctx, func(context.Context) error { undone = append(undone, "inner"); return nil })
			return nil
		}); err != nil {
			return err
		}
		return errWrite
	})

	require.ErrorIs(t, err, errWrite)
	assert.Equal(t, []string{"inner", "outer"}, undone)
}

func TestCompensate_OutsideNoopIsIgnored(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		Compensate(context.Background(), func(context.Context) error { return nil })
	})
}
