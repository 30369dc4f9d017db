package estimate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/manifest-analyzer/pkg/estimate"
	"github.com/donaldgifford/manifest-analyzer/pkg/estimate/mocks"
)

func TestRateLimitedBackend_DailyBudget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		budget  int64
		calls   int
		wantErr bool
	}{
		{name: "unlimited", budget: 0, calls: 5},
		{name: "within budget", budget: 5, calls: 5},
		{name: "over budget", budget: 2, calls: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mb := mocks.NewMockLLMBackend(t)
			mb.EXPECT().Generate(mock.Anything, mock.Anything).
				Return(estimate.GenerateResponse{Content: "{}"}, nil).Maybe()

			rl := estimate.NewRateLimitedBackend(mb, 1000, 10, estimate.WithDailyBudget(tt.budget))

			var lastErr error
			for range tt.calls {
				if _, lastErr = rl.Generate(context.Background(), estimate.GenerateRequest{}); lastErr != nil {
					break
				}
			}

			if tt.wantErr {
				require.ErrorIs(t, lastErr, estimate.ErrDailyBudgetExhausted)
				assert.Equal(t, int64(0), rl.Remaining())
				return
			}
			require.NoError(t, lastErr)
		})
	}
}

func TestRateLimitedBackend_WindowResets(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	mb := mocks.NewMockLLMBackend(t)
	mb.EXPECT().Generate(mock.Anything, mock.Anything).Return(estimate.GenerateResponse{}, nil).Times(2)

	rl := estimate.NewRateLimitedBackend(mb, 0, 1,
		estimate.WithDailyBudget(1),
		estimate.WithRateLimitNowFunc(clock),
	)

	_, err := rl.Generate(context.Background(), estimate.GenerateRequest{})
	require.NoError(t, err)
	_, err = rl.Generate(context.Background(), estimate.GenerateRequest{})
	require.ErrorIs(t, err, estimate.ErrDailyBudgetExhausted)

	mu.Lock()
	now = now.Add(25 * time.Hour)
	mu.Unlock()

	assert.Equal(t, int64(1), rl.Remaining())
	_, err = rl.Generate(context.Background(), estimate.GenerateRequest{})
	require.NoError(t, err)
}

func TestRateLimitedBackend_ContextCanceled(t *testing.T) {
	t.Parallel()

	mb := mocks.NewMockLLMBackend(t)
	mb.EXPECT().Generate(mock.Anything, mock.Anything).Return(estimate.GenerateResponse{}, nil).Once()

	// One token per minute: the first call spends the burst, the second must wait.
	rl := estimate.NewRateLimitedBackend(mb, 1.0/60, 1)
	_, err := rl.Generate(context.Background(), estimate.GenerateRequest{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = rl.Generate(ctx, estimate.GenerateRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter wait")
}

func TestRateLimitedBackend_Name(t *testing.T) {
	t.Parallel()

	mb := mocks.NewMockLLMBackend(t)
	mb.EXPECT().Name().Return("ollama")

	rl := estimate.NewRateLimitedBackend(mb, 1, 1)
	assert.Equal(t, "ollama", rl.Name())
	assert.Equal(t, int64(-1), rl.Remaining())
}
