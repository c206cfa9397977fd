package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply     string
	err       error
	lastModel string
	lastOpts  Options
}

func (s *stubProvider) Generate(ctx context.Context, model string, messages []Message, opts Options) (string, error) {
	s.lastModel = model
	s.lastOpts = opts
	return s.reply, s.err
}

func (s *stubProvider) ListModels(ctx context.Context) ([]ModelInfo, error) {
	return []ModelInfo{{Name: "m1"}}, nil
}

func TestClientGenerateUsesConfiguredModel(t *testing.T) {
	p := &stubProvider{reply: "ok"}
	c := NewClient(p, "default-model")

	reply, err := c.Generate(context.Background(), []Message{NewUserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, "default-model", p.lastModel)
	assert.Equal(t, "default-model", c.Model())
}

func TestClientGenerateWithModelOverrides(t *testing.T) {
	p := &stubProvider{reply: "ok"}
	c := NewClient(p, "default-model")

	_, err := c.GenerateWithModel(context.Background(), "other-model", []Message{NewUserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "other-model", p.lastModel)
}

func TestClientGenerateAppliesOptions(t *testing.T) {
	p := &stubProvider{reply: "ok"}
	c := NewClient(p, "m")

	_, err := c.Generate(context.Background(), []Message{NewUserMessage("hi")},
		WithTemperature(0.9),
		WithMaxOutputTokens(128),
		WithTopP(0.5),
		WithTopK(10),
		WithSafetyThreshold(CategoryHarassment, ThresholdBlockMediumAndAbove),
	)
	require.NoError(t, err)

	opts := p.lastOpts
	require.NotNil(t, opts.Temperature)
	assert.InDelta(t, 0.9, *opts.Temperature, 1e-9)
	assert.Equal(t, 128, *opts.MaxOutputTokens)
	assert.InDelta(t, 0.5, *opts.TopP, 1e-9)
	assert.Equal(t, 10, *opts.TopK)
	require.Len(t, opts.SafetyThresholds, 1)
	assert.Equal(t, CategoryHarassment, opts.SafetyThresholds[0].Category)
}

func TestClientGeneratePropagatesError(t *testing.T) {
	p := &stubProvider{err: NewRateLimitedError("quota")}
	c := NewClient(p, "m")

	_, err := c.Generate(context.Background(), []Message{NewUserMessage("hi")})
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
}

func TestErrorClassifierHelpers(t *testing.T) {
	cause := errors.New("boom")

	assert.True(t, IsRateLimited(NewRateLimitedError("d")))
	assert.True(t, IsUnauthorized(NewUnauthorizedError("d")))
	assert.True(t, IsModelUnavailable(NewModelUnavailableError("m", "d")))
	assert.True(t, IsTimeout(NewTimeoutError(cause)))
	assert.True(t, IsUpstreamError(NewUpstreamError(cause)))
	assert.True(t, IsEmptyResponse(NewEmptyResponseError()))

	assert.False(t, IsRateLimited(NewTimeoutError(cause)))
	assert.False(t, IsTimeout(errors.New("plain")))
}
