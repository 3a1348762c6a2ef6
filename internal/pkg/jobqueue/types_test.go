package jobqueue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRetryLifecycle(t *testing.T) {
	job := &Job{
		ID:         "j-1",
		Type:       JobTypeSitePurge,
		Status:     JobStatusPending,
		MaxRetries: DefaultMaxRetries,
	}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("storage unavailable")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsFailed("storage unavailable")
	job.MarkAsFailed("storage unavailable")
	assert.False(t, job.IsRetryable(), "job must stop retrying after max retries")

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
}

func TestSitePurgePayloadRoundTrip(t *testing.T) {
	payload := SitePurgeJobPayload{AccountID: 42, PublicID: "abc-def"}

	decoded, err := SitePurgeJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload, *decoded)
}

type fakePurger struct {
	calls []uint
	err   error
}

func (f *fakePurger) Purge(ctx context.Context, accountID uint, publicID string) error {
	f.calls = append(f.calls, accountID)
	return f.err
}

func TestProcessSitePurgeJobDispatchesToPurger(t *testing.T) {
	purger := &fakePurger{}
	q := &Queue{purger: purger}

	payload := SitePurgeJobPayload{AccountID: 7, PublicID: "pub-7"}
	job := &Job{ID: "j-2", Type: JobTypeSitePurge, Payload: payload.ToMap()}

	require.NoError(t, q.processSitePurgeJob(context.Background(), job))
	assert.Equal(t, []uint{7}, purger.calls)

	purger.err = errors.New("bucket unreachable")
	require.Error(t, q.processSitePurgeJob(context.Background(), job))
}

func TestProcessSitePurgeJobWithoutRunnerFails(t *testing.T) {
	q := &Queue{}
	job := &Job{ID: "j-3", Type: JobTypeSitePurge, Payload: SitePurgeJobPayload{}.ToMap()}
	assert.Error(t, q.processSitePurgeJob(context.Background(), job))
}
