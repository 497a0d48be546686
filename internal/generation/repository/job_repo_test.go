package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func newJob(userID string, deadline time.Time) *domain.Job {
	return &domain.Job{
		UserID:      userID,
		Tool:        "interior-ai",
		VendorJobID: "v-" + userID,
		Status:      domain.StatusPending,
		CreditCost:  1,
		Deadline:    deadline,
	}
}

func TestJobRepository_CreateAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewJobRepository(client)
	ctx := context.Background()

	job := newJob("u1", time.Now().Add(time.Minute))
	require.NoError(t, repo.Create(ctx, job))
	assert.NotEmpty(t, job.JobID)
	assert.False(t, job.CreatedAt.IsZero())

	got, err := repo.Get(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, "interior-ai", got.Tool)
	assert.Equal(t, domain.StatusPending, got.Status)

	byVendor, err := repo.GetByVendorJobID(ctx, "v-u1")
	require.NoError(t, err)
	assert.Equal(t, job.JobID, byVendor.JobID)

	assert.Greater(t, mr.TTL(jobKeyPrefix+job.JobID), 6*24*time.Hour)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	_, err = repo.GetByVendorJobID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestJobRepository_UpdateClosesOpenJob(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewJobRepository(client)
	ctx := context.Background()

	job := newJob("u1", time.Now().Add(-time.Second))
	require.NoError(t, repo.Create(ctx, job))

	overdue, err := repo.ListOverdue(ctx, time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, []string{job.JobID}, overdue)

	job.Status = domain.StatusSuccess
	job.ResultURLs = []string{"https://cdn/a.png"}
	require.NoError(t, repo.Update(ctx, job))

	overdue, err = repo.ListOverdue(ctx, time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Empty(t, overdue)

	got, err := repo.Get(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/a.png"}, got.ResultURLs)
}

func TestJobRepository_UpdateRejectsBadStatus(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewJobRepository(client)
	ctx := context.Background()

	job := newJob("u1", time.Now().Add(time.Minute))
	require.NoError(t, repo.Create(ctx, job))

	job.Status = "bogus"
	assert.ErrorIs(t, repo.Update(ctx, job), domain.ErrInvalidStatus)

	ghost := newJob("u1", time.Now())
	ghost.JobID = "ghost"
	assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrJobNotFound)
}

func TestJobRepository_ListByUserNewestFirst(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewJobRepository(client)
	ctx := context.Background()

	base := time.Now()
	var ids []string
	for i := 0; i < 3; i++ {
		job := newJob("u1", base.Add(time.Minute))
		job.VendorJobID = ""
		job.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, job))
		ids = append(ids, job.JobID)
	}
	require.NoError(t, repo.Create(ctx, newJob("u2", base)))

	// An expired job is dropped from the listing and the index.
	mr.Del(jobKeyPrefix + ids[0])

	jobs, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, ids[2], jobs[0].JobID)
	assert.Equal(t, ids[1], jobs[1].JobID)

	members, err := client.ZRange(ctx, "gen:user:u1:jobs", 0, -1).Result()
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestJobRepository_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewJobRepository(client)
	ctx := context.Background()

	job := newJob("u1", time.Now().Add(time.Minute))
	require.NoError(t, repo.Create(ctx, job))
	require.NoError(t, repo.Delete(ctx, job.JobID))

	assert.False(t, mr.Exists(jobKeyPrefix+job.JobID))
	assert.False(t, mr.Exists(vendorJobIDPrefix+"v-u1"))
	assert.ErrorIs(t, repo.Delete(ctx, job.JobID), domain.ErrJobNotFound)

	jobs, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestJobRepository_UpdatePublishes(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewJobRepository(client)
	ctx := context.Background()

	job := newJob("u1", time.Now().Add(time.Minute))
	require.NoError(t, repo.Create(ctx, job))

	sub := repo.Subscribe(ctx, job.JobID)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	job.Status = domain.StatusProcessing
	require.NoError(t, repo.Update(ctx, job))

	select {
	case msg := <-sub.Channel():
		var got domain.Job
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, domain.StatusProcessing, got.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("no update published")
	}
}

func TestJobRepository_UpdateDoesNotResurrectDeletedJob(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewJobRepository(client)
	ctx := context.Background()

	job := newJob("u1", time.Now().Add(time.Minute))
	require.NoError(t, repo.Create(ctx, job))

	// The user deletes the job after the poller has read it.
	repo.beforeWrite = func() {
		require.NoError(t, repo.Delete(ctx, job.JobID))
	}

	update := *job
	update.Status = domain.StatusSuccess
	update.ResultURLs = []string{"https://cdn/out.png"}
	assert.ErrorIs(t, repo.Update(ctx, &update), domain.ErrJobNotFound)

	assert.False(t, mr.Exists(jobKeyPrefix+job.JobID))
	_, err := repo.Get(ctx, job.JobID)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	overdue, err := repo.ListOverdue(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestJobRepository_UpdateRetriesAfterConcurrentWrite(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewJobRepository(client)
	ctx := context.Background()

	job := newJob("u1", time.Now().Add(time.Minute))
	require.NoError(t, repo.Create(ctx, job))

	calls := 0
	repo.beforeWrite = func() {
		calls++
		if calls == 1 {
			other := *job
			other.Status = domain.StatusProcessing
			data, err := json.Marshal(&other)
			require.NoError(t, err)
			require.NoError(t, client.Set(ctx, jobKeyPrefix+job.JobID, data, jobTTL).Err())
		}
	}

	update := *job
	update.Status = domain.StatusFailed
	require.NoError(t, repo.Update(ctx, &update))
	assert.Equal(t, 2, calls)

	got, err := repo.Get(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
}
