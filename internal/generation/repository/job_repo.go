package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	jobKeyPrefix          = "gen:job:"         // gen:job:{job_id}
	userJobSetPrefix      = "gen:user:"        // gen:user:{user_id}:jobs, scored by creation time
	vendorJobIDPrefix     = "gen:vendor:"      // gen:vendor:{vendor_job_id} -> job_id
	openJobsKey           = "gen:open"         // open jobs scored by deadline
	jobEventChannelPrefix = "gen:events:"      // gen:events:{job_id}
	jobTTL                = 7 * 24 * time.Hour // jobs are transient
)

// JobRepository stores generation jobs in Redis and publishes every update
// on the job's event channel.
type JobRepository struct {
	client *redis.Client

	// beforeWrite runs between Update's read and its write (tests).
	beforeWrite func()
}

func NewJobRepository(client *redis.Client) *JobRepository {
	return &JobRepository{client: client}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	if job.JobID == "" {
		job.JobID = uuid.New().String()
	}
	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = now
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	userKey := r.userJobSetKey(job.UserID)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.jobKey(job.JobID), data, jobTTL)
	pipe.ZAdd(ctx, userKey, redis.Z{Score: float64(job.CreatedAt.UnixNano()), Member: job.JobID})
	pipe.Expire(ctx, userKey, jobTTL)
	if job.VendorJobID != "" {
		pipe.Set(ctx, r.vendorJobIDKey(job.VendorJobID), job.JobID, jobTTL)
	}
	if job.Open() {
		pipe.ZAdd(ctx, openJobsKey, redis.Z{Score: float64(job.Deadline.Unix()), Member: job.JobID})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *JobRepository) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	data, err := r.client.Get(ctx, r.jobKey(jobID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	var job domain.Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}

func (r *JobRepository) GetByVendorJobID(ctx context.Context, vendorJobID string) (*domain.Job, error) {
	jobID, err := r.client.Get(ctx, r.vendorJobIDKey(vendorJobID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vendor job id: %w", err)
	}
	return r.Get(ctx, jobID)
}

// updateAttempts bounds retries when the job key changes under a WATCH.
const updateAttempts = 3

// Update overwrites the job, keeps the open-job index in step with its
// status and publishes the new state. The write is guarded by WATCH on the
// job key, so a job deleted concurrently stays deleted and Update reports
// ErrJobNotFound.
func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	if !domain.IsValidStatus(job.Status) {
		return domain.ErrInvalidStatus
	}

	key := r.jobKey(job.JobID)
	var data []byte
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return domain.ErrJobNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get job: %w", err)
		}
		var existing domain.Job
		if err := json.Unmarshal([]byte(raw), &existing); err != nil {
			return fmt.Errorf("failed to unmarshal job: %w", err)
		}
		if r.beforeWrite != nil {
			r.beforeWrite()
		}

		job.UpdatedAt = time.Now()
		data, err = json.Marshal(job)
		if err != nil {
			return fmt.Errorf("failed to marshal job: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, jobTTL)
			if job.VendorJobID != "" && job.VendorJobID != existing.VendorJobID {
				if existing.VendorJobID != "" {
					pipe.Del(ctx, r.vendorJobIDKey(existing.VendorJobID))
				}
				pipe.Set(ctx, r.vendorJobIDKey(job.VendorJobID), job.JobID, jobTTL)
			}
			if job.Open() {
				pipe.ZAdd(ctx, openJobsKey, redis.Z{Score: float64(job.Deadline.Unix()), Member: job.JobID})
			} else {
				pipe.ZRem(ctx, openJobsKey, job.JobID)
			}
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < updateAttempts; i++ {
		err = r.client.Watch(ctx, txf, key)
		if err != redis.TxFailedErr {
			break
		}
	}
	if errors.Is(err, domain.ErrJobNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	r.client.Publish(ctx, r.jobEventChannel(job.JobID), data)
	return nil
}

// ListByUser returns the user's jobs, newest first. IDs whose job has
// expired are pruned from the index.
func (r *JobRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Job, error) {
	userKey := r.userJobSetKey(userID)
	ids, err := r.client.ZRevRange(ctx, userKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs for user: %w", err)
	}

	jobs := make([]*domain.Job, 0, len(ids))
	for _, id := range ids {
		job, err := r.Get(ctx, id)
		if err == domain.ErrJobNotFound {
			r.client.ZRem(ctx, userKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// ListOverdue returns IDs of open jobs whose deadline is before now.
func (r *JobRepository) ListOverdue(ctx context.Context, now time.Time) ([]string, error) {
	ids, err := r.client.ZRangeByScore(ctx, openJobsKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue jobs: %w", err)
	}
	return ids, nil
}

// ForgetOpen drops a dangling ID from the open-job index.
func (r *JobRepository) ForgetOpen(ctx context.Context, jobID string) error {
	return r.client.ZRem(ctx, openJobsKey, jobID).Err()
}

func (r *JobRepository) Delete(ctx context.Context, jobID string) error {
	job, err := r.Get(ctx, jobID)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.jobKey(jobID))
	pipe.ZRem(ctx, r.userJobSetKey(job.UserID), jobID)
	pipe.ZRem(ctx, openJobsKey, jobID)
	if job.VendorJobID != "" {
		pipe.Del(ctx, r.vendorJobIDKey(job.VendorJobID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// Subscribe opens a pub/sub subscription to the job's updates. The caller
// closes it.
func (r *JobRepository) Subscribe(ctx context.Context, jobID string) *redis.PubSub {
	return r.client.Subscribe(ctx, r.jobEventChannel(jobID))
}

func (r *JobRepository) jobKey(jobID string) string {
	return fmt.Sprintf("%s%s", jobKeyPrefix, jobID)
}

func (r *JobRepository) userJobSetKey(userID string) string {
	return fmt.Sprintf("%s%s:jobs", userJobSetPrefix, userID)
}

func (r *JobRepository) vendorJobIDKey(vendorJobID string) string {
	return fmt.Sprintf("%s%s", vendorJobIDPrefix, vendorJobID)
}

func (r *JobRepository) jobEventChannel(jobID string) string {
	return fmt.Sprintf("%s%s", jobEventChannelPrefix, jobID)
}
