package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/catalog"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/domain"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/poll"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/repository"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/vendor"
	"github.com/DesignIQ-Labs/designiq-backend/internal/logging"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrImageRequired    = errors.New("an image is required for this tool")
	ErrUnsupportedMedia = errors.New("uploads must be images")
	ErrUnexpectedFile   = errors.New("tool does not accept this file")
	ErrNoVendorJobID    = errors.New("vendor did not return a job id")
)

// Tools resolves tool names; *catalog.Catalog satisfies it.
type Tools interface {
	Get(name string) (catalog.Tool, error)
}

// Vendor is the subset of *vendor.Client the service drives.
type Vendor interface {
	Submit(ctx context.Context, endpoint string, fields map[string]string, files []vendor.File) (vendor.SubmitResult, error)
	Status(ctx context.Context, jobID string) (vendor.StatusReply, error)
	Check(jobID string) poll.CheckFunc
}

// Credits charges for tool runs.
type Credits interface {
	Debit(ctx context.Context, userID string, credits int, description string) error
	Refund(ctx context.Context, userID string, credits int, description string) error
}

// HistoryRecorder keeps a copy of a finished image.
type HistoryRecorder interface {
	Record(ctx context.Context, userID, tool, prompt, source string) error
}

// Upload is one user-supplied file.
type Upload struct {
	Field    string
	Filename string
	Data     []byte
}

type RunRequest struct {
	UserID  string
	Tool    string
	Payload map[string]string
	Files   []Upload
}

// RunResult carries either the instant tool's reply or the tracked job.
type RunResult struct {
	Tool    string          `json:"tool"`
	JobID   string          `json:"job_id,omitempty"`
	Seed    any             `json:"seed,omitempty"`
	Credits any             `json:"credits,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Job     *domain.Job     `json:"job,omitempty"`
}

// GenerationService submits tool runs to the vendor and tracks job-based
// runs in the background until they finish.
type GenerationService struct {
	repo    *repository.JobRepository
	tools   Tools
	vendor  Vendor
	credits Credits
	history HistoryRecorder

	baseCtx  context.Context
	stopAll  context.CancelFunc
	mu       sync.Mutex
	inflight map[string]context.CancelFunc
	wg       sync.WaitGroup
}

// NewGenerationService wires the service. credits and history may be nil,
// in which case runs are free and results are not archived.
func NewGenerationService(repo *repository.JobRepository, tools Tools, v Vendor, credits Credits, history HistoryRecorder) *GenerationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &GenerationService{
		repo:     repo,
		tools:    tools,
		vendor:   v,
		credits:  credits,
		history:  history,
		baseCtx:  ctx,
		stopAll:  cancel,
		inflight: make(map[string]context.CancelFunc),
	}
}

// Run validates the request, charges the tool's cost and submits it. Job
// tools return immediately with a pending job that is polled in the
// background.
func (s *GenerationService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	logger := logging.NewLogger(ctx)

	tool, err := s.tools.Get(req.Tool)
	if err != nil {
		return nil, err
	}

	files, err := prepareFiles(tool, req.Files)
	if err != nil {
		return nil, err
	}

	payload := tool.MergePayload(req.Payload)
	description := "generation: " + tool.Name

	if s.credits != nil && tool.CreditCost > 0 {
		if err := s.credits.Debit(ctx, req.UserID, tool.CreditCost, description); err != nil {
			return nil, err
		}
	}

	res, err := s.vendor.Submit(ctx, tool.Endpoint, payload, files)
	if err == nil && tool.JobBased && res.JobID == "" {
		err = ErrNoVendorJobID
	}
	if err != nil {
		s.refund(ctx, req.UserID, tool, description)
		return nil, fmt.Errorf("submit %s: %w", tool.Name, err)
	}

	if !tool.JobBased {
		logger.LogInfof("generation_run", "tool=%s user_id=%s instant", tool.Name, req.UserID)
		return &RunResult{Tool: tool.Name, Seed: res.Seed, Credits: res.Credits, Result: res.Raw}, nil
	}

	now := time.Now()
	job := &domain.Job{
		UserID:      req.UserID,
		Tool:        tool.Name,
		VendorJobID: res.JobID,
		Status:      domain.StatusPending,
		Prompt:      payload["prompt"],
		Payload:     payload,
		Seed:        res.Seed,
		CreditCost:  tool.CreditCost,
		CreatedAt:   now,
		UpdatedAt:   now,
		Deadline:    now.Add(tool.PollTimeout),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		// The vendor already has the job; keep its id for reconciliation.
		logger.LogWarnf("generation_run", "job not recorded tool=%s user_id=%s vendor_job_id=%s: %v", tool.Name, req.UserID, res.JobID, err)
		s.refund(ctx, req.UserID, tool, description)
		return nil, fmt.Errorf("record vendor job %s: %w", res.JobID, err)
	}

	tracked := *job
	s.track(logging.RequestID(ctx), &tracked, tool)
	logger.LogInfof("generation_run", "tool=%s user_id=%s job_id=%s vendor_job_id=%s", tool.Name, req.UserID, job.JobID, job.VendorJobID)

	return &RunResult{Tool: tool.Name, JobID: job.JobID, Seed: res.Seed, Credits: res.Credits, Job: job}, nil
}

func prepareFiles(tool catalog.Tool, uploads []Upload) ([]vendor.File, error) {
	var files []vendor.File
	hasImage := false
	for _, u := range uploads {
		if len(u.Data) == 0 {
			continue
		}
		if !tool.AcceptsFile(u.Field) {
			return nil, fmt.Errorf("%w: %s", ErrUnexpectedFile, u.Field)
		}
		mt := mimetype.Detect(u.Data)
		if !strings.HasPrefix(mt.String(), "image/") {
			return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedMedia, u.Field, mt.String())
		}
		if u.Field == "image" {
			hasImage = true
		}
		name := u.Filename
		if name == "" {
			name = u.Field + mt.Extension()
		}
		files = append(files, vendor.File{Field: u.Field, Filename: name, ContentType: mt.String(), Data: u.Data})
	}
	if tool.RequiresImage && !hasImage {
		return nil, ErrImageRequired
	}
	return files, nil
}

func (s *GenerationService) refund(ctx context.Context, userID string, tool catalog.Tool, description string) {
	if s.credits == nil || tool.CreditCost <= 0 {
		return
	}
	if err := s.credits.Refund(context.WithoutCancel(ctx), userID, tool.CreditCost, description); err != nil {
		logging.NewLogger(ctx).LogError("generation_refund", err)
	}
}

// track starts the job's poll goroutine.
func (s *GenerationService) track(requestID string, job *domain.Job, tool catalog.Tool) {
	ctx, cancel := context.WithCancel(logging.WithRequestID(s.baseCtx, requestID))

	s.mu.Lock()
	s.inflight[job.JobID] = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inflight, job.JobID)
			s.mu.Unlock()
			cancel()
		}()
		s.follow(ctx, job, tool)
	}()
}

func (s *GenerationService) follow(ctx context.Context, job *domain.Job, tool catalog.Tool) {
	logger := logging.NewLogger(ctx)

	res, err := poll.Until(ctx, poll.Options{
		Interval: tool.PollInterval,
		Timeout:  tool.PollTimeout,
		OnPending: func(poll.Result) {
			if job.Status != domain.StatusPending {
				return
			}
			job.Status = domain.StatusProcessing
			if err := s.repo.Update(ctx, job); err != nil && !errors.Is(err, domain.ErrJobNotFound) {
				logger.LogError("generation_poll", err)
			}
		},
	}, s.vendor.Check(job.VendorJobID))

	if errors.Is(err, context.Canceled) {
		// Deleted by the user or the server is stopping; the sweeper
		// closes anything left open.
		return
	}

	switch {
	case err == nil:
		job.Status = domain.StatusSuccess
		job.ResultURLs = res.URLs
	case errors.Is(err, poll.ErrFailed):
		job.Status = domain.StatusFailed
		job.Error = res.Message
		if job.Error == "" {
			job.Error = "generation failed"
		}
	case errors.Is(err, poll.ErrTimeout):
		job.Status = domain.StatusTimeout
		job.Error = "timed out waiting for result"
	default:
		job.Status = domain.StatusFailed
		job.Error = err.Error()
	}
	now := time.Now()
	job.CompletedAt = &now

	// The poll context is done by now; finish the write regardless.
	wctx := context.WithoutCancel(ctx)
	if err := s.repo.Update(wctx, job); err != nil && !errors.Is(err, domain.ErrJobNotFound) {
		logger.LogError("generation_poll", err)
	}
	logger.LogInfof("generation_poll", "job_id=%s status=%s", job.JobID, job.Status)

	if job.Status == domain.StatusSuccess && len(job.ResultURLs) > 0 && s.history != nil {
		if err := s.history.Record(wctx, job.UserID, job.Tool, job.Prompt, job.ResultURLs[0]); err != nil {
			logger.LogError("generation_history", err)
		}
	}
}

// Get returns the user's job. Jobs owned by someone else read as missing.
func (s *GenerationService) Get(ctx context.Context, userID, jobID string) (*domain.Job, error) {
	job, err := s.repo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, domain.ErrJobNotFound
	}
	return job, nil
}

func (s *GenerationService) List(ctx context.Context, userID string) ([]*domain.Job, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Result performs one status check against the vendor. A vendor id that
// belongs to another user's job reads as missing.
func (s *GenerationService) Result(ctx context.Context, userID, vendorJobID string) (vendor.StatusReply, error) {
	job, err := s.repo.GetByVendorJobID(ctx, vendorJobID)
	switch {
	case err == nil && job.UserID != userID:
		return vendor.StatusReply{}, domain.ErrJobNotFound
	case err != nil && !errors.Is(err, domain.ErrJobNotFound):
		return vendor.StatusReply{}, err
	}
	return s.vendor.Status(ctx, vendorJobID)
}

// Delete stops polling the job and removes it.
func (s *GenerationService) Delete(ctx context.Context, userID, jobID string) error {
	if _, err := s.Get(ctx, userID, jobID); err != nil {
		return err
	}

	s.mu.Lock()
	cancel, ok := s.inflight[jobID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
	return s.repo.Delete(ctx, jobID)
}

// Events streams the job's updates. The initial state is read after the
// subscription is live so no update is missed. stop releases the
// subscription and closes the channel.
func (s *GenerationService) Events(ctx context.Context, userID, jobID string) (*domain.Job, <-chan *domain.Job, func(), error) {
	if _, err := s.Get(ctx, userID, jobID); err != nil {
		return nil, nil, nil, err
	}

	sub := s.repo.Subscribe(ctx, jobID)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, nil, fmt.Errorf("subscribe to job: %w", err)
	}

	job, err := s.Get(ctx, userID, jobID)
	if err != nil {
		sub.Close()
		return nil, nil, nil, err
	}

	out := make(chan *domain.Job)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var j domain.Job
			if err := json.Unmarshal([]byte(msg.Payload), &j); err != nil {
				continue
			}
			select {
			case out <- &j:
			case <-ctx.Done():
				return
			}
		}
	}()

	return job, out, func() { sub.Close() }, nil
}

// SweepStale times out open jobs past their deadline that no poll is
// following, e.g. after a restart. It returns how many jobs it closed.
func (s *GenerationService) SweepStale(ctx context.Context, now time.Time) (int, error) {
	logger := logging.NewLogger(ctx)

	ids, err := s.repo.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, id := range ids {
		s.mu.Lock()
		_, following := s.inflight[id]
		s.mu.Unlock()
		if following {
			continue
		}

		job, err := s.repo.Get(ctx, id)
		if errors.Is(err, domain.ErrJobNotFound) {
			_ = s.repo.ForgetOpen(ctx, id)
			continue
		}
		if err != nil {
			return closed, err
		}
		if !job.Open() {
			_ = s.repo.ForgetOpen(ctx, id)
			continue
		}

		job.Status = domain.StatusTimeout
		job.Error = "timed out waiting for result"
		job.CompletedAt = &now
		if err := s.repo.Update(ctx, job); err != nil {
			logger.LogError("generation_sweep", err)
			continue
		}
		closed++
	}
	if closed > 0 {
		logger.LogInfof("generation_sweep", "timed_out=%d", closed)
	}
	return closed, nil
}

// Shutdown cancels every poll and waits for the goroutines to exit or ctx
// to end.
func (s *GenerationService) Shutdown(ctx context.Context) error {
	s.stopAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
