package scheduler

import (
	"context"

	"go.uber.org/zap"
)

// CampaignJobName is the registered name of the campaign job
const CampaignJobName = "scheduled-campaigns"

// DueCampaignRunner sends every scheduled campaign whose time has come
type DueCampaignRunner interface {
	RunDue(ctx context.Context) (int, error)
}

// CampaignJob sends due bulk-message campaigns
type CampaignJob struct {
	runner DueCampaignRunner
	logger *zap.Logger
}

// NewCampaignJob creates a CampaignJob
func NewCampaignJob(runner DueCampaignRunner, logger *zap.Logger) *CampaignJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignJob{runner: runner, logger: logger}
}

// Name returns the job name
func (j *CampaignJob) Name() string { return CampaignJobName }

// Run sends due campaigns
func (j *CampaignJob) Run(ctx context.Context) error {
	sent, err := j.runner.RunDue(ctx)
	if sent > 0 {
		j.logger.Info("Scheduled campaigns sent", zap.Int("count", sent))
	}
	return err
}
