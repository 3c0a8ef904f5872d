package contracts

import (
	"context"
	"medichat-service/internal/app/models"
	"time"
)

// ApprovalRepository persists AIResponsePackages and their
// ApprovalRecords. Claim and decide are atomic compare-and-swap
// operations on the record's state/holder so two reviewers can never
// both win.
type ApprovalRepository interface {
	CreatePackage(ctx context.Context, pkg *models.AIResponsePackage) error
	FindPackageByID(ctx context.Context, packageID string) (*models.AIResponsePackage, error)
	CreateApprovalRecord(ctx context.Context, record *models.ApprovalRecord) error
	FindApprovalByPackageID(ctx context.Context, packageID string) (*models.ApprovalRecord, error)
	ListAwaitingApproval(ctx context.Context) ([]*models.ApprovalRecord, error)
	// ClaimApproval atomically assigns the record to reviewerID if it
	// is in awaiting_approval and unclaimed (or the prior claim
	// expired). Returns the updated record, or nil when the CAS lost.
	ClaimApproval(ctx context.Context, packageID, reviewerID string, expiresAt time.Time) (*models.ApprovalRecord, error)
	// DecideApproval atomically moves the record from
	// awaiting_approval (held by reviewerID) to the terminal state
	// carried on updated. Returns nil when the CAS lost.
	DecideApproval(ctx context.Context, packageID, reviewerID string, updated *models.ApprovalRecord) (*models.ApprovalRecord, error)
	// FinalizeEscalation moves a created record directly to
	// emergency_escalated (bypass path).
	FinalizeEscalation(ctx context.Context, packageID string, decidedAt time.Time) (*models.ApprovalRecord, error)
}

type ApprovalDecision struct {
	PackageID     string
	ReviewerID    string
	Action        models.DecisionAction
	EditedContent string
	Reason        string
	Notes         string
}

type ApprovalUsecase interface {
	// RegisterPackage creates the package + record pair, runs the
	// automatic created -> awaiting_approval (or emergency bypass)
	// transition, and publishes the corresponding event.
	RegisterPackage(ctx context.Context, pkg *models.AIResponsePackage) (*models.ApprovalRecord, error)
	ListPending(ctx context.Context) ([]*models.ApprovalRecord, error)
	FindPackage(ctx context.Context, packageID string) (*models.AIResponsePackage, error)
	Claim(ctx context.Context, packageID, reviewerID string) (*models.ApprovalRecord, error)
	Decide(ctx context.Context, decision *ApprovalDecision) (*models.ApprovalRecord, error)
}
