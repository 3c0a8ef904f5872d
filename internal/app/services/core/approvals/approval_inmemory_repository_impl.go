package approvals

import (
	"context"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"sort"
	"sync"
	"time"
)

// ApprovalInMemoryRepository is a mutex-guarded map-backed store with
// the same compare-and-swap semantics as the Mongo implementation.
// Used by tests and single-node deployments without a database.
type ApprovalInMemoryRepository struct {
	mu       sync.Mutex
	packages map[string]*models.AIResponsePackage
	records  map[string]*models.ApprovalRecord
}

func NewApprovalInMemoryRepository() contracts.ApprovalRepository {
	return &ApprovalInMemoryRepository{
		packages: make(map[string]*models.AIResponsePackage),
		records:  make(map[string]*models.ApprovalRecord),
	}
}

func (r *ApprovalInMemoryRepository) CreatePackage(ctx context.Context, pkg *models.AIResponsePackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *pkg
	r.packages[pkg.PackageID] = &clone
	return nil
}

func (r *ApprovalInMemoryRepository) FindPackageByID(ctx context.Context, packageID string) (*models.AIResponsePackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[packageID]
	if !ok {
		return nil, nil
	}
	clone := *pkg
	return &clone, nil
}

func (r *ApprovalInMemoryRepository) CreateApprovalRecord(ctx context.Context, record *models.ApprovalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *record
	r.records[record.PackageID] = &clone
	return nil
}

func (r *ApprovalInMemoryRepository) FindApprovalByPackageID(ctx context.Context, packageID string) (*models.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[packageID]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (r *ApprovalInMemoryRepository) ListAwaitingApproval(ctx context.Context) ([]*models.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []*models.ApprovalRecord
	for _, record := range r.records {
		if record.State == models.StateAwaitingApproval {
			clone := *record
			records = append(records, &clone)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (r *ApprovalInMemoryRepository) ClaimApproval(ctx context.Context, packageID, reviewerID string, expiresAt time.Time) (*models.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[packageID]
	if !ok {
		return nil, nil
	}
	now := time.Now().UTC()
	if record.State != models.StateAwaitingApproval || !record.Unclaimed(now) {
		return nil, nil
	}

	record.ReviewerID = reviewerID
	record.ClaimExpiresAt = &expiresAt
	record.UpdatedAt = now

	clone := *record
	return &clone, nil
}

func (r *ApprovalInMemoryRepository) DecideApproval(ctx context.Context, packageID, reviewerID string, updated *models.ApprovalRecord) (*models.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[packageID]
	if !ok {
		return nil, nil
	}
	now := time.Now().UTC()
	if record.State != models.StateAwaitingApproval || !record.ClaimedBy(reviewerID, now) {
		return nil, nil
	}

	record.State = updated.State
	record.DecidedAt = updated.DecidedAt
	record.ReviewerNotes = updated.ReviewerNotes
	record.RejectReason = updated.RejectReason
	record.DeliveredContent = updated.DeliveredContent
	record.EditedPackage = updated.EditedPackage
	record.UpdatedAt = now

	clone := *record
	return &clone, nil
}

func (r *ApprovalInMemoryRepository) FinalizeEscalation(ctx context.Context, packageID string, decidedAt time.Time) (*models.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[packageID]
	if !ok {
		return nil, nil
	}
	if record.State != models.StateCreated {
		return nil, nil
	}

	record.State = models.StateEmergencyEscalated
	record.DecidedAt = &decidedAt
	record.UpdatedAt = time.Now().UTC()

	clone := *record
	return &clone, nil
}
