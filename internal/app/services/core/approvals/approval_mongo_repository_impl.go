package approvals

import (
	"context"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ApprovalMongoRepository stores packages and approval records in two
// collections keyed by package ID. Claim and decide use
// FindOneAndUpdate with a state/holder filter so the compare-and-swap
// happens server-side.
type ApprovalMongoRepository struct {
	Packages  *mongo.Collection
	Approvals *mongo.Collection
}

func NewApprovalMongoRepository(db *mongo.Client, dbName string) contracts.ApprovalRepository {
	database := db.Database(dbName)
	return &ApprovalMongoRepository{
		Packages:  database.Collection(constvars.MongoCollectionPackages),
		Approvals: database.Collection(constvars.MongoCollectionApprovals),
	}
}

func (r *ApprovalMongoRepository) CreatePackage(ctx context.Context, pkg *models.AIResponsePackage) error {
	_, err := r.Packages.InsertOne(ctx, pkg)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *ApprovalMongoRepository) FindPackageByID(ctx context.Context, packageID string) (*models.AIResponsePackage, error) {
	var pkg models.AIResponsePackage
	err := r.Packages.FindOne(ctx, bson.M{"_id": packageID}).Decode(&pkg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &pkg, nil
}

func (r *ApprovalMongoRepository) CreateApprovalRecord(ctx context.Context, record *models.ApprovalRecord) error {
	_, err := r.Approvals.InsertOne(ctx, record)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *ApprovalMongoRepository) FindApprovalByPackageID(ctx context.Context, packageID string) (*models.ApprovalRecord, error) {
	var record models.ApprovalRecord
	err := r.Approvals.FindOne(ctx, bson.M{"_id": packageID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &record, nil
}

func (r *ApprovalMongoRepository) ListAwaitingApproval(ctx context.Context) ([]*models.ApprovalRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.Approvals.Find(ctx, bson.M{"state": models.StateAwaitingApproval}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var records []*models.ApprovalRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return records, nil
}

func (r *ApprovalMongoRepository) ClaimApproval(ctx context.Context, packageID, reviewerID string, expiresAt time.Time) (*models.ApprovalRecord, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":   packageID,
		"state": models.StateAwaitingApproval,
		"$or": []bson.M{
			{"reviewer_id": bson.M{"$in": []interface{}{"", nil}}},
			{"reviewer_id": bson.M{"$exists": false}},
			{"claim_expires_at": bson.M{"$lte": now}},
		},
	}
	update := bson.M{"$set": bson.M{
		"reviewer_id":      reviewerID,
		"claim_expires_at": expiresAt,
		"updated_at":       now,
	}}

	var record models.ApprovalRecord
	err := r.Approvals.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &record, nil
}

func (r *ApprovalMongoRepository) DecideApproval(ctx context.Context, packageID, reviewerID string, updated *models.ApprovalRecord) (*models.ApprovalRecord, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":              packageID,
		"state":            models.StateAwaitingApproval,
		"reviewer_id":      reviewerID,
		"claim_expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{
		"state":             updated.State,
		"decided_at":        updated.DecidedAt,
		"reviewer_notes":    updated.ReviewerNotes,
		"reject_reason":     updated.RejectReason,
		"delivered_content": updated.DeliveredContent,
		"edited_package":    updated.EditedPackage,
		"updated_at":        now,
	}}

	var record models.ApprovalRecord
	err := r.Approvals.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &record, nil
}

func (r *ApprovalMongoRepository) FinalizeEscalation(ctx context.Context, packageID string, decidedAt time.Time) (*models.ApprovalRecord, error) {
	filter := bson.M{
		"_id":   packageID,
		"state": models.StateCreated,
	}
	update := bson.M{"$set": bson.M{
		"state":      models.StateEmergencyEscalated,
		"decided_at": decidedAt,
		"updated_at": time.Now().UTC(),
	}}

	var record models.ApprovalRecord
	err := r.Approvals.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &record, nil
}
