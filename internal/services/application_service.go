package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/justsurfingit/job-application-tracker/internal/database"
	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/models"
	"github.com/justsurfingit/job-application-tracker/internal/validation"
)

// ApplicationService owns every read and write on the applications
// collection. Each method takes the verified owner id and folds it into the
// store filter, so a caller can never see or touch another owner's records.
type ApplicationService struct {
	coll *mongo.Collection
}

func NewApplicationService(db *mongo.Database) *ApplicationService {
	return &ApplicationService{
		coll: db.Collection(database.ApplicationsCollection),
	}
}

// Create validates the payload, stamps ownership and timestamps, and inserts
// the record. Any user_id in the payload is ignored.
func (s *ApplicationService) Create(ctx context.Context, ownerID string, req *dtos.ApplicationCreateRequest) (*models.Application, error) {
	req.Normalize()
	if fields := validation.Struct(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	now := time.Now().UTC()

	status := req.Status
	if status == "" {
		status = models.StatusApplied
	}
	appliedDate := now
	if req.AppliedDate != nil {
		appliedDate = *req.AppliedDate
	}

	app := &models.Application{
		Title:       req.Title,
		Company:     req.Company,
		Status:      status,
		UserID:      ownerID,
		AppliedDate: appliedDate,
		Notes:       req.Notes,
		JobURL:      req.JobURL,
		ResumeURL:   req.ResumeURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := s.coll.InsertOne(ctx, app)
	if err != nil {
		return nil, err
	}
	app.ID = res.InsertedID.(primitive.ObjectID)
	return app, nil
}

// List returns every application the owner has, newest first.
func (s *ApplicationService) List(ctx context.Context, ownerID string) ([]models.Application, error) {
	cur, err := s.coll.Find(ctx,
		bson.M{"userId": ownerID},
		options.Find().SetSort(bson.D{{Key: "appliedDate", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	apps := []models.Application{}
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Get fetches one owned application. A malformed id behaves like a missing
// record: there is nothing an unowned caller should learn from the shape of
// the id they guessed.
func (s *ApplicationService) Get(ctx context.Context, id, ownerID string) (*models.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var app models.Application
	err = s.coll.FindOne(ctx, bson.M{"_id": oid, "userId": ownerID}).Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Update applies a validated partial patch through a single
// find-one-and-update filtered on both id and owner. Owner, id and createdAt
// are never part of the patch.
func (s *ApplicationService) Update(ctx context.Context, id, ownerID string, req *dtos.ApplicationUpdateRequest) (*models.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	req.Normalize()
	if fields := validation.Struct(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	var app models.Application
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "userId": ownerID},
		bson.M{"$set": buildPatch(req)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// buildPatch turns the non-nil patch fields into a $set document. The filter
// keys (_id, userId) and createdAt never appear here.
func buildPatch(req *dtos.ApplicationUpdateRequest) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Company != nil {
		set["company"] = *req.Company
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.AppliedDate != nil {
		set["appliedDate"] = *req.AppliedDate
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if req.JobURL != nil {
		set["jobUrl"] = *req.JobURL
	}
	if req.ResumeURL != nil {
		set["resumeUrl"] = *req.ResumeURL
	}
	return set
}

// Delete removes one owned application.
func (s *ApplicationService) Delete(ctx context.Context, id, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	err = s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid, "userId": ownerID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// Search runs a relevance-ordered text query over the owner's records. The
// collection's text index weights title over company over notes, so ranking
// is delegated to the store.
func (s *ApplicationService) Search(ctx context.Context, ownerID, query string) ([]models.Application, error) {
	cur, err := s.coll.Find(ctx,
		bson.M{
			"userId": ownerID,
			"$text":  bson.M{"$search": query},
		},
		options.Find().
			SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
			SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}),
	)
	if err != nil {
		return nil, err
	}

	apps := []models.Application{}
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}
