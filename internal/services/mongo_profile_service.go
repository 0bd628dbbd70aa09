package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnector/backend/internal/models"
)

type MongoProfileService struct {
	profilesCol *mongo.Collection
}

func NewMongoProfileService(ctx context.Context, db *mongo.Database) (*MongoProfileService, error) {
	col := db.Collection("profiles")

	// At most one profile per user.
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &MongoProfileService{profilesCol: col}, nil
}

func (s *MongoProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"user": oid}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &prof, nil
}

func (s *MongoProfileService) GetAll(ctx context.Context) ([]models.Profile, error) {
	cur, err := s.profilesCol.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var profiles []models.Profile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert applies the partial-update document to the user's profile,
// creating it when absent. Unsupplied optional fields are left alone;
// the social block is replaced wholesale, matching the form contract.
func (s *MongoProfileService) Upsert(ctx context.Context, userID string, fields *models.ProfileFields) (*models.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	set := bson.M{
		"status": fields.Status,
		"skills": fields.Skills,
		"social": fields.Social,
	}
	if fields.Company != "" {
		set["company"] = fields.Company
	}
	if fields.Location != "" {
		set["location"] = fields.Location
	}
	if fields.Bio != "" {
		set["bio"] = fields.Bio
	}
	if fields.GithubUsername != "" {
		set["githubusername"] = fields.GithubUsername
	}

	setOnInsert := bson.M{
		"user":       oid,
		"experience": []models.Experience{},
		"education":  []models.Education{},
		"date":       time.Now(),
	}

	_, err = s.profilesCol.UpdateOne(
		ctx,
		bson.M{"user": oid},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"user": oid}).Decode(&prof); err != nil {
		return nil, err
	}
	return &prof, nil
}

func (s *MongoProfileService) Delete(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrProfileNotFound
	}
	_, err = s.profilesCol.DeleteOne(ctx, bson.M{"user": oid})
	return err
}

func (s *MongoProfileService) AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	prof, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	exp.ID = newEntryID()
	prof.Experience = append([]models.Experience{exp}, prof.Experience...)

	if err := s.setList(ctx, prof.UserID, "experience", prof.Experience); err != nil {
		return nil, err
	}
	return prof, nil
}

func (s *MongoProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	prof, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range prof.Experience {
		if e.ID == expID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Unknown entry id: the list is left untouched.
		return prof, nil
	}

	prof.Experience = append(prof.Experience[:idx], prof.Experience[idx+1:]...)
	if err := s.setList(ctx, prof.UserID, "experience", prof.Experience); err != nil {
		return nil, err
	}
	return prof, nil
}

func (s *MongoProfileService) AddEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error) {
	prof, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	edu.ID = newEntryID()
	prof.Education = append([]models.Education{edu}, prof.Education...)

	if err := s.setList(ctx, prof.UserID, "education", prof.Education); err != nil {
		return nil, err
	}
	return prof, nil
}

func (s *MongoProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	prof, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range prof.Education {
		if e.ID == eduID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return prof, nil
	}

	prof.Education = append(prof.Education[:idx], prof.Education[idx+1:]...)
	if err := s.setList(ctx, prof.UserID, "education", prof.Education); err != nil {
		return nil, err
	}
	return prof, nil
}

func (s *MongoProfileService) setList(ctx context.Context, userOID primitive.ObjectID, field string, list interface{}) error {
	_, err := s.profilesCol.UpdateOne(ctx, bson.M{"user": userOID}, bson.M{
		"$set": bson.M{field: list},
	})
	return err
}
