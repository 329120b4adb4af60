package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash"}
		id, err := repo.Create(context.Background(), user)
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if id.IsZero() || id != user.ID {
			mt.Fatalf("unexpected id %v (user %v)", id, user.ID)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.Create(context.Background(), &domain.User{Email: "ana@example.com", PasswordHash: "hash"})
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			mt.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	mt.Run("get by email not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fitness.users", mtest.FirstBatch))

		if _, err := repo.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, repository.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fitness.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ana"},
			{Key: "email", Value: "ana@example.com"},
		}))

		user, err := repo.GetByID(context.Background(), id)
		if err != nil {
			mt.Fatalf("GetByID: %v", err)
		}
		if user.Email != "ana@example.com" {
			mt.Fatalf("unexpected user %+v", user)
		}
	})
}
