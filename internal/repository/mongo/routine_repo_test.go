package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const routinesNS = "fitness.routines"

func TestCreateRoutine(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("server assigns id and timestamp", func(mt *mtest.T) {
		repo := NewMongoRoutineRepository(mt.DB)
		serverTime := time.Date(2025, 5, 4, 12, 30, 0, 0, time.UTC)

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateCursorResponse(0, routinesNS, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "userId", Value: "u1"},
				{Key: "name", Value: "Perna"},
				{Key: "createdAt", Value: primitive.NewDateTimeFromTime(serverTime)},
			}),
		)

		id, createdAt, err := repo.CreateRoutine(context.Background(), "u1", "Perna", []domain.Exercise{
			{ID: "1", Name: "Agachamento", Sets: "4", Reps: "8-12"},
		})
		if err != nil {
			mt.Fatalf("CreateRoutine: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			mt.Fatalf("expected an ObjectID hex id, got %q", id)
		}
		if !createdAt.Equal(serverTime) {
			mt.Fatalf("createdAt = %v, want %v", createdAt, serverTime)
		}
	})

	mt.Run("requires a user", func(mt *mtest.T) {
		repo := NewMongoRoutineRepository(mt.DB)
		_, _, err := repo.CreateRoutine(context.Background(), "", "Perna", nil)
		if !errors.Is(err, repository.ErrUnauthenticated) {
			mt.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})
}

func TestListRoutines(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes owned documents", func(mt *mtest.T) {
		repo := NewMongoRoutineRepository(mt.DB)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, routinesNS, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: first},
				{Key: "userId", Value: "u1"},
				{Key: "name", Value: "Perna"},
				{Key: "exercises", Value: bson.A{
					bson.D{{Key: "id", Value: "1"}, {Key: "name", Value: "Agachamento"}, {Key: "sets", Value: "4"}, {Key: "reps", Value: "8-12"}},
				}},
				{Key: "createdAt", Value: primitive.NewDateTimeFromTime(time.Now())},
			},
			bson.D{
				{Key: "_id", Value: second},
				{Key: "userId", Value: "u1"},
				{Key: "name", Value: "Peito"},
			},
		))

		routines, err := repo.ListRoutines(context.Background(), "u1")
		if err != nil {
			mt.Fatalf("ListRoutines: %v", err)
		}
		if len(routines) != 2 {
			mt.Fatalf("expected 2 routines, got %d", len(routines))
		}
		if routines[0].ID != first.Hex() || routines[0].Exercises[0].Reps != "8-12" {
			mt.Fatalf("unexpected first routine %+v", routines[0])
		}
		if routines[1].Exercises == nil {
			mt.Fatal("expected an empty, non-nil exercise list")
		}
	})

	mt.Run("requires a user", func(mt *mtest.T) {
		repo := NewMongoRoutineRepository(mt.DB)
		if _, err := repo.ListRoutines(context.Background(), ""); !errors.Is(err, repository.ErrUnauthenticated) {
			mt.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})
}

func TestDeleteRoutineIsIdempotent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing document", func(mt *mtest.T) {
		repo := NewMongoRoutineRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		if err := repo.DeleteRoutine(context.Background(), "u1", primitive.NewObjectID().Hex()); err != nil {
			mt.Fatalf("DeleteRoutine: %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewMongoRoutineRepository(mt.DB)
		if err := repo.DeleteRoutine(context.Background(), "u1", "42"); err != nil {
			mt.Fatalf("DeleteRoutine: %v", err)
		}
	})

	mt.Run("server error propagates", func(mt *mtest.T) {
		repo := NewMongoRoutineRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))

		if err := repo.DeleteRoutine(context.Background(), "u1", primitive.NewObjectID().Hex()); err == nil {
			mt.Fatal("expected an error")
		}
	})
}
