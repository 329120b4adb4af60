package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const routineCollectionName = "routines"

// routineDocument is the stored shape of a routine.
type routineDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Name      string             `bson:"name"`
	Exercises []domain.Exercise  `bson:"exercises"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d routineDocument) toDomain() domain.Routine {
	exercises := d.Exercises
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return domain.Routine{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Name:      d.Name,
		Exercises: exercises,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// mongoRoutineRepository implements repository.RemoteRoutineStore.
type mongoRoutineRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineRepository creates a remote routine store backed by MongoDB.
func NewMongoRoutineRepository(db *mongo.Database) repository.RemoteRoutineStore {
	return &mongoRoutineRepository{
		collection: db.Collection(routineCollectionName),
	}
}

// CreateRoutine inserts a new routine document. The creation time comes from
// the server clock ($currentDate), so the document is read back to resolve it.
func (r *mongoRoutineRepository) CreateRoutine(ctx context.Context, userID, name string, exercises []domain.Exercise) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, repository.ErrUnauthenticated
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}

	id := primitive.NewObjectID()
	update := bson.M{
		"$setOnInsert": bson.M{
			"userId":    userID,
			"name":      name,
			"exercises": exercises,
		},
		"$currentDate": bson.M{"createdAt": true},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true)); err != nil {
		return "", time.Time{}, fmt.Errorf("insert routine: %w", err)
	}

	var doc routineDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return "", time.Time{}, fmt.Errorf("read back routine %s: %w", id.Hex(), err)
	}
	return id.Hex(), doc.CreatedAt.UTC(), nil
}

// ListRoutines returns every routine owned by userID, newest first.
func (r *mongoRoutineRepository) ListRoutines(ctx context.Context, userID string) ([]domain.Routine, error) {
	if userID == "" {
		return nil, repository.ErrUnauthenticated
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []routineDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	routines := make([]domain.Routine, 0, len(docs))
	for _, d := range docs {
		routines = append(routines, d.toDomain())
	}
	return routines, nil
}

// DeleteRoutine removes the routine if it exists and belongs to userID.
// Missing documents and ids that are not ObjectIDs are a no-op.
func (r *mongoRoutineRepository) DeleteRoutine(ctx context.Context, userID, id string) error {
	if userID == "" {
		return repository.ErrUnauthenticated
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	// DeletedCount == 0 means nothing matched, which is not an error.
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID, "userId": userID}); err != nil {
		return fmt.Errorf("delete routine %s: %w", id, err)
	}
	return nil
}

// EnsureRoutineIndexes creates the owner/creation index used by ListRoutines.
func EnsureRoutineIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
