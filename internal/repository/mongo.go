package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Xiaobonor/Migo-Backend/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository  = (*MongoUserRepo)(nil)
	_ NoteRepository  = (*MongoNoteRepo)(nil)
	_ DiaryRepository = (*MongoDiaryRepo)(nil)
)

// MongoUserRepo implements UserRepository on the users collection.
type MongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{col: db.Collection("users")}
}

func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (domain.User, error) {
	var user domain.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// Upsert is a single findOneAndUpdate so concurrent sign-ins for a brand-new
// email converge on one document instead of racing a check-then-create. The
// unique index on email (see bootstrap) backs this up.
func (r *MongoUserRepo) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"last_login":  now,
			"last_active": now,
		},
		"$setOnInsert": bson.M{
			"email":                user.Email,
			"name":                 user.Name,
			"picture":              user.Picture,
			"followers_count":      0,
			"following_count":      0,
			"language":             "en",
			"notification_enabled": true,
			"theme":                "light",
			"created_at":           now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var stored domain.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"email": user.Email}, update, opts).Decode(&stored); err != nil {
		return domain.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return stored, nil
}

func (r *MongoUserRepo) TouchLastActive(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_active": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("touch last active: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoNoteRepo implements NoteRepository on the notes collection.
type MongoNoteRepo struct {
	col *mongo.Collection
}

func NewMongoNoteRepo(db *mongo.Database) *MongoNoteRepo {
	return &MongoNoteRepo{col: db.Collection("notes")}
}

func (r *MongoNoteRepo) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, note); err != nil {
		return domain.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return note, nil
}

func (r *MongoNoteRepo) List(ctx context.Context, filter NoteFilter) ([]domain.Note, error) {
	query := bson.M{}
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(filter.Skip)
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := []domain.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

// MongoDiaryRepo implements DiaryRepository on the diaries collection.
type MongoDiaryRepo struct {
	col *mongo.Collection
}

func NewMongoDiaryRepo(db *mongo.Database) *MongoDiaryRepo {
	return &MongoDiaryRepo{col: db.Collection("diaries")}
}

func (r *MongoDiaryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (domain.Diary, error) {
	var diary domain.Diary
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&diary); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Diary{}, ErrNotFound
		}
		return domain.Diary{}, fmt.Errorf("get diary: %w", err)
	}
	return diary, nil
}

func (r *MongoDiaryRepo) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (domain.Diary, error) {
	var diary domain.Diary
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "date": date}).Decode(&diary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Diary{}, ErrNotFound
		}
		return domain.Diary{}, fmt.Errorf("get diary by date: %w", err)
	}
	return diary, nil
}

func (r *MongoDiaryRepo) Save(ctx context.Context, diary domain.Diary) (domain.Diary, error) {
	if diary.ID.IsZero() {
		diary.ID = primitive.NewObjectID()
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": diary.ID}, diary, opts); err != nil {
		return domain.Diary{}, fmt.Errorf("save diary: %w", err)
	}
	return diary, nil
}

func (r *MongoDiaryRepo) List(ctx context.Context, filter DiaryFilter) ([]domain.Diary, error) {
	query := bson.M{"user_id": filter.UserID}
	dateRange := bson.M{}
	if filter.StartDate != nil {
		dateRange["$gte"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		dateRange["$lte"] = *filter.EndDate
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip(filter.Skip)
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list diaries: %w", err)
	}
	defer cursor.Close(ctx)

	diaries := []domain.Diary{}
	if err := cursor.All(ctx, &diaries); err != nil {
		return nil, fmt.Errorf("decode diaries: %w", err)
	}
	return diaries, nil
}

func (r *MongoDiaryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete diary: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
