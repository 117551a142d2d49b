package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Xiaobonor/Migo-Backend/internal/domain"
	"github.com/Xiaobonor/Migo-Backend/internal/repository"
	"github.com/Xiaobonor/Migo-Backend/internal/service"
)

func seedUser(t *testing.T, users *memoryUserRepo) domain.User {
	t.Helper()
	user, err := users.Upsert(context.Background(), domain.User{Email: "writer@example.com", Name: "Writer"})
	require.NoError(t, err)
	return user
}

func TestDiaryCreateThenAppend(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	diaries := newMemoryDiaryRepo()
	svc := service.NewDiaryService(diaries, users, zap.NewNop())
	user := seedUser(t, users)

	date := time.Date(2024, 3, 21, 9, 30, 0, 0, time.UTC)
	first, err := svc.CreateOrAppend(ctx, service.DiaryCreateInput{
		UserID: user.ID.Hex(),
		Date:   &date,
		Entries: []service.DiaryEntryInput{{
			Title:    "Morning Thoughts",
			Content:  "Started my day with meditation...",
			Emotions: []string{"peaceful", "focused"},
			Tags:     []string{"morning"},
		}},
	})
	require.NoError(t, err)
	require.Len(t, first.Entries, 1)
	// The diary is keyed to the day, not the instant.
	require.Equal(t, time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC), first.Date)

	later := time.Date(2024, 3, 21, 20, 0, 0, 0, time.UTC)
	second, err := svc.CreateOrAppend(ctx, service.DiaryCreateInput{
		UserID:  user.ID.Hex(),
		Date:    &later,
		Entries: []service.DiaryEntryInput{{Title: "Evening", Content: "Wrapped up."}},
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, second.Entries, 2)
}

func TestDiaryCreateUnknownUser(t *testing.T) {
	svc := service.NewDiaryService(newMemoryDiaryRepo(), newMemoryUserRepo(), zap.NewNop())
	_, err := svc.CreateOrAppend(context.Background(), service.DiaryCreateInput{
		UserID: primitive.NewObjectID().Hex(),
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDiaryListDateRange(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	diaries := newMemoryDiaryRepo()
	svc := service.NewDiaryService(diaries, users, zap.NewNop())
	user := seedUser(t, users)

	for day := 1; day <= 5; day++ {
		date := time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC)
		_, err := svc.CreateOrAppend(ctx, service.DiaryCreateInput{
			UserID:  user.ID.Hex(),
			Date:    &date,
			Entries: []service.DiaryEntryInput{{Content: "entry"}},
		})
		require.NoError(t, err)
	}

	start := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	listed, err := svc.List(ctx, service.DiaryListFilter{
		UserID:    user.ID.Hex(),
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	require.Len(t, listed, 3)
	// Newest first.
	require.True(t, listed[0].Date.After(listed[1].Date))
}

func TestDiaryGetByDate(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	diaries := newMemoryDiaryRepo()
	svc := service.NewDiaryService(diaries, users, zap.NewNop())
	user := seedUser(t, users)

	date := time.Date(2024, 3, 21, 15, 0, 0, 0, time.UTC)
	created, err := svc.CreateOrAppend(ctx, service.DiaryCreateInput{
		UserID:  user.ID.Hex(),
		Date:    &date,
		Entries: []service.DiaryEntryInput{{Content: "entry"}},
	})
	require.NoError(t, err)

	found, err := svc.GetByDate(ctx, user.ID.Hex(), time.Date(2024, 3, 21, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = svc.GetByDate(ctx, user.ID.Hex(), time.Date(2024, 3, 22, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDiaryDeleteEntry(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	diaries := newMemoryDiaryRepo()
	svc := service.NewDiaryService(diaries, users, zap.NewNop())
	user := seedUser(t, users)

	diary, err := svc.CreateOrAppend(ctx, service.DiaryCreateInput{
		UserID: user.ID.Hex(),
		Entries: []service.DiaryEntryInput{
			{Title: "keep"},
			{Title: "drop"},
		},
	})
	require.NoError(t, err)
	require.Len(t, diary.Entries, 2)

	require.NoError(t, svc.DeleteEntry(ctx, diary.ID.Hex(), diary.Entries[1].ID.Hex()))

	reloaded, err := svc.Get(ctx, diary.ID.Hex())
	require.NoError(t, err)
	require.Len(t, reloaded.Entries, 1)
	require.Equal(t, "keep", reloaded.Entries[0].Title)

	err = svc.DeleteEntry(ctx, diary.ID.Hex(), primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDiaryDelete(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	diaries := newMemoryDiaryRepo()
	svc := service.NewDiaryService(diaries, users, zap.NewNop())
	user := seedUser(t, users)

	diary, err := svc.CreateOrAppend(ctx, service.DiaryCreateInput{
		UserID:  user.ID.Hex(),
		Entries: []service.DiaryEntryInput{{Content: "entry"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, diary.ID.Hex()))
	require.ErrorIs(t, svc.Delete(ctx, diary.ID.Hex()), repository.ErrNotFound)
}

type memoryDiaryRepo struct {
	mu      sync.Mutex
	diaries map[primitive.ObjectID]domain.Diary
}

var _ repository.DiaryRepository = (*memoryDiaryRepo)(nil)

func newMemoryDiaryRepo() *memoryDiaryRepo {
	return &memoryDiaryRepo{diaries: make(map[primitive.ObjectID]domain.Diary)}
}

func (m *memoryDiaryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (domain.Diary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	diary, ok := m.diaries[id]
	if !ok {
		return domain.Diary{}, repository.ErrNotFound
	}
	return diary, nil
}

func (m *memoryDiaryRepo) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (domain.Diary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, diary := range m.diaries {
		if diary.UserID == userID && diary.Date.Equal(date) {
			return diary, nil
		}
	}
	return domain.Diary{}, repository.ErrNotFound
}

func (m *memoryDiaryRepo) Save(ctx context.Context, diary domain.Diary) (domain.Diary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if diary.ID.IsZero() {
		diary.ID = primitive.NewObjectID()
	}
	m.diaries[diary.ID] = diary
	return diary, nil
}

func (m *memoryDiaryRepo) List(ctx context.Context, filter repository.DiaryFilter) ([]domain.Diary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Diary
	for _, diary := range m.diaries {
		if diary.UserID != filter.UserID {
			continue
		}
		if filter.StartDate != nil && diary.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && diary.Date.After(*filter.EndDate) {
			continue
		}
		result = append(result, diary)
	}
	// Newest first, matching the Mongo sort.
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].Date.After(result[i].Date) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	if filter.Skip > 0 && int(filter.Skip) < len(result) {
		result = result[filter.Skip:]
	}
	if filter.Limit > 0 && int(filter.Limit) < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *memoryDiaryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.diaries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.diaries, id)
	return nil
}
