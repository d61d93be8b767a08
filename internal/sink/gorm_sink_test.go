package sink

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/learnpath/datasim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllTables()...))
	return db
}

func TestGormSinkCreateAndCounts(t *testing.T) {
	db := testDB(t)
	s := NewGormSink(db)
	ctx := context.Background()

	require.NoError(t, s.CreateProfile(ctx, &models.Profile{
		ID: "p1", UserID: "u1", FullName: "Trần Minh Châu", Persona: "average",
	}))
	require.NoError(t, s.CreateSession(ctx, &models.UserSession{
		ID: "s1", UserID: "u1",
		StartedAt: time.Now(), EndedAt: time.Now().Add(time.Hour),
	}))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["profiles"])
	assert.Equal(t, int64(1), counts["user_sessions"])
	assert.Equal(t, int64(0), counts["quiz_attempts"])
}

func TestGormSinkDuplicateKeyIsSinkFailure(t *testing.T) {
	s := NewGormSink(testDB(t))
	ctx := context.Background()

	p := &models.Profile{ID: "p1", UserID: "u1", FullName: "Lê Văn Khoa"}
	require.NoError(t, s.CreateProfile(ctx, p))

	err := s.CreateProfile(ctx, &models.Profile{ID: "p1", UserID: "u2", FullName: "Lê Văn Khoa"})
	require.Error(t, err)
	assert.True(t, IsSinkFailure(err))
}

func TestGormSinkTransactionRollsBack(t *testing.T) {
	db := testDB(t)
	s := NewGormSink(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx Sink) error {
		if err := tx.CreateProfile(ctx, &models.Profile{ID: "p1", UserID: "u1", FullName: "x"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&n).Error)
	assert.Zero(t, n, "rolled-back profile must not persist")
}

func TestGormSinkClearBehaviorData(t *testing.T) {
	db := testDB(t)
	s := NewGormSink(db)
	ctx := context.Background()

	require.NoError(t, s.CreateProfile(ctx, &models.Profile{ID: "p1", UserID: "u1", FullName: "x"}))
	require.NoError(t, s.CreateQuizAttempt(ctx, &models.QuizAttempt{
		ID: "a1", UserID: "u1", QuizID: "q1", AttemptNumber: 1,
		StartedAt: time.Now(), CompletedAt: time.Now(),
	}))
	require.NoError(t, db.Create(&models.Course{ID: "c1", Title: "kept"}).Error)

	require.NoError(t, s.ClearBehaviorData(ctx))

	var profiles, attempts, courses int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&profiles).Error)
	require.NoError(t, db.Model(&models.QuizAttempt{}).Count(&attempts).Error)
	require.NoError(t, db.Model(&models.Course{}).Count(&courses).Error)
	assert.Zero(t, profiles)
	assert.Zero(t, attempts)
	assert.Equal(t, int64(1), courses, "catalog tables survive a clear")
}
