package repos

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cinefindr/cinefindr-backend/internal/logger"
	"github.com/cinefindr/cinefindr-backend/internal/types"
)

// testDB connects to the database named by TEST_POSTGRES_DSN and migrates
// the schema. Tests are skipped when the variable is unset so the suite
// stays runnable without a live Postgres.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		t.Fatalf("uuid-ossp: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&types.User{},
		&types.Profile{},
		&types.Title{},
		&types.Interaction{},
		&types.Embedding{},
		&types.RecoScore{},
		&types.Availability{},
		&types.Genre{},
		&types.Provider{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gormDB
}

func repoLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func seedUser(t *testing.T, tx *gorm.DB) *types.User {
	t.Helper()
	user := &types.User{ID: uuid.New()}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedTitle(t *testing.T, tx *gorm.DB, name string, popularity float64, genres ...string) *types.Title {
	t.Helper()
	title := &types.Title{
		ID:            uuid.New(),
		TmdbID:        int64(uuid.New().ID()),
		Type:          types.TitleTypeMovie,
		OriginalTitle: name,
		Genres:        types.JSONStrings(genres),
		Popularity:    popularity,
	}
	if err := tx.Create(title).Error; err != nil {
		t.Fatalf("seed title: %v", err)
	}
	return title
}

// withTx runs fn inside a rolled-back transaction so tests leave no rows
// behind.
func withTx(t *testing.T, db *gorm.DB, fn func(tx *gorm.DB)) {
	t.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin: %v", tx.Error)
	}
	defer tx.Rollback()
	fn(tx)
}

func TestRecoScoreRepo_UpsertIsIdempotentPerUserTitle(t *testing.T) {
	db := testDB(t)
	repo := NewRecoScoreRepo(db, repoLogger(t))
	ctx := context.Background()

	withTx(t, db, func(tx *gorm.DB) {
		user := seedUser(t, tx)
		title := seedTitle(t, tx, "Upsertable", 10, "Action")

		first := &types.RecoScore{
			ID:       uuid.New(),
			UserID:   user.ID,
			TitleID:  title.ID,
			Score:    0.4,
			Metadata: types.JSONMap(map[string]any{"method": types.RecoMethodCollaborative}),
		}
		if _, err := repo.Upsert(ctx, tx, first); err != nil {
			t.Fatalf("first upsert: %v", err)
		}

		second := &types.RecoScore{
			ID:       uuid.New(),
			UserID:   user.ID,
			TitleID:  title.ID,
			Score:    0.7,
			Metadata: types.JSONMap(map[string]any{"method": types.RecoMethodCollaborative}),
		}
		if _, err := repo.Upsert(ctx, tx, second); err != nil {
			t.Fatalf("second upsert: %v", err)
		}

		var count int64
		if err := tx.Model(&types.RecoScore{}).
			Where("user_id = ? AND title_id = ?", user.ID, title.ID).
			Count(&count).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 1 {
			t.Fatalf("got %d rows for (user, title), want 1", count)
		}

		var row types.RecoScore
		if err := tx.Where("user_id = ? AND title_id = ?", user.ID, title.ID).First(&row).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if row.Score != 0.7 {
			t.Fatalf("score = %v, want 0.7 after second upsert", row.Score)
		}
	})
}

func TestRecoScoreRepo_UpdateScoreMergeMetadataIsAdditive(t *testing.T) {
	db := testDB(t)
	repo := NewRecoScoreRepo(db, repoLogger(t))
	ctx := context.Background()

	withTx(t, db, func(tx *gorm.DB) {
		user := seedUser(t, tx)
		title := seedTitle(t, tx, "Mergeable", 10, "Drama")

		row := &types.RecoScore{
			ID:      uuid.New(),
			UserID:  user.ID,
			TitleID: title.ID,
			Score:   0.5,
			Metadata: types.JSONMap(map[string]any{
				"method":       types.RecoMethodCollaborative,
				"genreOverlap": 2,
			}),
		}
		if _, err := repo.Upsert(ctx, tx, row); err != nil {
			t.Fatalf("upsert: %v", err)
		}

		var stored types.RecoScore
		if err := tx.Where("user_id = ? AND title_id = ?", user.ID, title.ID).First(&stored).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}

		patch := map[string]any{"contentSim": 0.9, "collabScore": 0.5, "hybridScore": 0.74}
		if err := repo.UpdateScoreMergeMetadata(ctx, tx, stored.ID, 0.74, patch); err != nil {
			t.Fatalf("merge: %v", err)
		}

		if err := tx.Where("id = ?", stored.ID).First(&stored).Error; err != nil {
			t.Fatalf("reload after merge: %v", err)
		}
		if stored.Score != 0.74 {
			t.Fatalf("score = %v, want 0.74", stored.Score)
		}
		meta := stored.MetadataMap()
		// Earlier collaborative fields survive the hybrid patch.
		if meta["method"] != types.RecoMethodCollaborative {
			t.Fatalf("method lost in merge: %v", meta)
		}
		for _, key := range []string{"genreOverlap", "contentSim", "collabScore", "hybridScore"} {
			if _, ok := meta[key]; !ok {
				t.Fatalf("metadata missing %q after merge: %v", key, meta)
			}
		}
	})
}

func TestTitleRepo_ListCandidatesByGenresExcludesInteracted(t *testing.T) {
	db := testDB(t)
	repo := NewTitleRepo(db, repoLogger(t))
	ctx := context.Background()

	withTx(t, db, func(tx *gorm.DB) {
		liked := seedTitle(t, tx, "Already Seen", 50, "Action")
		match := seedTitle(t, tx, "Fresh Match", 40, "Action", "Thriller")
		seedTitle(t, tx, "Unrelated", 60, "Documentary")

		got, err := repo.ListCandidatesByGenres(ctx, tx, []string{"Action"}, []uuid.UUID{liked.ID}, 100)
		if err != nil {
			t.Fatalf("ListCandidatesByGenres: %v", err)
		}

		for _, title := range got {
			if title.ID == liked.ID {
				t.Fatalf("interacted title not excluded")
			}
			if title.OriginalTitle == "Unrelated" {
				t.Fatalf("genre predicate matched a non-overlapping title")
			}
		}
		found := false
		for _, title := range got {
			if title.ID == match.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("overlapping candidate missing from results")
		}
	})
}

func TestInteractionRepo_GetRecentPositiveFiltersEvents(t *testing.T) {
	db := testDB(t)
	repo := NewInteractionRepo(db, repoLogger(t))
	ctx := context.Background()

	withTx(t, db, func(tx *gorm.DB) {
		user := seedUser(t, tx)
		title := seedTitle(t, tx, "Watched", 10, "Action")

		for _, event := range []string{types.EventImpression, types.EventClick, types.EventLike, types.EventSave, types.EventComplete, types.EventStart} {
			row := &types.Interaction{
				ID:      uuid.New(),
				UserID:  user.ID,
				TitleID: title.ID,
				Event:   event,
				Score:   types.EventScores[event],
			}
			if _, err := repo.Create(ctx, tx, row); err != nil {
				t.Fatalf("create %s: %v", event, err)
			}
		}

		got, err := repo.GetRecentPositive(ctx, tx, user.ID, 50)
		if err != nil {
			t.Fatalf("GetRecentPositive: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("got %d interactions, want 3 positive", len(got))
		}
		for _, row := range got {
			switch row.Event {
			case types.EventLike, types.EventSave, types.EventComplete:
			default:
				t.Fatalf("non-positive event %q returned", row.Event)
			}
			if row.Title == nil {
				t.Fatalf("title not preloaded")
			}
		}
	})
}
