package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trip_planner_app/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet database expectations: %v", err)
		}
		sqlDB.Close()
	})
	return db, mock
}

func TestEnsureUserStoresPhone(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO "users" .*ON CONFLICT \("firebase_uid"\) DO UPDATE SET .*"phone"="excluded"."phone" RETURNING "id"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "uid-1", "Nok", "nok@example.com", "+66812345678").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	user, err := EnsureUser(context.Background(), db, "uid-1", "nok@example.com", "Nok", "+66812345678")
	if err != nil {
		t.Fatalf("EnsureUser returned error: %v", err)
	}
	if user.ID != 5 || user.Phone != "+66812345678" {
		t.Errorf("user = %+v", user)
	}
}

func TestEnsureUserRequiresUID(t *testing.T) {
	db, _ := newMockDB(t)
	if _, err := EnsureUser(context.Background(), db, "", "a@b.c", "", ""); err == nil {
		t.Error("EnsureUser accepted an empty uid")
	}
}

func TestUpdateUserProfileWithoutChanges(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "phone"}).AddRow(4, "0812345678"))

	user, err := UpdateUserProfile(context.Background(), db, 4, nil)
	if err != nil {
		t.Fatalf("UpdateUserProfile returned error: %v", err)
	}
	if user.ID != 4 || user.Phone != "0812345678" {
		t.Errorf("user = %+v", user)
	}
}

func TestLoadNotifPreferenceDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "user_notif_preferences" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	pref, err := LoadNotifPreference(context.Background(), db, 9)
	if err != nil {
		t.Fatalf("LoadNotifPreference returned error: %v", err)
	}
	if pref != models.DefaultNotifPreference(9) {
		t.Errorf("pref = %+v; want defaults", pref)
	}
}
