package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trip_planner_app/internal/middleware"
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

func newProfileServer(db *gorm.DB) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.CustomErrorHandler
	e.PUT("/auth/user", NewUserHandler(db).UpdateProfile, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextUserID, uint(7))
			c.Set(middleware.ContextUserUID, "uid-7")
			return next(c)
		}
	})
	return e
}

func TestUpdateProfileStoresPhone(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "users" SET "phone"=\$1,"updated_at"=\$2 WHERE .*"id" = \$3`).
		WithArgs("+66 81 234 5678", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "firebase_uid", "name", "email", "phone"}).
			AddRow(7, "uid-7", "Nok", "nok@example.com", "+66 81 234 5678"))

	rec := do(newProfileServer(db), http.MethodPut, "/auth/user", `{"phone": " +66 81 234 5678 "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (%s)", rec.Code, rec.Body.String())
	}
	var resp CurrentUserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.ID != 7 || resp.UID != "uid-7" || resp.Phone != "+66 81 234 5678" {
		t.Errorf("response = %+v", resp)
	}
}

func TestUpdateProfileErrors(t *testing.T) {
	t.Run("invalid phone never reaches the database", func(t *testing.T) {
		db, _ := newMockDB(t)
		rec := do(newProfileServer(db), http.MethodPut, "/auth/user", `{"phone": "call me"}`)
		if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != middleware.CodeBadRequest {
			t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		rec := do(newProfileServer(db), http.MethodPut, "/auth/user", `{"phone": "0812345678"}`)
		if rec.Code != http.StatusNotFound || decodeError(t, rec).Code != middleware.CodeNotFound {
			t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
		}
	})
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone    string
		expected bool
	}{
		{"0812345678", true},
		{"+66 81-234-5678", true},
		{"(02) 123 4567", true},
		{"12345", false},
		{"66+812345678", false},
		{"081234567x", false},
		{"+1234567890123456", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			if got := validPhone(tt.phone); got != tt.expected {
				t.Errorf("validPhone(%q) = %v; want %v", tt.phone, got, tt.expected)
			}
		})
	}
}
