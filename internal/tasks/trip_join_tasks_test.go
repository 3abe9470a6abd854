package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trip_planner_app/internal/models"
)

type sentEmail struct {
	to      []string
	subject string
}

type fakeEmail struct {
	sent []sentEmail
	err  error
}

func (f *fakeEmail) SendEmail(to []string, subject, body string) error {
	f.sent = append(f.sent, sentEmail{to: to, subject: subject})
	return f.err
}

type fakeWhatsapp struct {
	chats []string
	err   error
}

func (f *fakeWhatsapp) SendMessage(chatId, text string) error {
	f.chats = append(f.chats, chatId)
	return f.err
}

func newNotifyTask(email *fakeEmail, wa *fakeWhatsapp) *NotifyTripJoinTaskDef {
	return &NotifyTripJoinTaskDef{
		newEmail:    func() emailSender { return email },
		newWhatsapp: func() whatsappSender { return wa },
	}
}

func TestNotifyTripJoin(t *testing.T) {
	owner := models.User{ID: 1, Name: "Nok", Email: "nok@example.com", Phone: "0812345678"}
	member := models.User{ID: 2, Name: "Ploy"}
	args := NotifyTripJoinArgs{TripID: 9, TripName: "Krabi", OwnerID: 1, MemberID: 2}

	tests := []struct {
		name           string
		owner          models.User
		pref           models.UserNotifPreference
		emailErr       error
		expectedStatus string
		expectedEmails int
		expectedChat   string
		wantErr        bool
	}{
		{
			name:           "default preference emails the owner",
			owner:          owner,
			pref:           models.DefaultNotifPreference(1),
			expectedStatus: "success",
			expectedEmails: 1,
		},
		{
			name:           "whatsapp personal",
			owner:          owner,
			pref:           models.UserNotifPreference{Channel: models.NotificationChannelWhatsapp, WhatsappTargetType: models.WhatsappTargetTypePersonal},
			expectedStatus: "success",
			expectedChat:   "0812345678",
		},
		{
			name:           "whatsapp group",
			owner:          owner,
			pref:           models.UserNotifPreference{Channel: models.NotificationChannelWhatsapp, WhatsappTargetType: models.WhatsappTargetTypeGroup, WhatsappGroupID: "1203@g.us"},
			expectedStatus: "success",
			expectedChat:   "1203@g.us",
		},
		{
			name:           "muted",
			owner:          owner,
			pref:           models.UserNotifPreference{Channel: models.NotificationChannelNone},
			expectedStatus: "skipped",
		},
		{
			name:           "no email on file",
			owner:          models.User{ID: 1},
			pref:           models.DefaultNotifPreference(1),
			expectedStatus: "skipped",
		},
		{
			name:           "send failure",
			owner:          owner,
			pref:           models.DefaultNotifPreference(1),
			emailErr:       errors.New("smtp down"),
			expectedStatus: "failure",
			expectedEmails: 1,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := &fakeEmail{err: tt.emailErr}
			wa := &fakeWhatsapp{}
			result, err := newNotifyTask(email, wa).notify(tt.owner, member, tt.pref, args)

			if (err != nil) != tt.wantErr {
				t.Fatalf("notify error = %v; wantErr %v", err, tt.wantErr)
			}
			if result["status"] != tt.expectedStatus {
				t.Errorf("status = %v; want %s", result["status"], tt.expectedStatus)
			}
			if len(email.sent) != tt.expectedEmails {
				t.Errorf("emails sent = %d; want %d", len(email.sent), tt.expectedEmails)
			}
			if tt.expectedChat == "" && len(wa.chats) != 0 {
				t.Errorf("unexpected whatsapp messages to %v", wa.chats)
			}
			if tt.expectedChat != "" && (len(wa.chats) != 1 || wa.chats[0] != tt.expectedChat) {
				t.Errorf("whatsapp chats = %v; want %s", wa.chats, tt.expectedChat)
			}
		})
	}
}

func TestJoinMessage(t *testing.T) {
	subject, body := joinMessage(models.User{Name: "Nok"}, models.User{Name: "Ploy"}, NotifyTripJoinArgs{TripID: 3, TripName: "Krabi"})
	if subject != "Ploy joined Krabi" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.HasPrefix(body, "Hi Nok,") || !strings.Contains(body, `"Krabi"`) {
		t.Errorf("body = %q", body)
	}

	subject, _ = joinMessage(models.User{}, models.User{}, NotifyTripJoinArgs{TripID: 3})
	if subject != "A traveller joined trip #3" {
		t.Errorf("subject = %q", subject)
	}
}

func TestCreateTask(t *testing.T) {
	task, err := NotifyTripJoinTask.CreateTask(NotifyTripJoinArgs{TripID: 4, OwnerID: 1, MemberID: 2})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if task.TaskName != "notify_trip_join" || task.Status != models.ScheduledTaskStatusActive {
		t.Errorf("task = %+v", task)
	}

	var args NotifyTripJoinArgs
	if err := decodeArgs(*task, &args); err != nil || args.TripID != 4 || args.MemberID != 2 {
		t.Errorf("decoded args = %+v, %v", args, err)
	}
}

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

func TestNotifyTripJoinSendsToStoredPhone(t *testing.T) {
	db, mock := newMockDB(t)
	userColumns := []string{"id", "firebase_uid", "name", "email", "phone"}
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "uid-1", "Nok", "nok@example.com", "+66812345678"))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(2, "uid-2", "Ploy", "", ""))
	mock.ExpectQuery(`SELECT \* FROM "user_notif_preferences" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "channel", "whatsapp_target_type", "whatsapp_group_id"}).
			AddRow(1, 1, "whatsapp", "personal", ""))

	task, err := NotifyTripJoinTask.CreateTask(NotifyTripJoinArgs{TripID: 9, TripName: "Krabi", OwnerID: 1, MemberID: 2})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	email := &fakeEmail{}
	wa := &fakeWhatsapp{}
	result, err := newNotifyTask(email, wa).HandleExecution(context.Background(), db, *task)
	if err != nil {
		t.Fatalf("HandleExecution returned error: %v", err)
	}
	if result["status"] != "success" {
		t.Errorf("status = %v; want success", result["status"])
	}
	if len(wa.chats) != 1 || wa.chats[0] != "+66812345678" {
		t.Errorf("whatsapp chats = %v; want the owner's phone", wa.chats)
	}
	if len(email.sent) != 0 {
		t.Errorf("unexpected emails %v", email.sent)
	}
}
