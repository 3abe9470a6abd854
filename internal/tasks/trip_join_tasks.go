package tasks

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"trip_planner_app/internal/models"
	"trip_planner_app/internal/services"
)

// NotifyTripJoinArgs are the arguments of a notify_trip_join task
type NotifyTripJoinArgs struct {
	TripID   uint   `json:"trip_id"`
	TripName string `json:"trip_name"`
	OwnerID  uint   `json:"owner_id"`
	MemberID uint   `json:"member_id"`
}

type emailSender interface {
	SendEmail(to []string, subject, body string) error
}

type whatsappSender interface {
	SendMessage(chatId, text string) error
}

// NotifyTripJoinTaskDef tells a trip owner that somebody joined their trip
type NotifyTripJoinTaskDef struct {
	newEmail    func() emailSender
	newWhatsapp func() whatsappSender
}

func (t *NotifyTripJoinTaskDef) TaskID() string {
	return "notify_trip_join"
}

// CreateTask builds a one-time task due now
func (t *NotifyTripJoinTaskDef) CreateTask(args NotifyTripJoinArgs) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), args, time.Now(), nil, models.ScheduledTaskTypeOneTime, 3)
}

func (t *NotifyTripJoinTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	var args NotifyTripJoinArgs
	if err := decodeArgs(task, &args); err != nil {
		return nil, err
	}
	if args.TripID == 0 || args.OwnerID == 0 || args.MemberID == 0 {
		return nil, fmt.Errorf("trip_id, owner_id and member_id are required")
	}

	var owner, member models.User
	if err := db.WithContext(ctx).First(&owner, args.OwnerID).Error; err != nil {
		return nil, fmt.Errorf("failed to load owner %d: %w", args.OwnerID, err)
	}
	if err := db.WithContext(ctx).First(&member, args.MemberID).Error; err != nil {
		return nil, fmt.Errorf("failed to load member %d: %w", args.MemberID, err)
	}
	pref, err := services.LoadNotifPreference(ctx, db, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preference of owner %d: %w", owner.ID, err)
	}

	return t.notify(owner, member, pref, args)
}

// notify delivers the join message on the owner's preferred channel
func (t *NotifyTripJoinTaskDef) notify(owner, member models.User, pref models.UserNotifPreference, args NotifyTripJoinArgs) (map[string]interface{}, error) {
	subject, body := joinMessage(owner, member, args)
	result := map[string]interface{}{"trip_id": args.TripID, "channel": string(pref.Channel)}

	var err error
	switch pref.Channel {
	case models.NotificationChannelNone:
		result["status"] = "skipped"
		return result, nil
	case models.NotificationChannelWhatsapp:
		target := pref.WhatsappTarget(owner.Phone)
		if target == "" {
			result["status"] = "skipped"
			result["message"] = "owner has no whatsapp target"
			return result, nil
		}
		err = t.newWhatsapp().SendMessage(target, body)
	default:
		if owner.Email == "" {
			result["status"] = "skipped"
			result["message"] = "owner has no email"
			return result, nil
		}
		err = t.newEmail().SendEmail([]string{owner.Email}, subject, body)
	}

	if err != nil {
		log.Printf("Failed to notify owner %d about trip %d: %v", owner.ID, args.TripID, err)
		result["status"] = "failure"
		return result, err
	}
	result["status"] = "success"
	return result, nil
}

func joinMessage(owner, member models.User, args NotifyTripJoinArgs) (string, string) {
	who := strings.TrimSpace(member.Name)
	if who == "" {
		who = "A traveller"
	}
	trip := strings.TrimSpace(args.TripName)
	if trip == "" {
		trip = fmt.Sprintf("trip #%d", args.TripID)
	}
	greeting := "Hi"
	if name := strings.TrimSpace(owner.Name); name != "" {
		greeting = "Hi " + name
	}
	subject := fmt.Sprintf("%s joined %s", who, trip)
	body := fmt.Sprintf("%s,\n\n%s just joined your trip \"%s\".", greeting, who, trip)
	return subject, body
}

var NotifyTripJoinTask = &NotifyTripJoinTaskDef{
	newEmail:    func() emailSender { return services.NewEmailService() },
	newWhatsapp: func() whatsappSender { return services.NewWahaService() },
}
