package models

import "time"

type NotificationChannel string

const (
	NotificationChannelEmail    NotificationChannel = "email"
	NotificationChannelWhatsapp NotificationChannel = "whatsapp"
	NotificationChannelNone     NotificationChannel = "none"
)

func (c NotificationChannel) Valid() bool {
	return c == NotificationChannelEmail || c == NotificationChannelWhatsapp || c == NotificationChannelNone
}

const (
	WhatsappTargetTypePersonal = "personal"
	WhatsappTargetTypeGroup    = "group"
)

// UserNotifPreference is how a trip owner wants to hear about new members
type UserNotifPreference struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"uniqueIndex" json:"user_id"`

	Channel NotificationChannel `gorm:"type:varchar(20);default:'email'" json:"channel"`

	// WhatsApp specific options
	WhatsappTargetType string `gorm:"type:varchar(20);default:'personal'" json:"whatsapp_target_type"`
	WhatsappGroupID    string `gorm:"type:varchar(100)" json:"whatsapp_group_id"` // used when target type is group
}

// DefaultNotifPreference is used for users who never saved a preference
func DefaultNotifPreference(userID uint) UserNotifPreference {
	return UserNotifPreference{
		UserID:             userID,
		Channel:            NotificationChannelEmail,
		WhatsappTargetType: WhatsappTargetTypePersonal,
	}
}

// WhatsappTarget returns the chat to message, or "" when there is none
func (p UserNotifPreference) WhatsappTarget(phone string) string {
	if p.WhatsappTargetType == WhatsappTargetTypeGroup && p.WhatsappGroupID != "" {
		return p.WhatsappGroupID
	}
	return phone
}
