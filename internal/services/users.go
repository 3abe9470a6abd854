package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trip_planner_app/internal/models"
)

// EnsureUser returns the local user for a Firebase uid, creating it on first
// sight. Name, email and phone are refreshed when the identity provider
// sends them.
func EnsureUser(ctx context.Context, db *gorm.DB, uid, email, name, phone string) (*models.User, error) {
	if uid == "" {
		return nil, errors.New("empty firebase uid")
	}

	user := models.User{FirebaseUID: uid, Email: email, Name: name, Phone: phone}
	updates := []string{"updated_at"}
	if email != "" {
		updates = append(updates, "email")
	}
	if name != "" {
		updates = append(updates, "name")
	}
	if phone != "" {
		updates = append(updates, "phone")
	}

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "firebase_uid"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}

	// the upsert does not always report the id of an existing row
	if user.ID == 0 {
		if err := db.WithContext(ctx).Where("firebase_uid = ?", uid).First(&user).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// UpdateUserProfile applies profile changes to a user and returns the stored
// row. Only the keys present in changes are written.
func UpdateUserProfile(ctx context.Context, db *gorm.DB, userID uint, changes map[string]interface{}) (*models.User, error) {
	if len(changes) > 0 {
		res := db.WithContext(ctx).Model(&models.User{ID: userID}).Updates(changes)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	var user models.User
	if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// LoadNotifPreference returns the user's notification preference, or the
// defaults when none was saved
func LoadNotifPreference(ctx context.Context, db *gorm.DB, userID uint) (models.UserNotifPreference, error) {
	var pref models.UserNotifPreference
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultNotifPreference(userID), nil
	}
	if err != nil {
		return pref, err
	}
	return pref, nil
}

// SaveNotifPreference upserts pref by user id
func SaveNotifPreference(ctx context.Context, db *gorm.DB, pref *models.UserNotifPreference) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"channel", "whatsapp_target_type", "whatsapp_group_id", "updated_at"}),
	}).Create(pref).Error
}
