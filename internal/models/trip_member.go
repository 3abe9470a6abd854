package models

import "time"

// MemberRole is the role a user holds on a trip
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// TripMember links a user to a trip. The (trip_id, user_id) pair is unique.
type TripMember struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TripID uint       `gorm:"uniqueIndex:idx_trip_members_trip_user;not null" json:"trip_id"`
	UserID uint       `gorm:"uniqueIndex:idx_trip_members_trip_user;not null" json:"user_id"`
	Role   MemberRole `gorm:"type:varchar(20);default:'member'" json:"role"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
