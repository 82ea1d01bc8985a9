package domain

import (
	"time"

	"gorm.io/gorm"
)

// User represents the users table. At least one of Email/Phone is set and
// both carry unique indexes when present. PasswordHash is empty for accounts
// created by social login.
type User struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	Email        *string `gorm:"type:varchar(255);uniqueIndex"`
	Phone        *string `gorm:"type:varchar(32);uniqueIndex"`
	PasswordHash string  `gorm:"type:varchar(255);not null"`
	FirstName    string  `gorm:"type:varchar(100);not null"`
	LastName     string  `gorm:"type:varchar(100);not null"`
	Role         string  `gorm:"type:varchar(32);not null;default:user"`
	CreatedAt    time.Time
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Identifier returns the token subject for this user: email when present,
// phone otherwise.
func (u *User) Identifier() string {
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	if u.Phone != nil {
		return *u.Phone
	}
	return ""
}

// Profile is the companion document kept in the profiles collection. It is
// created alongside the account but never inside the same transaction; a
// failed insert leaves an account without a profile.
type Profile struct {
	UserID        int64      `bson:"user_id"`
	Email         *string    `bson:"email"`
	Phone         *string    `bson:"phone"`
	FirstName     string     `bson:"first_name"`
	LastName      string     `bson:"last_name"`
	Username      *string    `bson:"username"`
	BirthDate     *time.Time `bson:"birthDate"`
	AvatarURL     *string    `bson:"avatar_url"`
	CoverPhoto    *string    `bson:"coverPhoto"`
	Bio           string     `bson:"bio"`
	Location      string     `bson:"location"`
	Website       *string    `bson:"website"`
	OnlineStatus  bool       `bson:"online_status"`
	LastSeen      *time.Time `bson:"last_seen"`
	Level         int        `bson:"level"`
	Points        int        `bson:"points"`
	RegisteredAt  time.Time  `bson:"registered_at"`
	Interests     []string   `bson:"interests"`
	FriendsCount  int        `bson:"friends_count"`
	FriendIDs     []int64    `bson:"friend_ids"`
	BlockedUsers  []int64    `bson:"blocked_users"`
	Notifications []string   `bson:"notifications"`
}

// NewProfile builds the default profile document for a freshly created user.
func NewProfile(user *User, avatarURL string) *Profile {
	var avatar *string
	if avatarURL != "" {
		avatar = &avatarURL
	}
	return &Profile{
		UserID:        user.ID,
		Email:         user.Email,
		Phone:         user.Phone,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		AvatarURL:     avatar,
		OnlineStatus:  false,
		Level:         1,
		Points:        0,
		RegisteredAt:  time.Now().UTC(),
		Interests:     []string{},
		FriendIDs:     []int64{},
		BlockedUsers:  []int64{},
		Notifications: []string{},
	}
}

// AutoMigrate runs auto migrations (used by cmd/migrate only)
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}
