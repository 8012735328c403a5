package account

import "time"

// User is an account stored in the users collection.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	ProfileImage string    `json:"profileImage,omitempty" bson:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// ProfileUpdate carries optional profile changes. Nil fields are left as they are.
type ProfileUpdate struct {
	Name         *string
	ProfileImage *string
}
