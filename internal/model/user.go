package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. Password and the OTP fields are never
// serialized to clients; the two OTP channels (verification and password
// reset) are always set and cleared as pairs.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	Bio            string             `bson:"bio,omitempty" json:"bio"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture"`

	Followers  []primitive.ObjectID `bson:"followers" json:"followers"`
	Following  []primitive.ObjectID `bson:"following" json:"following"`
	Posts      []primitive.ObjectID `bson:"posts" json:"posts"`
	SavedPosts []primitive.ObjectID `bson:"savedPosts" json:"savedPosts"`

	IsVerified bool       `bson:"isVerified" json:"isVerified"`
	OTP        string     `bson:"otp,omitempty" json:"-"`
	OTPExpires *time.Time `bson:"otpExpires,omitempty" json:"-"`

	ResetPasswordOTP        string     `bson:"resetPasswordOtp,omitempty" json:"-"`
	ResetPasswordOTPExpires *time.Time `bson:"resetPasswordOtpExpires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AuthorSummary is the public profile slice attached to posts and comments.
type AuthorSummary struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Bio            string             `bson:"bio,omitempty" json:"bio"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture"`
}

// Summary returns the public profile slice of a user.
func (u *User) Summary() AuthorSummary {
	return AuthorSummary{
		ID:             u.ID,
		Username:       u.Username,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
	}
}

// HasSaved reports whether the user has the post in their saved list.
func (u *User) HasSaved(postID primitive.ObjectID) bool {
	return containsID(u.SavedPosts, postID)
}

// IsFollowedBy reports whether follower is in the user's followers set.
func (u *User) IsFollowedBy(follower primitive.ObjectID) bool {
	return containsID(u.Followers, follower)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
