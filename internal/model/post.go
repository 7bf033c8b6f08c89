package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxCaptionLength bounds post captions.
const MaxCaptionLength = 2200

// Image is a reference to a stored image: the public URL plus the key the
// storage provider assigned, kept for later deletion.
type Image struct {
	URL string `bson:"url" json:"url"`
	Key string `bson:"key" json:"key"`
}

// Post is a single published image with caption, likes and comments.
// The image reference is mandatory; comments keep creation order.
type Post struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Caption string             `bson:"caption,omitempty" json:"caption"`
	Image   Image              `bson:"image" json:"image"`
	User    primitive.ObjectID `bson:"user" json:"user"`

	Likes    []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments []primitive.ObjectID `bson:"comments" json:"comments"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// LikedBy reports whether the user is in the post's likers set.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	return containsID(p.Likes, userID)
}
