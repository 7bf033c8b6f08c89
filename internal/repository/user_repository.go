package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"picstream/internal/db"
	"picstream/internal/model"
)

// UserRepository defines persistence operations on user records. Updates are
// focused single-purpose mutations; the OTP pairs are always set and cleared
// together in one update so a record can never be left half-set.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByResetOTP matches email, exact reset code and an unexpired window
	// in a single lookup.
	FindByResetOTP(ctx context.Context, email, code string, now time.Time) (*model.User, error)
	FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
	ListExcept(ctx context.Context, id primitive.ObjectID) ([]model.User, error)

	SetVerificationOTP(ctx context.Context, id primitive.ObjectID, code string, expires time.Time) error
	ClearVerificationOTP(ctx context.Context, id primitive.ObjectID) error
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	SetResetOTP(ctx context.Context, id primitive.ObjectID, code string, expires time.Time) error
	ClearResetOTP(ctx context.Context, id primitive.ObjectID) error

	UpdatePassword(ctx context.Context, id primitive.ObjectID, hashed string) error
	ResetPassword(ctx context.Context, id primitive.ObjectID, hashed string) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, bio, pictureURL *string) error

	AddPost(ctx context.Context, userID, postID primitive.ObjectID) error
	RemovePost(ctx context.Context, userID, postID primitive.ObjectID) error
	SavePost(ctx context.Context, userID, postID primitive.ObjectID) error
	UnsavePost(ctx context.Context, userID, postID primitive.ObjectID) error
	RemovePostFromAllSaved(ctx context.Context, postID primitive.ObjectID) error

	Follow(ctx context.Context, followerID, targetID primitive.ObjectID) error
	Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) error
}

type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository builds a Mongo-backed user repository.
func NewUserRepository(database *mongo.Database) UserRepository {
	return &userRepository{col: database.Collection(db.UsersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}
	if user.SavedPosts == nil {
		user.SavedPosts = []primitive.ObjectID{}
	}
	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) FindByResetOTP(ctx context.Context, email, code string, now time.Time) (*model.User, error) {
	return r.findOne(ctx, bson.M{
		"email":                   email,
		"resetPasswordOtp":        code,
		"resetPasswordOtpExpires": bson.M{"$gt": now},
	})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListExcept(ctx context.Context, id primitive.ObjectID) ([]model.User, error) {
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$ne": id}})
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) SetVerificationOTP(ctx context.Context, id primitive.ObjectID, code string, expires time.Time) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{"otp": code, "otpExpires": expires, "updatedAt": time.Now()},
	})
}

func (r *userRepository) ClearVerificationOTP(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, id, bson.M{
		"$unset": bson.M{"otp": "", "otpExpires": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	})
}

func (r *userRepository) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, id, bson.M{
		"$set":   bson.M{"isVerified": true, "updatedAt": time.Now()},
		"$unset": bson.M{"otp": "", "otpExpires": ""},
	})
}

func (r *userRepository) SetResetOTP(ctx context.Context, id primitive.ObjectID, code string, expires time.Time) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{"resetPasswordOtp": code, "resetPasswordOtpExpires": expires, "updatedAt": time.Now()},
	})
}

func (r *userRepository) ClearResetOTP(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, id, bson.M{
		"$unset": bson.M{"resetPasswordOtp": "", "resetPasswordOtpExpires": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashed string) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{"password": hashed, "updatedAt": time.Now()},
	})
}

func (r *userRepository) ResetPassword(ctx context.Context, id primitive.ObjectID, hashed string) error {
	// Password swap and reset-OTP clearing happen in one document update.
	return r.update(ctx, id, bson.M{
		"$set":   bson.M{"password": hashed, "updatedAt": time.Now()},
		"$unset": bson.M{"resetPasswordOtp": "", "resetPasswordOtpExpires": ""},
	})
}

func (r *userRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, bio, pictureURL *string) error {
	set := bson.M{"updatedAt": time.Now()}
	if bio != nil {
		set["bio"] = *bio
	}
	if pictureURL != nil {
		set["profilePicture"] = *pictureURL
	}
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *userRepository) AddPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.update(ctx, userID, bson.M{"$addToSet": bson.M{"posts": postID}})
}

func (r *userRepository) RemovePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.update(ctx, userID, bson.M{"$pull": bson.M{"posts": postID}})
}

func (r *userRepository) SavePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.update(ctx, userID, bson.M{"$addToSet": bson.M{"savedPosts": postID}})
}

func (r *userRepository) UnsavePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.update(ctx, userID, bson.M{"$pull": bson.M{"savedPosts": postID}})
}

func (r *userRepository) RemovePostFromAllSaved(ctx context.Context, postID primitive.ObjectID) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"savedPosts": postID},
		bson.M{"$pull": bson.M{"savedPosts": postID}},
	)
	return err
}

// Follow adds the relationship pair. The two single-document updates are
// issued sequentially and are not atomic as a pair; a crash in between can
// leave an asymmetric relationship.
func (r *userRepository) Follow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	if err := r.update(ctx, followerID, bson.M{"$addToSet": bson.M{"following": targetID}}); err != nil {
		return err
	}
	return r.update(ctx, targetID, bson.M{"$addToSet": bson.M{"followers": followerID}})
}

// Unfollow removes the relationship pair, with the same non-atomicity caveat
// as Follow.
func (r *userRepository) Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	if err := r.update(ctx, followerID, bson.M{"$pull": bson.M{"following": targetID}}); err != nil {
		return err
	}
	return r.update(ctx, targetID, bson.M{"$pull": bson.M{"followers": followerID}})
}

func (r *userRepository) update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
