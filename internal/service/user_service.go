package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "picstream/internal/errors"
	"picstream/internal/media"
	"picstream/internal/model"
	"picstream/internal/repository"
	"picstream/internal/storage"
)

// ProfileView is a user with their own and saved posts resolved, newest
// first.
type ProfileView struct {
	User       *model.User  `json:"user"`
	Posts      []model.Post `json:"posts"`
	SavedPosts []model.Post `json:"savedPosts"`
}

// UserService covers profiles and the follow graph.
type UserService interface {
	GetProfile(ctx context.Context, id primitive.ObjectID) (*ProfileView, error)
	EditProfile(ctx context.Context, user *model.User, bio *string, image []byte) (*model.User, error)
	SuggestedUsers(ctx context.Context, callerID primitive.ObjectID) ([]model.User, error)
	FollowUnfollow(ctx context.Context, caller *model.User, targetID primitive.ObjectID) (*model.User, bool, error)
}

type userService struct {
	users  repository.UserRepository
	posts  repository.PostRepository
	images storage.ImageStore
}

// NewUserService creates the profile and social-graph service.
func NewUserService(users repository.UserRepository, posts repository.PostRepository, images storage.ImageStore) UserService {
	return &userService{users: users, posts: posts, images: images}
}

// GetProfile returns a user's profile with their posts and saved posts.
func (s *userService) GetProfile(ctx context.Context, id primitive.ObjectID) (*ProfileView, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "find user", err)
	}

	posts, err := s.posts.FindByUser(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "list user posts", err)
	}
	saved, err := s.posts.FindManyByIDs(ctx, user.SavedPosts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "list saved posts", err)
	}

	if posts == nil {
		posts = []model.Post{}
	}
	if saved == nil {
		saved = []model.Post{}
	}
	return &ProfileView{User: user, Posts: posts, SavedPosts: saved}, nil
}

// EditProfile updates whichever of bio and profile image were supplied. An
// image upload failure aborts the whole update.
func (s *userService) EditProfile(ctx context.Context, user *model.User, bio *string, image []byte) (*model.User, error) {
	var pictureURL *string
	if len(image) > 0 {
		processed, err := media.Process(image)
		if err != nil {
			return nil, apperrors.Validation("the uploaded file is not a supported image")
		}
		uploaded, err := s.images.Upload(ctx, processed, "image/jpeg")
		if err != nil {
			return nil, apperrors.Provider("could not upload the profile image", err)
		}
		pictureURL = &uploaded.URL
	}
	if bio != nil {
		trimmed := strings.TrimSpace(*bio)
		bio = &trimmed
	}

	if bio == nil && pictureURL == nil {
		return user, nil
	}
	if err := s.users.UpdateProfile(ctx, user.ID, bio, pictureURL); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "update profile", err)
	}

	updated, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "reload user", err)
	}
	return updated, nil
}

// SuggestedUsers returns every user except the caller. No ranking.
func (s *userService) SuggestedUsers(ctx context.Context, callerID primitive.ObjectID) ([]model.User, error) {
	users, err := s.users.ListExcept(ctx, callerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "list users", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// FollowUnfollow toggles the caller's relationship with the target: both the
// caller's following set and the target's followers set are updated. The two
// updates are not atomic as a pair. Self-follow is rejected.
func (s *userService) FollowUnfollow(ctx context.Context, caller *model.User, targetID primitive.ObjectID) (*model.User, bool, error) {
	if caller.ID == targetID {
		return nil, false, apperrors.Validation("you cannot follow yourself")
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, apperrors.NotFound("user not found")
		}
		return nil, false, apperrors.Wrap(apperrors.KindInternal, "find target user", err)
	}

	following := !target.IsFollowedBy(caller.ID)
	if following {
		err = s.users.Follow(ctx, caller.ID, targetID)
	} else {
		err = s.users.Unfollow(ctx, caller.ID, targetID)
	}
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.KindInternal, "update follow relationship", err)
	}

	updated, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.KindInternal, "reload user", err)
	}
	return updated, following, nil
}
