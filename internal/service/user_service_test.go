package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "picstream/internal/errors"
	"picstream/internal/model"
)

func TestUserService_GetProfile(t *testing.T) {
	userID := primitive.NewObjectID()
	savedID := primitive.NewObjectID()

	t.Run("user not found", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(nil, mongo.ErrNoDocuments)

		service := NewUserService(mockUsers, new(MockPostRepository), new(MockImageStore))
		profile, err := service.GetProfile(context.Background(), userID)

		assert.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
		assert.Nil(t, profile)
	})

	t.Run("profile with posts and saved posts", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPosts := new(MockPostRepository)
		saved := []primitive.ObjectID{savedID}

		mockUsers.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, Username: "ahmed", SavedPosts: saved}, nil)
		mockPosts.On("FindByUser", mock.Anything, userID).
			Return([]model.Post{{ID: primitive.NewObjectID(), User: userID}}, nil)
		mockPosts.On("FindManyByIDs", mock.Anything, saved).
			Return([]model.Post{{ID: savedID}}, nil)

		service := NewUserService(mockUsers, mockPosts, new(MockImageStore))
		profile, err := service.GetProfile(context.Background(), userID)

		assert.NoError(t, err)
		assert.NotNil(t, profile)
		assert.Equal(t, "ahmed", profile.User.Username)
		assert.Len(t, profile.Posts, 1)
		assert.Len(t, profile.SavedPosts, 1)
	})

	t.Run("empty lists are never nil", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPosts := new(MockPostRepository)

		mockUsers.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
		mockPosts.On("FindByUser", mock.Anything, userID).Return(nil, nil)
		mockPosts.On("FindManyByIDs", mock.Anything, mock.Anything).Return(nil, nil)

		service := NewUserService(mockUsers, mockPosts, new(MockImageStore))
		profile, err := service.GetProfile(context.Background(), userID)

		assert.NoError(t, err)
		assert.NotNil(t, profile.Posts)
		assert.NotNil(t, profile.SavedPosts)
		assert.Empty(t, profile.Posts)
		assert.Empty(t, profile.SavedPosts)
	})
}

func TestUserService_EditProfile(t *testing.T) {
	userID := primitive.NewObjectID()
	user := &model.User{ID: userID, Username: "ahmed"}

	t.Run("nothing to update returns the user unchanged", func(t *testing.T) {
		mockUsers := new(MockUserRepository)

		service := NewUserService(mockUsers, new(MockPostRepository), new(MockImageStore))
		updated, err := service.EditProfile(context.Background(), user, nil, nil)

		assert.NoError(t, err)
		assert.Same(t, user, updated)
		mockUsers.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bio update", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		bio := "  street photographer  "
		trimmed := "street photographer"

		mockUsers.On("UpdateProfile", mock.Anything, userID, &trimmed, (*string)(nil)).Return(nil)
		mockUsers.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, Username: "ahmed", Bio: trimmed}, nil)

		service := NewUserService(mockUsers, new(MockPostRepository), new(MockImageStore))
		updated, err := service.EditProfile(context.Background(), user, &bio, nil)

		assert.NoError(t, err)
		assert.Equal(t, trimmed, updated.Bio)
		mockUsers.AssertExpectations(t)
	})

	t.Run("unreadable image aborts the update", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockImages := new(MockImageStore)
		bio := "new bio"

		service := NewUserService(mockUsers, new(MockPostRepository), mockImages)
		updated, err := service.EditProfile(context.Background(), user, &bio, []byte("not an image"))

		assert.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Nil(t, updated)
		mockImages.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
		mockUsers.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_SuggestedUsers(t *testing.T) {
	callerID := primitive.NewObjectID()

	t.Run("excludes the caller", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		others := []model.User{
			{ID: primitive.NewObjectID(), Username: "sara"},
			{ID: primitive.NewObjectID(), Username: "omar"},
		}
		mockUsers.On("ListExcept", mock.Anything, callerID).Return(others, nil)

		service := NewUserService(mockUsers, new(MockPostRepository), new(MockImageStore))
		users, err := service.SuggestedUsers(context.Background(), callerID)

		assert.NoError(t, err)
		assert.Len(t, users, 2)
		for _, u := range users {
			assert.NotEqual(t, callerID, u.ID)
		}
	})

	t.Run("empty result is never nil", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("ListExcept", mock.Anything, callerID).Return(nil, nil)

		service := NewUserService(mockUsers, new(MockPostRepository), new(MockImageStore))
		users, err := service.SuggestedUsers(context.Background(), callerID)

		assert.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})
}

func TestUserService_FollowUnfollow(t *testing.T) {
	callerID := primitive.NewObjectID()
	targetID := primitive.NewObjectID()
	caller := &model.User{ID: callerID, Username: "ahmed"}

	t.Run("self follow is rejected", func(t *testing.T) {
		mockUsers := new(MockUserRepository)

		service := NewUserService(mockUsers, new(MockPostRepository), new(MockImageStore))
		updated, following, err := service.FollowUnfollow(context.Background(), caller, callerID)

		assert.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Nil(t, updated)
		assert.False(t, following)
		mockUsers.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
		mockUsers.AssertNotCalled(t, "Unfollow", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("target not found", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, targetID).Return(nil, mongo.ErrNoDocuments)

		service := NewUserService(mockUsers, new(MockPostRepository), new(MockImageStore))
		_, _, err := service.FollowUnfollow(context.Background(), caller, targetID)

		assert.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("follow when not yet following", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, targetID).
			Return(&model.User{ID: targetID, Followers: []primitive.ObjectID{}}, nil)
		mockUsers.On("Follow", mock.Anything, callerID, targetID).Return(nil)
		mockUsers.On("FindByID", mock.Anything, callerID).
			Return(&model.User{ID: callerID, Following: []primitive.ObjectID{targetID}}, nil)

		service := NewUserService(mockUsers, new(MockPostRepository), new(MockImageStore))
		updated, following, err := service.FollowUnfollow(context.Background(), caller, targetID)

		assert.NoError(t, err)
		assert.True(t, following)
		assert.Contains(t, updated.Following, targetID)
		mockUsers.AssertExpectations(t)
	})

	t.Run("unfollow when already following", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, targetID).
			Return(&model.User{ID: targetID, Followers: []primitive.ObjectID{callerID}}, nil)
		mockUsers.On("Unfollow", mock.Anything, callerID, targetID).Return(nil)
		mockUsers.On("FindByID", mock.Anything, callerID).
			Return(&model.User{ID: callerID, Following: []primitive.ObjectID{}}, nil)

		service := NewUserService(mockUsers, new(MockPostRepository), new(MockImageStore))
		updated, following, err := service.FollowUnfollow(context.Background(), caller, targetID)

		assert.NoError(t, err)
		assert.False(t, following)
		assert.NotContains(t, updated.Following, targetID)
		mockUsers.AssertExpectations(t)
	})
}
