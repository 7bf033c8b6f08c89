package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"picstream/internal/cache"
	apperrors "picstream/internal/errors"
	"picstream/internal/media"
	"picstream/internal/model"
	"picstream/internal/repository"
	"picstream/internal/storage"
)

const (
	feedCacheKey = "feed:all"
	feedCacheTTL = 30 * time.Second
)

// CommentView is a comment with its author's profile summary attached.
type CommentView struct {
	ID        primitive.ObjectID  `json:"id"`
	Text      string              `json:"text"`
	Author    model.AuthorSummary `json:"author"`
	CreatedAt time.Time           `json:"createdAt"`
}

// PostView is a post with owner and comment-author summaries resolved.
type PostView struct {
	ID        primitive.ObjectID   `json:"id"`
	Caption   string               `json:"caption"`
	Image     model.Image          `json:"image"`
	Author    model.AuthorSummary  `json:"author"`
	Likes     []primitive.ObjectID `json:"likes"`
	Comments  []CommentView        `json:"comments"`
	CreatedAt time.Time            `json:"createdAt"`
}

// PostService covers posts, likes, comments and saved posts.
type PostService interface {
	CreatePost(ctx context.Context, user *model.User, caption string, image []byte) (*PostView, error)
	GetAllPosts(ctx context.Context) ([]PostView, error)
	GetUserPosts(ctx context.Context, userID primitive.ObjectID) ([]PostView, error)
	SaveOrUnsavePost(ctx context.Context, user *model.User, postID primitive.ObjectID) (saved bool, err error)
	DeletePost(ctx context.Context, user *model.User, postID primitive.ObjectID) error
	LikeOrDislikePost(ctx context.Context, user *model.User, postID primitive.ObjectID) (liked bool, err error)
	AddComment(ctx context.Context, user *model.User, postID primitive.ObjectID, text string) (*CommentView, error)
}

type postService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	images   storage.ImageStore
	feed     *cache.Client
}

// NewPostService creates the post service. The cache client may be nil; feed
// reads then always hit the database.
func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, users repository.UserRepository, images storage.ImageStore, feed *cache.Client) PostService {
	return &postService{
		posts:    posts,
		comments: comments,
		users:    users,
		images:   images,
		feed:     feed,
	}
}

// CreatePost validates and re-encodes the image, uploads it, persists the
// post and appends it to the owner's post list. Nothing is uploaded or
// persisted when validation fails.
func (s *postService) CreatePost(ctx context.Context, user *model.User, caption string, image []byte) (*PostView, error) {
	if len(image) == 0 {
		return nil, apperrors.Validation("an image is required")
	}
	caption = strings.TrimSpace(caption)
	if utf8.RuneCountInString(caption) > model.MaxCaptionLength {
		return nil, apperrors.Validation("caption must be under 2200 characters")
	}

	processed, err := media.Process(image)
	if err != nil {
		return nil, apperrors.Validation("the uploaded file is not a supported image")
	}

	uploaded, err := s.images.Upload(ctx, processed, "image/jpeg")
	if err != nil {
		return nil, apperrors.Provider("could not upload the image, please try again later", err)
	}

	post := &model.Post{
		Caption: caption,
		Image:   model.Image{URL: uploaded.URL, Key: uploaded.Key},
		User:    user.ID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		// The uploaded object would otherwise be orphaned; removal is best
		// effort.
		if delErr := s.images.Delete(ctx, uploaded.Key); delErr != nil {
			log.Printf("delete orphaned image %s: %v", uploaded.Key, delErr)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "create post", err)
	}

	if err := s.users.AddPost(ctx, user.ID, post.ID); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "attach post to user", err)
	}

	s.invalidateFeed(ctx)

	return &PostView{
		ID:        post.ID,
		Caption:   post.Caption,
		Image:     post.Image,
		Author:    user.Summary(),
		Likes:     post.Likes,
		Comments:  []CommentView{},
		CreatedAt: post.CreatedAt,
	}, nil
}

// GetAllPosts returns every post, newest first, served from the short-lived
// feed cache when possible.
func (s *postService) GetAllPosts(ctx context.Context) ([]PostView, error) {
	if data := s.feed.Get(ctx, feedCacheKey); data != nil {
		var views []PostView
		if err := json.Unmarshal(data, &views); err == nil {
			return views, nil
		}
	}

	posts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "list posts", err)
	}
	views, err := s.buildViews(ctx, posts)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(views); err == nil {
		s.feed.Set(ctx, feedCacheKey, data, feedCacheTTL)
	}
	return views, nil
}

// GetUserPosts returns one user's posts, newest first.
func (s *postService) GetUserPosts(ctx context.Context, userID primitive.ObjectID) ([]PostView, error) {
	posts, err := s.posts.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "list user posts", err)
	}
	return s.buildViews(ctx, posts)
}

// SaveOrUnsavePost toggles the post in the caller's saved list. One toggle
// per invocation.
func (s *postService) SaveOrUnsavePost(ctx context.Context, user *model.User, postID primitive.ObjectID) (bool, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, apperrors.NotFound("post not found")
		}
		return false, apperrors.Wrap(apperrors.KindInternal, "find post", err)
	}

	if user.HasSaved(postID) {
		if err := s.users.UnsavePost(ctx, user.ID, postID); err != nil {
			return false, apperrors.Wrap(apperrors.KindInternal, "unsave post", err)
		}
		return false, nil
	}
	if err := s.users.SavePost(ctx, user.ID, postID); err != nil {
		return false, apperrors.Wrap(apperrors.KindInternal, "save post", err)
	}
	return true, nil
}

// DeletePost removes an owned post with its cascade: detach from the owner's
// list, detach from all savers, delete comments, delete the stored image,
// delete the post record. The steps are ordered but not transactional; a
// mid-cascade failure is surfaced without rollback.
func (s *postService) DeletePost(ctx context.Context, user *model.User, postID primitive.ObjectID) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("post not found")
		}
		return apperrors.Wrap(apperrors.KindInternal, "find post", err)
	}
	if post.User != user.ID {
		return apperrors.Forbidden("you can only delete your own posts")
	}

	if err := s.users.RemovePost(ctx, user.ID, postID); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "detach post from owner", err)
	}
	if err := s.users.RemovePostFromAllSaved(ctx, postID); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "detach post from saved lists", err)
	}
	if err := s.comments.DeleteByPost(ctx, postID); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "delete comments", err)
	}
	if post.Image.Key != "" {
		if err := s.images.Delete(ctx, post.Image.Key); err != nil {
			return apperrors.Provider("could not delete the stored image", err)
		}
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "delete post", err)
	}

	s.invalidateFeed(ctx)
	return nil
}

// LikeOrDislikePost toggles the caller in the post's likers set.
func (s *postService) LikeOrDislikePost(ctx context.Context, user *model.User, postID primitive.ObjectID) (bool, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, apperrors.NotFound("post not found")
		}
		return false, apperrors.Wrap(apperrors.KindInternal, "find post", err)
	}

	liked := !post.LikedBy(user.ID)
	if liked {
		err = s.posts.AddLike(ctx, postID, user.ID)
	} else {
		err = s.posts.RemoveLike(ctx, postID, user.ID)
	}
	if err != nil {
		return false, apperrors.Wrap(apperrors.KindInternal, "toggle like", err)
	}

	s.invalidateFeed(ctx)
	return liked, nil
}

// AddComment appends a comment to the post and returns it with the author's
// summary attached.
func (s *postService) AddComment(ctx context.Context, user *model.User, postID primitive.ObjectID, text string) (*CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("a comment cannot be empty")
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "find post", err)
	}

	comment := &model.Comment{
		Text: text,
		User: user.ID,
		Post: postID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "create comment", err)
	}
	if err := s.posts.AddComment(ctx, postID, comment.ID); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "attach comment to post", err)
	}

	s.invalidateFeed(ctx)

	return &CommentView{
		ID:        comment.ID,
		Text:      comment.Text,
		Author:    user.Summary(),
		CreatedAt: comment.CreatedAt,
	}, nil
}

// buildViews resolves post owners and comment authors in a batched lookup.
func (s *postService) buildViews(ctx context.Context, posts []model.Post) ([]PostView, error) {
	commentsByPost := make(map[primitive.ObjectID][]model.Comment, len(posts))
	idSet := make(map[primitive.ObjectID]struct{})

	for _, p := range posts {
		idSet[p.User] = struct{}{}
		cs, err := s.comments.FindByPost(ctx, p.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "list comments", err)
		}
		commentsByPost[p.ID] = cs
		for _, c := range cs {
			idSet[c.User] = struct{}{}
		}
	}

	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	authors, err := s.users.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "resolve authors", err)
	}
	byID := make(map[primitive.ObjectID]model.AuthorSummary, len(authors))
	for i := range authors {
		byID[authors[i].ID] = authors[i].Summary()
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		cs := commentsByPost[p.ID]
		commentViews := make([]CommentView, 0, len(cs))
		for _, c := range cs {
			commentViews = append(commentViews, CommentView{
				ID:        c.ID,
				Text:      c.Text,
				Author:    byID[c.User],
				CreatedAt: c.CreatedAt,
			})
		}
		views = append(views, PostView{
			ID:        p.ID,
			Caption:   p.Caption,
			Image:     p.Image,
			Author:    byID[p.User],
			Likes:     p.Likes,
			Comments:  commentViews,
			CreatedAt: p.CreatedAt,
		})
	}
	return views, nil
}

func (s *postService) invalidateFeed(ctx context.Context) {
	s.feed.Delete(ctx, feedCacheKey)
}
