package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"picstream/internal/db"
	"picstream/internal/model"
)

// PostRepository defines persistence operations on posts. Like-set mutations
// are atomic at the document level via $addToSet / $pull.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	// FindAll returns every post, newest first.
	FindAll(ctx context.Context) ([]model.Post, error)
	// FindByUser returns a user's posts, newest first.
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Post, error)
	FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Post, error)

	AddLike(ctx context.Context, postID, userID primitive.ObjectID) error
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error
	AddComment(ctx context.Context, postID, commentID primitive.ObjectID) error
}

type postRepository struct {
	col *mongo.Collection
}

// NewPostRepository builds a Mongo-backed post repository.
func NewPostRepository(database *mongo.Database) PostRepository {
	return &postRepository{col: database.Collection(db.PostsCollection)}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	res, err := r.col.InsertOne(ctx, post)
	if err != nil {
		return err
	}
	post.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *postRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindAll(ctx context.Context) ([]model.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *postRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Post, error) {
	return r.find(ctx, bson.M{"user": userID})
}

func (r *postRepository) FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *postRepository) find(ctx context.Context, filter bson.M) ([]model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var posts []model.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.update(ctx, postID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.update(ctx, postID, bson.M{"$pull": bson.M{"likes": userID}})
}

// AddComment appends the comment id, preserving creation order.
func (r *postRepository) AddComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	return r.update(ctx, postID, bson.M{
		"$push": bson.M{"comments": commentID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *postRepository) update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
