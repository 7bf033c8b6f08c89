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

// CommentRepository defines persistence operations on comments. Comments are
// only deleted as part of the post delete cascade.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByPost(ctx context.Context, postID primitive.ObjectID) ([]model.Comment, error)
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) error
}

type commentRepository struct {
	col *mongo.Collection
}

// NewCommentRepository builds a Mongo-backed comment repository.
func NewCommentRepository(database *mongo.Database) CommentRepository {
	return &commentRepository{col: database.Collection(db.CommentsCollection)}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	comment.CreatedAt = time.Now()
	res, err := r.col.InsertOne(ctx, comment)
	if err != nil {
		return err
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByPost returns the post's comments in creation order. The sort is
// explicit; natural collection order carries no guarantee.
func (r *commentRepository) FindByPost(ctx context.Context, postID primitive.ObjectID) ([]model.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"post": postID}, opts)
	if err != nil {
		return nil, err
	}
	var comments []model.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"post": postID})
	return err
}
