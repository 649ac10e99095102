package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pagefeed/social-system/internal/core/domain"
	"github.com/pagefeed/social-system/internal/core/ports"
)

const collectionPages = "pages"

// PageRepository implements ports.PageRepository on MongoDB. Membership
// mutations are single-document set operations ($addToSet/$pull), so
// each one is atomic and the follower/request sets cannot hold
// duplicates.
type PageRepository struct {
	col *mongo.Collection
}

func NewPageRepository(db *mongo.Database) *PageRepository {
	return &PageRepository{col: db.Collection(collectionPages)}
}

// Create inserts a new page document.
func (r *PageRepository) Create(ctx context.Context, p *domain.Page) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if p.Followers == nil {
		p.Followers = []string{}
	}
	if p.FollowRequests == nil {
		p.FollowRequests = []string{}
	}

	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *PageRepository) FindByID(ctx context.Context, id string) (*domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Page
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPageNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PageRepository) List(ctx context.Context, filter ports.ListPagesFilter) ([]*domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pages []*domain.Page
	if err := cur.All(ctx, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// Update rewrites the caller-editable attributes; membership sets and
// block state are managed through their dedicated operations.
func (r *PageRepository) Update(ctx context.Context, p *domain.Page) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"tags":        p.Tags,
		"is_private":  p.IsPrivate,
		"updated_at":  p.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPageNotFound
	}
	return nil
}

func (r *PageRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrPageNotFound
	}
	return nil
}

// IsFollower checks follower-set membership without loading the page.
func (r *PageRepository) IsFollower(ctx context.Context, pageID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": pageID, "followers": userID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddFollower adds the user to the follower set and drops any pending
// request in the same update, keeping the two sets disjoint.
func (r *PageRepository) AddFollower(ctx context.Context, pageID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": pageID}, bson.M{
		"$addToSet": bson.M{"followers": userID},
		"$pull":     bson.M{"follow_requests": userID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPageNotFound
	}
	return nil
}

func (r *PageRepository) RemoveFollower(ctx context.Context, pageID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": pageID},
		bson.M{"$pull": bson.M{"followers": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPageNotFound
	}
	return nil
}

// AddFollowRequest queues the user unless they already follow the page.
// Re-queueing an already-pending user is a no-op ($addToSet).
func (r *PageRepository) AddFollowRequest(ctx context.Context, pageID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": pageID, "followers": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"follow_requests": userID}})
	return err
}

func (r *PageRepository) RemoveFollowRequest(ctx context.Context, pageID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": pageID},
		bson.M{"$pull": bson.M{"follow_requests": userID}})
	return err
}

// PromoteRequest moves the user from the request queue to the follower
// set in one document update. The filter requires a pending request, so
// a concurrent duplicate accept matches nothing instead of producing a
// follower duplicate or dual membership.
func (r *PageRepository) PromoteRequest(ctx context.Context, pageID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": pageID, "follow_requests": userID},
		bson.M{
			"$pull":     bson.M{"follow_requests": userID},
			"$addToSet": bson.M{"followers": userID},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNoPendingRequest
	}
	return nil
}

func (r *PageRepository) ListFollowedBy(ctx context.Context, userID string) ([]*domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"followers": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pages []*domain.Page
	if err := cur.All(ctx, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *PageRepository) SetBlock(ctx context.Context, pageID string, permanent bool, unblockDate *time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"permanent_block": permanent}}
	if unblockDate != nil {
		update["$set"].(bson.M)["unblock_date"] = unblockDate.UTC()
	} else {
		update["$unset"] = bson.M{"unblock_date": ""}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": pageID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPageNotFound
	}
	return nil
}

func (r *PageRepository) ClearUnblockDate(ctx context.Context, pageID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": pageID},
		bson.M{"$unset": bson.M{"unblock_date": ""}})
	return err
}

func (r *PageRepository) ListExpiredTempBlocks(ctx context.Context, now time.Time) ([]*domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{
		"permanent_block": false,
		"unblock_date":    bson.M{"$lte": now.UTC()},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pages []*domain.Page
	if err := cur.All(ctx, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// EnsureIndexes creates necessary indexes on the pages collection.
func (r *PageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "uuid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "followers", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "unblock_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
