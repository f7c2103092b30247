package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
	"github.com/kannammal-agro/pricing-system/internal/core/ports"
)

const collectionSubmissions = "price_submissions"

// SubmissionRepository implements ports.SubmissionRepository using MongoDB.
type SubmissionRepository struct {
	col *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{col: db.Collection(collectionSubmissions)}
}

// Create inserts a new submission document. A unique index over the
// duplicate-prevention tuple turns exact duplicates into
// domain.ErrDuplicateSubmission.
func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, s)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateSubmission
		}
		return err
	}
	return nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Submission
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpdateApproval commits a workflow transition with a compare-and-swap on
// approval_version. The filter matches both id and the version observed
// under the submission lock; a miss on an existing document means another
// writer got there first.
func (r *SubmissionRepository) UpdateApproval(ctx context.Context, id string, u ports.ApprovalUpdate) (*domain.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":     string(u.Status),
		"updated_at": time.Now().UTC(),
	}
	unset := bson.M{}
	if u.ApprovedBy != "" {
		set["approved_by"] = u.ApprovedBy
	} else {
		unset["approved_by"] = ""
	}
	if u.ApprovedAt != nil {
		set["approved_at"] = u.ApprovedAt.UTC()
	} else {
		unset["approved_at"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if u.BumpVersion {
		update["$inc"] = bson.M{"approval_version": int64(1)}
	}

	filter := bson.M{"_id": id, "approval_version": u.FromVersion}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Submission
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Disambiguate: missing document vs stale version.
			n, countErr := r.col.CountDocuments(ctx, bson.M{"_id": id})
			if countErr == nil && n > 0 {
				return nil, domain.ErrVersionConflict
			}
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// UpdateFields persists the buyer-editable fields of a submission.
func (r *SubmissionRepository) UpdateFields(ctx context.Context, s *domain.Submission) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"price_per_unit": s.PricePerUnit,
		"quantity":       s.Quantity,
		"unit":           s.Unit,
		"notes":          s.Notes,
		"updated_at":     s.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": s.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

// List returns one page of submissions matching filter plus the total count.
// No ordering is guaranteed beyond the storage default.
func (r *SubmissionRepository) List(ctx context.Context, f ports.ListSubmissionsFilter) ([]*domain.Submission, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := r.buildFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find()
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit))
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []*domain.Submission
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []*domain.Submission{}
	}
	return items, total, nil
}

// CountByStatus aggregates per-status totals in a single $group pass.
func (r *SubmissionRepository) CountByStatus(ctx context.Context, f ports.StatsFilter) (ports.StatusCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if f.FirmCode != "" {
		match["firm_code"] = f.FirmCode
	}
	dateCond := bson.M{}
	if !f.DateFrom.IsZero() {
		dateCond["$gte"] = f.DateFrom.UTC()
	}
	if !f.DateTo.IsZero() {
		dateCond["$lte"] = f.DateTo.UTC()
	}
	if len(dateCond) > 0 {
		match["date"] = dateCond
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return ports.StatusCounts{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return ports.StatusCounts{}, err
	}

	var counts ports.StatusCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch domain.SubmissionStatus(row.Status) {
		case domain.StatusPending:
			counts.Pending = row.Count
		case domain.StatusApproved:
			counts.Approved = row.Count
		case domain.StatusCancelled:
			counts.Cancelled = row.Count
		}
	}
	return counts, nil
}

func (r *SubmissionRepository) buildFilter(f ports.ListSubmissionsFilter) bson.M {
	filter := bson.M{}
	if f.FirmCode != "" {
		filter["firm_code"] = f.FirmCode
	}
	if f.BuyerID != "" {
		filter["buyer_id"] = f.BuyerID
	}
	if f.CategoryCode != "" {
		filter["category_code"] = f.CategoryCode
	} else if len(f.CategoriesIn) > 0 {
		filter["category_code"] = bson.M{"$in": f.CategoriesIn}
	}
	if f.ProductID != "" {
		filter["product.id"] = f.ProductID
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			statuses = append(statuses, string(st))
		}
		filter["status"] = bson.M{"$in": statuses}
	}
	dateCond := bson.M{}
	if !f.DateFrom.IsZero() {
		dateCond["$gte"] = f.DateFrom.UTC()
	}
	if !f.DateTo.IsZero() {
		dateCond["$lte"] = f.DateTo.UTC()
	}
	if len(dateCond) > 0 {
		filter["date"] = dateCond
	}
	return filter
}

// EnsureIndexes creates the unique duplicate-prevention index and the
// listing indexes on the submissions collection.
func (r *SubmissionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := true
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "date", Value: 1},
				{Key: "firm_code", Value: 1},
				{Key: "category_code", Value: 1},
				{Key: "product.id", Value: 1},
				{Key: "farmer.id", Value: 1},
				{Key: "buyer_id", Value: 1},
				{Key: "price_per_unit", Value: 1},
				{Key: "quantity", Value: 1},
			},
			Options: &options.IndexOptions{Unique: &unique},
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "firm_code", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "buyer_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
