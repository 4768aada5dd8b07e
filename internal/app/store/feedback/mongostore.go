package feedbackstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/ratingdesk/internal/app/system/paging"
	"github.com/dalemusser/ratingdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding feedback.
const CollectionName = "feedbacks"

// feedbackDoc is the stored shape. IDs are ObjectIDs in MongoDB and hex
// strings everywhere else.
type feedbackDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Rating    int                `bson:"rating"`
	Text      string             `bson:"feedback"`
	Name      string             `bson:"name,omitempty"`
	Category  models.Category    `bson:"type"`
	CreatedAt time.Time          `bson:"created_at"`
	SourceIP  string             `bson:"ip_address,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty"`
	InvitedBy []string           `bson:"invited_by"`
}

func toDoc(f models.Feedback) feedbackDoc {
	return feedbackDoc{
		Email:     f.Email,
		Rating:    f.Rating,
		Text:      f.Text,
		Name:      f.Name,
		Category:  f.Category,
		CreatedAt: f.CreatedAt,
		SourceIP:  f.SourceIP,
		UserAgent: f.UserAgent,
		InvitedBy: f.InvitedBy,
	}
}

func (d feedbackDoc) model() models.Feedback {
	invited := d.InvitedBy
	if invited == nil {
		invited = []string{}
	}
	return models.Feedback{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Rating:    d.Rating,
		Text:      d.Text,
		Name:      d.Name,
		Category:  d.Category,
		CreatedAt: d.CreatedAt,
		SourceIP:  d.SourceIP,
		UserAgent: d.UserAgent,
		InvitedBy: invited,
	}
}

// MongoStore keeps feedback in the feedbacks collection.
type MongoStore struct {
	c           *mongo.Collection
	pageSize    int
	maxPageSize int
}

// NewMongoStore returns a MongoStore on db.
func NewMongoStore(db *mongo.Database, pageSize, maxPageSize int) *MongoStore {
	return &MongoStore{
		c:           db.Collection(CollectionName),
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
	}
}

func (s *MongoStore) Mode() string { return "mongo" }

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (s *MongoStore) Create(ctx context.Context, f models.Feedback) (models.Feedback, error) {
	doc := toDoc(f)
	doc.ID = primitive.NewObjectID()
	// Mongo stores milliseconds; truncate so the returned record matches.
	doc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if doc.InvitedBy == nil {
		doc.InvitedBy = []string{}
	}

	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return models.Feedback{}, fmt.Errorf("insert feedback: %w", err)
	}
	return doc.model(), nil
}

func (s *MongoStore) List(ctx context.Context, q ListQuery) (Page, error) {
	p := paging.Params{Page: q.Page, PageSize: q.PageSize}.Normalize(s.pageSize, s.maxPageSize)

	filter := bson.M{}
	if q.Category != "" {
		filter["type"] = q.Category
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return Page{}, fmt.Errorf("count feedback: %w", err)
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.PageSize))
	items, err := s.find(ctx, filter, opts)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Items:      items,
		Total:      int(total),
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: paging.TotalPages(int(total), p.PageSize),
	}, nil
}

func (s *MongoStore) ListByEmail(ctx context.Context, email string) ([]models.Feedback, error) {
	return s.find(ctx, bson.M{"email": email}, options.Find().SetSort(newestFirst))
}

func (s *MongoStore) Export(ctx context.Context, category models.Category, limit int) ([]models.Feedback, error) {
	filter := bson.M{}
	if category != "" {
		filter["type"] = category
	}
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return s.find(ctx, filter, opts)
}

func (s *MongoStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Feedback, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	defer cur.Close(ctx)

	var docs []feedbackDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}

	out := make([]models.Feedback, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (s *MongoStore) Stats(ctx context.Context) (Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$type"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate feedback stats: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Category models.Category `bson:"_id"`
		Count    int             `bson:"count"`
		Avg      float64         `bson:"avg"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return Stats{}, fmt.Errorf("decode feedback stats: %w", err)
	}

	out := Stats{ByCategory: make(map[models.Category]CategoryStats, len(rows))}
	for _, r := range rows {
		out.Total += r.Count
		out.ByCategory[r.Category] = CategoryStats{Count: r.Count, AvgRating: round1(r.Avg)}
	}
	return out, nil
}

// Delete treats a malformed id as not found.
func (s *MongoStore) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete feedback: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStore) DeleteMany(ctx context.Context, ids []string) (int, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return 0, nil
	}

	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, fmt.Errorf("delete feedback batch: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (s *MongoStore) ToggleInvitation(ctx context.Context, id, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	var doc struct {
		InvitedBy []string `bson:"invited_by"`
	}
	err = s.c.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"invited_by": 1})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load feedback: %w", err)
	}

	op := "$addToSet"
	for _, u := range doc.InvitedBy {
		if u == userID {
			op = "$pull"
			break
		}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{op: bson.M{"invited_by": userID}})
	if err != nil {
		return false, fmt.Errorf("toggle invitation: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) InvitationStats(ctx context.Context) (InvitationStats, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return InvitationStats{}, fmt.Errorf("count feedback: %w", err)
	}
	invited, err := s.c.CountDocuments(ctx, bson.M{"invited_by.0": bson.M{"$exists": true}})
	if err != nil {
		return InvitationStats{}, fmt.Errorf("count invited feedback: %w", err)
	}
	return newInvitationStats(int(invited), int(total)), nil
}

func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.c.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear feedback: %w", err)
	}
	return nil
}
