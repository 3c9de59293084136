package profiles

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/profilku/profilku/internal/models"
)

// MongoSource reads profiles from a document collection keyed by `_id`.
type MongoSource struct {
	col *mongo.Collection
}

func NewMongoSource(col *mongo.Collection) *MongoSource {
	return &MongoSource{col: col}
}

type profileDoc struct {
	ID            string        `bson:"_id"`
	Email         string        `bson:"email"`
	Username      string        `bson:"username"`
	FullName      *string       `bson:"full_name"`
	AvatarURL     *string       `bson:"avatar_url"`
	PaymentLinked bool          `bson:"payment_linked"`
	CreatedAt     bson.RawValue `bson:"created_at"`
}

func (d *profileDoc) profile() *models.Profile {
	return &models.Profile{
		ID:            d.ID,
		Email:         d.Email,
		Username:      d.Username,
		FullName:      d.FullName,
		AvatarURL:     d.AvatarURL,
		PaymentLinked: d.PaymentLinked,
		CreatedAt:     createdAtText(d.CreatedAt),
	}
}

// createdAtText accepts a BSON date or a string; anything else (missing, null)
// is left empty and shown as "-".
func createdAtText(v bson.RawValue) string {
	switch v.Type {
	case bson.TypeDateTime:
		return v.Time().UTC().Format(time.RFC3339Nano)
	case bson.TypeString:
		return v.StringValue()
	}
	return ""
}

func (s *MongoSource) ByID(ctx context.Context, id, _ string) (*models.Profile, error) {
	cur, err := s.col.Find(ctx, bson.M{"_id": id}, options.Find().SetLimit(2))
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	defer cur.Close(ctx)

	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	switch len(docs) {
	case 0:
		return nil, ErrNoRows
	case 1:
		return docs[0].profile(), nil
	default:
		return nil, ErrMultipleRows
	}
}
