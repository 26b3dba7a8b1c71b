package database

import (
	"context"
	"regexp"

	"bloggy-api/helpers"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// since there are no joins in MongoDB, searches on referenced names (eg. author name)
// are resolved to ids first and matched with $in afterwards

// max ids returned per search term
const lookupLimit = 200

// Lookup resolves search terms against other collections
type Lookup struct {
	DB *mongo.Database
}

// LookupIDs returns the ids of documents whose field contains term (case-insensitive)
func (l Lookup) LookupIDs(ctx context.Context, collection string, field string, term string) ([]primitive.ObjectID, error) {
	filter := bson.D{{Key: field, Value: primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}}}
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}).SetLimit(lookupLimit)

	ctx, cancel := Timeout(ctx)
	defer cancel() // nach 10 Sekunden abbrechen

	cursor, err := l.DB.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
