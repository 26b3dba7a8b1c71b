package helpers

import (
	"bloggy-api/apperror"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectID converts a string to a MongoDB ObjectID without the need of error checking
// (placed here so the database package is not required by the controllers package)
func ObjectID(ID string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// ParseID converts a path parameter; a malformed id can never match a document,
// so it is reported as not found for the given entity
func ParseID(entity string, ID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(ID)
	if err != nil {
		return primitive.NilObjectID, apperror.NotFound(entity, ID)
	}
	return id, nil
}

// ParseIDs converts a list of hex ids, rejecting the whole list on the first bad one
func ParseIDs(IDs []string) ([]primitive.ObjectID, error) {
	res := make([]primitive.ObjectID, 0, len(IDs))
	for _, s := range IDs {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, apperror.Validation("invalid id: " + s)
		}
		res = append(res, id)
	}
	return res, nil
}

// ContainsID reports whether id is part of ids
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
