package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh ObjectID in hex form. Both storage backends key
// documents this way.
func NewID() string { return primitive.NewObjectID().Hex() }

func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
