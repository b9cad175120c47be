package domain

import "go.mongodb.org/mongo-driver/v2/bson"

// NewID allocates an identifier in the document store's ObjectID format.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// IsValidID reports whether id is a 24 character hex ObjectID. Raw 12-byte
// strings are rejected.
func IsValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
