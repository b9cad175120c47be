package domain

// Well-known recommendation document fields
const (
	FieldID               = "_id"
	FieldQueryID          = "queryId"
	FieldRecommenderEmail = "recommenderEmail"
	FieldQueryOwnerEmail  = "userEmail"
)

// Recommendation is a caller-defined document suggesting an alternative for
// a Query. Only the fields above are interpreted by the service.
type Recommendation map[string]any

// ID returns the store-assigned identifier, or "" before insertion.
func (r Recommendation) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// QueryID returns the referenced Query identifier when it is a string.
func (r Recommendation) QueryID() string {
	id, _ := r[FieldQueryID].(string)
	return id
}

// WithoutID returns a shallow copy of r with any _id removed.
func (r Recommendation) WithoutID() Recommendation {
	out := make(Recommendation, len(r))
	for k, v := range r {
		if k == FieldID {
			continue
		}
		out[k] = v
	}
	return out
}
