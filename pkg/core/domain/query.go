package domain

import "time"

// Query represents a boycott claim submitted against a product
type Query struct {
	ID                  string    `json:"_id"`
	ProductName         string    `json:"productName"`
	ProductBrand        string    `json:"productBrand"`
	ProductImageURL     string    `json:"productImageUrl"`
	QueryTitle          string    `json:"queryTitle"`
	BoycottReason       string    `json:"boycottReason"`
	UserEmail           string    `json:"userEmail"`
	UserName            string    `json:"userName"`
	UserImage           string    `json:"userImage"`
	Timestamp           time.Time `json:"timestamp"`
	RecommendationCount int64     `json:"recommendationCount"` // No lower bound
}

// QueryFields are the caller-editable fields of a Query. Update overwrites
// all five of them.
type QueryFields struct {
	ProductName     string `json:"productName"`
	ProductBrand    string `json:"productBrand"`
	ProductImageURL string `json:"productImageUrl"`
	QueryTitle      string `json:"queryTitle"`
	BoycottReason   string `json:"boycottReason"`
}

// Submitter identifies the user who created a Query.
type Submitter struct {
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
	UserImage string `json:"userImage"`
}

// Fields returns the editable part of q.
func (q *Query) Fields() QueryFields {
	return QueryFields{
		ProductName:     q.ProductName,
		ProductBrand:    q.ProductBrand,
		ProductImageURL: q.ProductImageURL,
		QueryTitle:      q.QueryTitle,
		BoycottReason:   q.BoycottReason,
	}
}

// Apply overwrites the editable fields of q. ID, owner, timestamp and count
// are left alone.
func (q *Query) Apply(f QueryFields) {
	q.ProductName = f.ProductName
	q.ProductBrand = f.ProductBrand
	q.ProductImageURL = f.ProductImageURL
	q.QueryTitle = f.QueryTitle
	q.BoycottReason = f.BoycottReason
}
