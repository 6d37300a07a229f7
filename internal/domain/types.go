package domain

// Vector is a dense embedding of a single message. All vectors handled by one
// deployment share the same dimension; the dimension is fixed at startup.
type Vector []float32

// SimilarityCandidate pairs a user with a similarity score from an ANN query.
// Scores are comparable within a single query only, and higher always means
// more similar regardless of the configured metric.
type SimilarityCandidate struct {
	UserID string
	Score  float32
}

// CampaignCandidate pairs a campaign with its engagement counter.
type CampaignCandidate struct {
	CampaignID string `json:"campaign_id"`
	Score      int64  `json:"score"`
}

// Recommendation is the fully composed response for one lookup. It is the
// unit stored in and served from the cache.
type Recommendation struct {
	UserID               string              `json:"user_id"`
	RecommendedCampaigns []CampaignCandidate `json:"recommended_campaigns"`
	SimilarUsers         []string            `json:"similar_users"`
}
