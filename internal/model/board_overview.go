package model

type BoardStats struct {
	TotalPosts    int64 `json:"total_posts"`
	TotalComments int64 `json:"total_comments"`
	TotalUsers    int64 `json:"total_users"`
	TodayPosts    int64 `json:"today_posts"`
}

// BoardOverview is the home-page payload.
type BoardOverview struct {
	RecentPosts    []*PostSummary   `json:"recent_posts"`
	TopPosts       []*PostSummary   `json:"top_posts"`
	RecentComments []*RecentComment `json:"recent_comments"`
	Stats          *BoardStats      `json:"stats"`
}
