package model

type PostDetailed struct {
	Post        *PostSummary `json:"post"`
	Comments    []*Comment   `json:"comments"`
	LikeCount   int64        `json:"like_count"`
	ViewerLiked bool         `json:"viewer_liked"`
}
