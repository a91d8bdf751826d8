package model

// LikeStatus is the result of a like toggle: whether the viewer now likes the
// post and the post's total like count after the mutation.
type LikeStatus struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
