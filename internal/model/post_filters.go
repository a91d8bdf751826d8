package model

const (
	SortLatest   = "latest"
	SortViews    = "views"
	SortLikes    = "likes"
	SortComments = "comments"
)

// TagAny matches posts regardless of tag.
const TagAny = "all"

type PostFilters struct {
	Tag    string
	Search string
	Sort   string
}
