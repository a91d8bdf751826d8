package memory

import (
	"sort"
	"strings"
	"sync"

	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/model"
)

type likeKey struct {
	postID int64
	userID int64
}

// Store is the in-memory counterpart of the whole database. The board's
// listing rows join users, posts, tags, comments and likes, so the test
// double keeps one store per database the same way the postgres repositories
// share one pool, with per-entity repositories as views over it.
type Store struct {
	log *logger.Logger
	mu  sync.RWMutex

	users    map[int64]*model.User
	posts    map[int64]*model.Post
	tags     map[int64]*model.Tag
	postTags map[int64]map[int64]struct{}
	comments map[int64]*model.Comment
	likes    map[likeKey]struct{}

	nextUserID    int64
	nextPostID    int64
	nextTagID     int64
	nextCommentID int64
}

func NewStore(log *logger.Logger) *Store {
	return &Store{
		log:           log,
		users:         make(map[int64]*model.User),
		posts:         make(map[int64]*model.Post),
		tags:          make(map[int64]*model.Tag),
		postTags:      make(map[int64]map[int64]struct{}),
		comments:      make(map[int64]*model.Comment),
		likes:         make(map[likeKey]struct{}),
		nextUserID:    1,
		nextPostID:    1,
		nextTagID:     1,
		nextCommentID: 1,
	}
}

// SeedTags installs the curated tag set. Duplicate names are ignored.
func (s *Store) SeedTags(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		if s.findTagLocked(name) != nil {
			continue
		}
		s.tags[s.nextTagID] = &model.Tag{ID: s.nextTagID, Name: name}
		s.nextTagID++
	}
}

func (s *Store) findTagLocked(name string) *model.Tag {
	for _, tag := range s.tags {
		if tag.Name == name {
			return tag
		}
	}
	return nil
}

func (s *Store) tagNamesLocked(postID int64) []string {
	ids := make([]int64, 0, len(s.postTags[postID]))
	for tagID := range s.postTags[postID] {
		ids = append(ids, tagID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	names := []string{}
	for _, tagID := range ids {
		if tag, ok := s.tags[tagID]; ok {
			names = append(names, tag.Name)
		}
	}
	return names
}

func (s *Store) commentCountLocked(postID int64) int64 {
	var count int64
	for _, comment := range s.comments {
		if comment.PostID == postID {
			count++
		}
	}
	return count
}

func (s *Store) likeCountLocked(postID int64) int64 {
	var count int64
	for key := range s.likes {
		if key.postID == postID {
			count++
		}
	}
	return count
}

func (s *Store) summaryLocked(post *model.Post) *model.PostSummary {
	nickname := ""
	if author, ok := s.users[post.AuthorID]; ok {
		nickname = author.Nickname
	}
	return &model.PostSummary{
		ID:               post.ID,
		AuthorID:         post.AuthorID,
		AuthorNickname:   nickname,
		Title:            post.Title,
		Content:          post.Content,
		Filename:         post.Filename,
		OriginalFilename: post.OriginalFilename,
		ImageFilename:    post.ImageFilename,
		Views:            post.Views,
		Tags:             s.tagNamesLocked(post.ID),
		CommentCount:     s.commentCountLocked(post.ID),
		LikeCount:        s.likeCountLocked(post.ID),
		CreatedAt:        post.CreatedAt,
	}
}

func (s *Store) matchesLocked(post *model.Post, filters model.PostFilters) bool {
	if filters.Tag != "" && filters.Tag != model.TagAny {
		tag := s.findTagLocked(filters.Tag)
		if tag == nil {
			return false
		}
		if _, linked := s.postTags[post.ID][tag.ID]; !linked {
			return false
		}
	}
	if filters.Search != "" {
		needle := strings.ToLower(filters.Search)
		nickname := ""
		if author, ok := s.users[post.AuthorID]; ok {
			nickname = author.Nickname
		}
		content := ""
		if post.Content != nil {
			content = *post.Content
		}
		if !strings.Contains(strings.ToLower(post.Title), needle) &&
			!strings.Contains(strings.ToLower(content), needle) &&
			!strings.Contains(strings.ToLower(nickname), needle) {
			return false
		}
	}
	return true
}

func sortSummaries(summaries []*model.PostSummary, sortBy string) {
	less := func(newer, older *model.PostSummary) bool {
		return newer.CreatedAt.Time.After(older.CreatedAt.Time)
	}
	switch sortBy {
	case model.SortViews:
		less = func(a, b *model.PostSummary) bool { return a.Views > b.Views }
	case model.SortLikes:
		less = func(a, b *model.PostSummary) bool { return a.LikeCount > b.LikeCount }
	case model.SortComments:
		less = func(a, b *model.PostSummary) bool { return a.CommentCount > b.CommentCount }
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if less(summaries[i], summaries[j]) {
			return true
		}
		if less(summaries[j], summaries[i]) {
			return false
		}
		return summaries[i].ID < summaries[j].ID
	})
}
