package memory

import (
	"context"
	"sort"

	"schoolpass-board-service/internal/model"
)

type TagRepository struct {
	store *Store
}

func NewTagRepository(store *Store) *TagRepository {
	return &TagRepository{store: store}
}

func (t *TagRepository) FindByNames(ctx context.Context, names []string) ([]*model.Tag, error) {
	s := t.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := []*model.Tag{}
	for _, name := range names {
		if tag := s.findTagLocked(name); tag != nil {
			tagCopy := *tag
			tags = append(tags, &tagCopy)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

func (t *TagRepository) FindByPost(ctx context.Context, postID int64) ([]*model.Tag, error) {
	s := t.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := []*model.Tag{}
	for tagID := range s.postTags[postID] {
		if tag, ok := s.tags[tagID]; ok {
			tagCopy := *tag
			tags = append(tags, &tagCopy)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

func (t *TagRepository) All(ctx context.Context) ([]*model.Tag, error) {
	s := t.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := []*model.Tag{}
	for _, tag := range s.tags {
		tagCopy := *tag
		tags = append(tags, &tagCopy)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

func (t *TagRepository) LinkPost(ctx context.Context, postID int64, tagNames []string) error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range tagNames {
		tag := s.findTagLocked(name)
		if tag == nil {
			continue
		}
		if s.postTags[postID] == nil {
			s.postTags[postID] = make(map[int64]struct{})
		}
		s.postTags[postID][tag.ID] = struct{}{}
	}
	return nil
}

func (t *TagRepository) ClearPost(ctx context.Context, postID int64) error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.postTags, postID)
	return nil
}
