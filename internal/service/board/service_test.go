package board_service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolpass-board-service/internal/custom_errors"
	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/metrics"
	"schoolpass-board-service/internal/model"
	"schoolpass-board-service/internal/repository/memory"
)

// fakeStorage records removals so tests can assert file cleanup.
type fakeStorage struct {
	mu      sync.Mutex
	counter int
	removed []string
}

func (f *fakeStorage) Save(src io.Reader, originalName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	return fmt.Sprintf("stored-%d", f.counter), nil
}

func (f *fakeStorage) Remove(storedName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, storedName)
	return nil
}

func (f *fakeStorage) Path(storedName string) string { return storedName }

func (f *fakeStorage) removedFiles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.removed...)
}

type fixture struct {
	svc      *BoardService
	store    *memory.Store
	files    *fakeStorage
	comments *memory.CommentRepository
	likes    *memory.LikeRepository
	tags     *memory.TagRepository
	posts    *memory.PostRepository
	users    *memory.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New("test")
	store := memory.NewStore(log)
	store.SeedTags("free", "study", "question")

	files := &fakeStorage{}
	posts := memory.NewPostRepository(store)
	tags := memory.NewTagRepository(store)
	comments := memory.NewCommentRepository(store)
	likes := memory.NewLikeRepository(store)

	svc := NewBoardService(
		posts,
		tags,
		comments,
		likes,
		memory.NewUnitOfWork(store),
		files,
		log,
		metrics.NewNoopMetricsProvider(),
	)

	return &fixture{
		svc:      svc,
		store:    store,
		files:    files,
		comments: comments,
		likes:    likes,
		tags:     tags,
		posts:    posts,
		users:    memory.NewUserRepository(store),
	}
}

func (f *fixture) addUser(t *testing.T, username, nickname string) *model.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &model.User{
		Username: username,
		Password: "hash",
		Nickname: nickname,
		Email:    username + "@school.test",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) addPost(t *testing.T, authorID int64, title string, tags ...string) *model.PostSummary {
	t.Helper()
	post, err := f.svc.CreatePost(context.Background(), &model.CreatePostDTO{
		AuthorID: authorID,
		Title:    title,
		Tags:     tags,
	})
	require.NoError(t, err)
	// Creation timestamps must differ for deterministic latest-first ordering.
	time.Sleep(time.Millisecond)
	return post
}

func strPtr(s string) *string { return &s }

func TestBoardService_CreatePost(t *testing.T) {
	f := newFixture(t)
	author := f.addUser(t, "writer", "Writer")

	post, err := f.svc.CreatePost(context.Background(), &model.CreatePostDTO{
		AuthorID: author.ID,
		Title:    "First post",
		Content:  strPtr("hello"),
		Tags:     []string{"free", "study"},
	})
	require.NoError(t, err)

	assert.Equal(t, "First post", post.Title)
	assert.Equal(t, "Writer", post.AuthorNickname)
	assert.Equal(t, []string{"free", "study"}, post.Tags)
	assert.Equal(t, int64(0), post.CommentCount)
	assert.Equal(t, int64(0), post.LikeCount)
	assert.Equal(t, int64(0), post.Views)
}

func TestBoardService_CreatePost_SkipsUnknownTags(t *testing.T) {
	f := newFixture(t)
	author := f.addUser(t, "writer", "Writer")

	post, err := f.svc.CreatePost(context.Background(), &model.CreatePostDTO{
		AuthorID: author.ID,
		Title:    "Tagged",
		Tags:     []string{"free", "nonexistent"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"free"}, post.Tags)
}

func TestBoardService_ListPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")

	first := f.addPost(t, alice.ID, "apple pie recipe", "free")
	second := f.addPost(t, bob.ID, "math homework help", "study", "question")
	third := f.addPost(t, alice.ID, "apple club meetup", "free", "study")

	// second gets two likes, third one like and two comments, first ten views.
	require.NoError(t, f.likes.Add(ctx, second.ID, alice.ID))
	require.NoError(t, f.likes.Add(ctx, second.ID, bob.ID))
	require.NoError(t, f.likes.Add(ctx, third.ID, bob.ID))
	for i := 0; i < 2; i++ {
		_, err := f.comments.Create(ctx, &model.Comment{PostID: third.ID, AuthorID: bob.ID, Content: "nice"})
		require.NoError(t, err)
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, f.posts.IncrementViews(ctx, first.ID))
	}

	tests := []struct {
		name    string
		filters model.PostFilters
		wantIDs []int64
	}{
		{
			name:    "latest first by default",
			filters: model.PostFilters{},
			wantIDs: []int64{third.ID, second.ID, first.ID},
		},
		{
			name:    "sort by views",
			filters: model.PostFilters{Sort: model.SortViews},
			wantIDs: []int64{first.ID, second.ID, third.ID},
		},
		{
			name:    "sort by likes",
			filters: model.PostFilters{Sort: model.SortLikes},
			wantIDs: []int64{second.ID, third.ID, first.ID},
		},
		{
			name:    "sort by comments",
			filters: model.PostFilters{Sort: model.SortComments},
			wantIDs: []int64{third.ID, first.ID, second.ID},
		},
		{
			name:    "filter by tag",
			filters: model.PostFilters{Tag: "study"},
			wantIDs: []int64{third.ID, second.ID},
		},
		{
			name:    "tag all matches everything",
			filters: model.PostFilters{Tag: model.TagAny},
			wantIDs: []int64{third.ID, second.ID, first.ID},
		},
		{
			name:    "search by title",
			filters: model.PostFilters{Search: "apple"},
			wantIDs: []int64{third.ID, first.ID},
		},
		{
			name:    "search by author nickname",
			filters: model.PostFilters{Search: "bob"},
			wantIDs: []int64{second.ID},
		},
		{
			name:    "tag and search combine",
			filters: model.PostFilters{Tag: "free", Search: "club"},
			wantIDs: []int64{third.ID},
		},
		{
			name:    "unknown tag matches nothing",
			filters: model.PostFilters{Tag: "missing"},
			wantIDs: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := f.svc.ListPosts(ctx, tt.filters)
			require.NoError(t, err)

			gotIDs := make([]int64, 0, len(posts))
			for _, post := range posts {
				gotIDs = append(gotIDs, post.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestBoardService_ListPosts_DerivedCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")

	post := f.addPost(t, alice.ID, "counted", "free")
	require.NoError(t, f.likes.Add(ctx, post.ID, bob.ID))
	_, err := f.comments.Create(ctx, &model.Comment{PostID: post.ID, AuthorID: bob.ID, Content: "first"})
	require.NoError(t, err)

	posts, err := f.svc.ListPosts(ctx, model.PostFilters{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(1), posts[0].CommentCount)
	assert.Equal(t, int64(1), posts[0].LikeCount)
	assert.Equal(t, "Alice", posts[0].AuthorNickname)
}

func TestBoardService_GetPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")

	post := f.addPost(t, alice.ID, "detailed", "free")
	_, err := f.comments.Create(ctx, &model.Comment{PostID: post.ID, AuthorID: bob.ID, Content: "one"})
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, &model.Comment{PostID: post.ID, AuthorID: alice.ID, Content: "two"})
	require.NoError(t, err)
	require.NoError(t, f.likes.Add(ctx, post.ID, bob.ID))

	detailed, err := f.svc.GetPost(ctx, post.ID, &bob.ID)
	require.NoError(t, err)

	assert.Equal(t, post.ID, detailed.Post.ID)
	assert.Equal(t, int64(1), detailed.LikeCount)
	assert.True(t, detailed.ViewerLiked)
	require.Len(t, detailed.Comments, 2)
	assert.Equal(t, "one", detailed.Comments[0].Content)
	assert.Equal(t, "two", detailed.Comments[1].Content)
	assert.Equal(t, "Bob", detailed.Comments[0].AuthorNickname)

	// The counter bump runs detached from the request.
	assert.Eventually(t, func() bool {
		current, err := f.posts.GetByID(ctx, post.ID)
		return err == nil && current.Views == 1
	}, time.Second, 10*time.Millisecond)
}

func TestBoardService_GetPost_AnonymousViewer(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "Alice")
	post := f.addPost(t, alice.ID, "public")

	detailed, err := f.svc.GetPost(context.Background(), post.ID, nil)
	require.NoError(t, err)
	assert.False(t, detailed.ViewerLiked)
}

func TestBoardService_GetPost_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetPost(context.Background(), 42, nil)
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
}

func TestBoardService_UpdatePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "Alice")

	tests := []struct {
		name        string
		create      model.CreatePostDTO
		update      model.UpdatePostDTO
		wantFile    *string
		wantImage   *string
		wantRemoved []string
	}{
		{
			name: "file kept when untouched",
			create: model.CreatePostDTO{
				Title:            "keep",
				Filename:         strPtr("old-file"),
				OriginalFilename: strPtr("notes.pdf"),
			},
			update:   model.UpdatePostDTO{Title: strPtr("kept")},
			wantFile: strPtr("old-file"),
		},
		{
			name: "delete flag clears the slot",
			create: model.CreatePostDTO{
				Title:            "clear",
				Filename:         strPtr("old-file"),
				OriginalFilename: strPtr("notes.pdf"),
			},
			update:      model.UpdatePostDTO{DeleteFile: true},
			wantFile:    nil,
			wantRemoved: []string{"old-file"},
		},
		{
			name: "new upload overrides delete flag",
			create: model.CreatePostDTO{
				Title:            "override",
				Filename:         strPtr("old-file"),
				OriginalFilename: strPtr("notes.pdf"),
			},
			update: model.UpdatePostDTO{
				DeleteFile:          true,
				NewFilename:         strPtr("new-file"),
				NewOriginalFilename: strPtr("notes-v2.pdf"),
			},
			wantFile:    strPtr("new-file"),
			wantRemoved: []string{"old-file"},
		},
		{
			name: "image replaced independently",
			create: model.CreatePostDTO{
				Title:         "image",
				ImageFilename: strPtr("old-image"),
			},
			update: model.UpdatePostDTO{
				NewImageFilename: strPtr("new-image"),
			},
			wantImage:   strPtr("new-image"),
			wantRemoved: []string{"old-image"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := tt.create
			dto.AuthorID = alice.ID
			created, err := f.svc.CreatePost(ctx, &dto)
			require.NoError(t, err)

			before := f.files.removedFiles()

			_, err = f.svc.UpdatePost(ctx, created.ID, alice.ID, &tt.update)
			require.NoError(t, err)

			post, err := f.posts.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, post.Filename)
			if tt.wantImage != nil {
				assert.Equal(t, tt.wantImage, post.ImageFilename)
			}

			removed := f.files.removedFiles()[len(before):]
			assert.ElementsMatch(t, tt.wantRemoved, removed)
		})
	}
}

func TestBoardService_UpdatePost_ReplacesTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "Alice")
	post := f.addPost(t, alice.ID, "tagged", "free", "study")

	updated, err := f.svc.UpdatePost(ctx, post.ID, alice.ID, &model.UpdatePostDTO{
		Tags: []string{"question"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"question"}, updated.Tags)

	updated, err = f.svc.UpdatePost(ctx, post.ID, alice.ID, &model.UpdatePostDTO{})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
}

func TestBoardService_UpdatePost_Forbidden(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")
	post := f.addPost(t, alice.ID, "mine")

	_, err := f.svc.UpdatePost(context.Background(), post.ID, bob.ID, &model.UpdatePostDTO{
		Title: strPtr("stolen"),
	})
	assert.ErrorIs(t, err, custom_errors.ErrForbidden)

	unchanged, getErr := f.posts.GetByID(context.Background(), post.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "mine", unchanged.Title)
}

func TestBoardService_UpdatePost_NotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "Alice")

	_, err := f.svc.UpdatePost(context.Background(), 99, alice.ID, &model.UpdatePostDTO{})
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
}

func TestBoardService_DeletePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")

	created, err := f.svc.CreatePost(ctx, &model.CreatePostDTO{
		AuthorID:      alice.ID,
		Title:         "doomed",
		Filename:      strPtr("doomed-file"),
		ImageFilename: strPtr("doomed-image"),
		Tags:          []string{"free"},
	})
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, &model.Comment{PostID: created.ID, AuthorID: bob.ID, Content: "bye"})
	require.NoError(t, err)
	require.NoError(t, f.likes.Add(ctx, created.ID, bob.ID))

	require.NoError(t, f.svc.DeletePost(ctx, created.ID, alice.ID))

	_, err = f.posts.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)

	comments, err := f.comments.ListByPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	count, err := f.likes.CountByPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	linked, err := f.tags.FindByPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)

	assert.ElementsMatch(t, []string{"doomed-file", "doomed-image"}, f.files.removedFiles())
}

func TestBoardService_DeletePost_Forbidden(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")
	post := f.addPost(t, alice.ID, "mine")

	err := f.svc.DeletePost(context.Background(), post.ID, bob.ID)
	assert.ErrorIs(t, err, custom_errors.ErrForbidden)

	_, getErr := f.posts.GetByID(context.Background(), post.ID)
	assert.NoError(t, getErr)
}

func TestBoardService_AddComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")
	post := f.addPost(t, alice.ID, "open")

	comment, err := f.svc.AddComment(ctx, post.ID, bob.ID, "hello there")
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "Bob", comment.AuthorNickname)

	_, err = f.svc.AddComment(ctx, 99, bob.ID, "into the void")
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
}

func TestBoardService_DeleteComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")
	post := f.addPost(t, alice.ID, "open")

	comment, err := f.svc.AddComment(ctx, post.ID, bob.ID, "mine")
	require.NoError(t, err)

	err = f.svc.DeleteComment(ctx, comment.ID, alice.ID)
	assert.ErrorIs(t, err, custom_errors.ErrForbidden)

	require.NoError(t, f.svc.DeleteComment(ctx, comment.ID, bob.ID))

	err = f.svc.DeleteComment(ctx, comment.ID, bob.ID)
	assert.ErrorIs(t, err, custom_errors.ErrCommentNotFound)
}

func TestBoardService_ToggleLike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")
	post := f.addPost(t, alice.ID, "likeable")

	status, err := f.svc.ToggleLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, status.Liked)
	assert.Equal(t, int64(1), status.LikeCount)

	status, err = f.svc.ToggleLike(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, status.Liked)
	assert.Equal(t, int64(2), status.LikeCount)

	status, err = f.svc.ToggleLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Equal(t, int64(1), status.LikeCount)

	_, err = f.svc.ToggleLike(ctx, 99, bob.ID)
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
}

func TestBoardService_ToggleLike_OneRowPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")
	post := f.addPost(t, alice.ID, "raced")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ToggleLike(ctx, post.ID, bob.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := f.likes.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, int64(1))
}

func TestBoardService_Overview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")

	var lastID int64
	for i := 1; i <= 6; i++ {
		post := f.addPost(t, alice.ID, fmt.Sprintf("post %d", i))
		lastID = post.ID
		for j := 0; j < i; j++ {
			require.NoError(t, f.posts.IncrementViews(ctx, post.ID))
		}
	}
	for i := 0; i < 7; i++ {
		_, err := f.comments.Create(ctx, &model.Comment{PostID: lastID, AuthorID: bob.ID, Content: fmt.Sprintf("comment %d", i)})
		require.NoError(t, err)
	}

	overview, err := f.svc.Overview(ctx)
	require.NoError(t, err)

	require.Len(t, overview.RecentPosts, 4)
	assert.Equal(t, lastID, overview.RecentPosts[0].ID)

	require.Len(t, overview.TopPosts, 5)
	assert.Equal(t, int64(6), overview.TopPosts[0].Views)

	require.Len(t, overview.RecentComments, 5)
	assert.Equal(t, "comment 6", overview.RecentComments[0].Content)
	assert.Equal(t, "post 6", overview.RecentComments[0].PostTitle)

	require.NotNil(t, overview.Stats)
	assert.Equal(t, int64(6), overview.Stats.TotalPosts)
	assert.Equal(t, int64(7), overview.Stats.TotalComments)
	assert.Equal(t, int64(2), overview.Stats.TotalUsers)
	assert.Equal(t, int64(6), overview.Stats.TodayPosts)
}

func TestBoardService_GetPostsByAuthor(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice", "Alice")
	bob := f.addUser(t, "bob", "Bob")

	f.addPost(t, alice.ID, "alice one")
	f.addPost(t, bob.ID, "bob one")
	f.addPost(t, alice.ID, "alice two")

	posts, err := f.svc.GetPostsByAuthor(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "alice two", posts[0].Title)
	assert.Equal(t, "alice one", posts[1].Title)
}

func TestBoardService_AllTags(t *testing.T) {
	f := newFixture(t)

	tags, err := f.svc.AllTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "free", tags[0].Name)
}
