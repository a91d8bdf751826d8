package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/model"
	board_service "schoolpass-board-service/internal/service/board"
	"schoolpass-board-service/internal/storage"
)

type BoardHandler struct {
	board    board_service.Service
	files    storage.FileStorage
	log      *logger.Logger
	validate *validator.Validate
}

func NewBoardHandler(board board_service.Service, files storage.FileStorage, log *logger.Logger) *BoardHandler {
	return &BoardHandler{
		board:    board,
		files:    files,
		log:      log,
		validate: validator.New(),
	}
}

func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		Error(ctx, http.StatusBadRequest, 40002, "invalid id")
		return 0, false
	}
	return id, true
}

// saveUpload stores the named multipart file if present. A missing field is
// not an error; both return values are nil.
func (h *BoardHandler) saveUpload(ctx *gin.Context, field string) (*string, *string, error) {
	header, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	storedName, err := h.files.Save(src, header.Filename)
	if err != nil {
		return nil, nil, err
	}
	originalName := header.Filename
	return &storedName, &originalName, nil
}

func (h *BoardHandler) List(ctx *gin.Context) {
	filters := model.PostFilters{
		Tag:    ctx.Query("tag"),
		Search: ctx.Query("search"),
		Sort:   ctx.DefaultQuery("sort", model.SortLatest),
	}

	posts, err := h.board.ListPosts(ctx.Request.Context(), filters)
	if err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, posts)
}

func (h *BoardHandler) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var viewerID *int64
	if viewer, authed := userID(ctx); authed {
		viewerID = &viewer
	}

	post, err := h.board.GetPost(ctx.Request.Context(), id, viewerID)
	if err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, post)
}

type createPostRequest struct {
	Title   string   `form:"title" validate:"required,max=200"`
	Content string   `form:"content" validate:"omitempty,max=20000"`
	Tags    []string `form:"tags" validate:"omitempty,dive,max=32"`
}

func (h *BoardHandler) Create(ctx *gin.Context) {
	authorID, ok := userID(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, 40102, "authorization required")
		return
	}

	var req createPostRequest
	if err := ctx.ShouldBind(&req); err != nil {
		Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.log.Debug("Create post validation failed", slog.String("error", err.Error()))
		Error(ctx, http.StatusBadRequest, 40001, err.Error())
		return
	}

	storedFile, originalFile, err := h.saveUpload(ctx, "file")
	if err != nil {
		h.log.Error("Failed to store upload", slog.String("error", err.Error()))
		Error(ctx, http.StatusInternalServerError, 50002, "failed to store upload")
		return
	}
	storedImage, _, err := h.saveUpload(ctx, "image")
	if err != nil {
		h.log.Error("Failed to store image upload", slog.String("error", err.Error()))
		Error(ctx, http.StatusInternalServerError, 50002, "failed to store upload")
		return
	}

	dto := &model.CreatePostDTO{
		AuthorID:         authorID,
		Title:            req.Title,
		Filename:         storedFile,
		OriginalFilename: originalFile,
		ImageFilename:    storedImage,
		Tags:             req.Tags,
	}
	if req.Content != "" {
		dto.Content = &req.Content
	}

	post, err := h.board.CreatePost(ctx.Request.Context(), dto)
	if err != nil {
		FromError(ctx, err)
		return
	}

	Respond(ctx, http.StatusCreated, 0, "success", post)
}

type updatePostRequest struct {
	Title       string   `form:"title" validate:"omitempty,max=200"`
	Content     string   `form:"content" validate:"omitempty,max=20000"`
	Tags        []string `form:"tags" validate:"omitempty,dive,max=32"`
	DeleteFile  bool     `form:"delete_file"`
	DeleteImage bool     `form:"delete_image"`
}

func (h *BoardHandler) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	editorID, ok := userID(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, 40102, "authorization required")
		return
	}

	var req updatePostRequest
	if err := ctx.ShouldBind(&req); err != nil {
		Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.log.Debug("Update post validation failed", slog.String("error", err.Error()))
		Error(ctx, http.StatusBadRequest, 40001, err.Error())
		return
	}

	newFile, newOriginal, err := h.saveUpload(ctx, "file")
	if err != nil {
		h.log.Error("Failed to store upload", slog.String("error", err.Error()))
		Error(ctx, http.StatusInternalServerError, 50002, "failed to store upload")
		return
	}
	newImage, _, err := h.saveUpload(ctx, "image")
	if err != nil {
		h.log.Error("Failed to store image upload", slog.String("error", err.Error()))
		Error(ctx, http.StatusInternalServerError, 50002, "failed to store upload")
		return
	}

	dto := &model.UpdatePostDTO{
		Tags:                req.Tags,
		DeleteFile:          req.DeleteFile,
		DeleteImage:         req.DeleteImage,
		NewFilename:         newFile,
		NewOriginalFilename: newOriginal,
		NewImageFilename:    newImage,
	}
	if req.Title != "" {
		dto.Title = &req.Title
	}
	if req.Content != "" {
		dto.Content = &req.Content
	}

	post, err := h.board.UpdatePost(ctx.Request.Context(), id, editorID, dto)
	if err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, post)
}

func (h *BoardHandler) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	editorID, ok := userID(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, 40102, "authorization required")
		return
	}

	if err := h.board.DeletePost(ctx.Request.Context(), id, editorID); err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, nil)
}

type addCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *BoardHandler) AddComment(ctx *gin.Context) {
	postID, ok := pathID(ctx)
	if !ok {
		return
	}
	authorID, ok := userID(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, 40102, "authorization required")
		return
	}

	var req addCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		Error(ctx, http.StatusBadRequest, 40001, err.Error())
		return
	}

	comment, err := h.board.AddComment(ctx.Request.Context(), postID, authorID, req.Content)
	if err != nil {
		FromError(ctx, err)
		return
	}

	Respond(ctx, http.StatusCreated, 0, "success", comment)
}

func (h *BoardHandler) DeleteComment(ctx *gin.Context) {
	commentID, ok := pathID(ctx)
	if !ok {
		return
	}
	editorID, ok := userID(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, 40102, "authorization required")
		return
	}

	if err := h.board.DeleteComment(ctx.Request.Context(), commentID, editorID); err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, nil)
}

func (h *BoardHandler) ToggleLike(ctx *gin.Context) {
	postID, ok := pathID(ctx)
	if !ok {
		return
	}
	viewerID, ok := userID(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, 40102, "authorization required")
		return
	}

	status, err := h.board.ToggleLike(ctx.Request.Context(), postID, viewerID)
	if err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, status)
}

func (h *BoardHandler) Overview(ctx *gin.Context) {
	overview, err := h.board.Overview(ctx.Request.Context())
	if err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, overview)
}

func (h *BoardHandler) Tags(ctx *gin.Context) {
	tags, err := h.board.AllTags(ctx.Request.Context())
	if err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, tags)
}

func (h *BoardHandler) MyPosts(ctx *gin.Context) {
	authorID, ok := userID(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, 40102, "authorization required")
		return
	}

	posts, err := h.board.GetPostsByAuthor(ctx.Request.Context(), authorID)
	if err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, posts)
}
