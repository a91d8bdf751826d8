package model

type CreatePostDTO struct {
	AuthorID         int64    `json:"author_id"`
	Title            string   `json:"title"`
	Content          *string  `json:"content,omitempty"`
	Filename         *string  `json:"filename,omitempty"`
	OriginalFilename *string  `json:"original_filename,omitempty"`
	ImageFilename    *string  `json:"image_filename,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}
