package model

// UpdatePostDTO carries an edit request. File slots resolve in order: current
// stored value, nulled by the delete flag, overridden by a new upload. Tags
// always replace the post's full tag set, so an empty slice clears all links.
type UpdatePostDTO struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Tags    []string `json:"tags"`

	DeleteFile  bool `json:"delete_file,omitempty"`
	DeleteImage bool `json:"delete_image,omitempty"`

	NewFilename         *string `json:"new_filename,omitempty"`
	NewOriginalFilename *string `json:"new_original_filename,omitempty"`
	NewImageFilename    *string `json:"new_image_filename,omitempty"`
}

// PostUpdate is the resolved set of columns written by the post repository.
type PostUpdate struct {
	Title            *string
	Content          *string
	Filename         *string
	OriginalFilename *string
	ImageFilename    *string
}
