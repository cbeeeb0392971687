package domain

import "time"

// PostCategory constrains the category field to the editorial taxonomy.
type PostCategory string

const (
	CategoryTechnology PostCategory = "technology"
	CategoryBusiness   PostCategory = "business"
	CategoryEducation  PostCategory = "education"
	CategoryDesign     PostCategory = "design"
	CategoryLifeStyle  PostCategory = "life-style"
	CategoryOther      PostCategory = "other"
)

var validCategories = map[PostCategory]struct{}{
	CategoryTechnology: {},
	CategoryBusiness:   {},
	CategoryEducation:  {},
	CategoryDesign:     {},
	CategoryLifeStyle:  {},
	CategoryOther:      {},
}

// IsValid reports whether the category is part of the taxonomy.
func (c PostCategory) IsValid() bool {
	_, ok := validCategories[c]
	return ok
}

// PostImage references an object in the image store. FileID is the storage
// key needed to delete the object later; URL is what clients render.
type PostImage struct {
	URL    string `json:"url"`
	FileID string `json:"file_id"`
}

// Post is the blog post aggregate root.
type Post struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Category    PostCategory `json:"category"`
	Excerpt     string       `json:"excerpt"`
	Content     string       `json:"content"`
	Author      string       `json:"author"`
	Slug        string       `json:"slug"`
	IsPublished bool         `json:"is_published"`
	MainImage   PostImage    `json:"main_image"`
	OtherImages []PostImage  `json:"other_images,omitempty"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
