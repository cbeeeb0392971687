package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/api/metrics"
	"github.com/inkpress/blog-api/internal/core/ports"
)

// maxImageBytes caps a single uploaded image at 5 MiB.
const maxImageBytes = 5 << 20

// PostHandler handles the blog post endpoints. Reads are public; writes sit
// behind the access guard.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// ListPosts returns every post, newest first.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Success      200  {object}  postsEnvelope
// @Router       /api/posts/posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.service.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsEnvelope{Message: "posts fetched successfully", Posts: posts})
}

// GetPost returns one post by id.
//
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  postEnvelope
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/post/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.service.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postEnvelope{Message: "post fetched successfully", Post: post})
}

// GetPostBySlug returns one post by its URL slug.
//
// @Summary      Get post by slug
// @Tags         posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug"
// @Success      200   {object}  postEnvelope
// @Failure      404   {object}  errorResponse
// @Router       /api/posts/post-by-slug/{slug} [get]
func (h *PostHandler) GetPostBySlug(c echo.Context) error {
	post, err := h.service.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postEnvelope{Message: "post fetched successfully", Post: post})
}

// CreatePost creates a post from a multipart form. The optional "image" file
// part becomes the post's main image.
//
// @Summary      Create post
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Param        title     formData  string  true   "Title"
// @Param        category  formData  string  true   "Category"
// @Param        excerpt   formData  string  true   "Excerpt"
// @Param        content   formData  string  true   "Content"
// @Param        author    formData  string  true   "Author name"
// @Param        tags      formData  string  false  "Comma-separated tags"
// @Param        image     formData  file    false  "Main image"
// @Success      201       {object}  postEnvelope
// @Failure      400       {object}  errorResponse
// @Router       /api/posts/create-post [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	image, err := formImage(c)
	if err != nil {
		return err
	}

	input := ports.CreatePostInput{
		Title:    c.FormValue("title"),
		Category: c.FormValue("category"),
		Excerpt:  c.FormValue("excerpt"),
		Content:  c.FormValue("content"),
		Author:   c.FormValue("author"),
		Tags:     splitTags(c.FormValue("tags")),
		Image:    image,
	}

	post, err := h.service.CreatePost(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.WithLabelValues(string(post.Category)).Inc()
	return c.JSON(http.StatusCreated, postEnvelope{Message: "post created successfully", Post: post})
}

// UpdatePost updates a post from a multipart form. Supplying a new "image"
// replaces the stored one; removeImage=true deletes it without a replacement.
//
// @Summary      Update post
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Post id"
// @Success      200   {object}  postEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/posts/update-post/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	image, err := formImage(c)
	if err != nil {
		return err
	}

	input := ports.UpdatePostInput{
		Title:       c.FormValue("title"),
		Category:    c.FormValue("category"),
		Excerpt:     c.FormValue("excerpt"),
		Content:     c.FormValue("content"),
		Author:      c.FormValue("author"),
		Image:       image,
		RemoveImage: c.FormValue("removeImage") == "true",
	}
	// Absent tags field means "keep tags"; an empty one clears them.
	if tags := c.FormValue("tags"); tags != "" || formHasField(c, "tags") {
		input.Tags = splitTags(tags)
		if input.Tags == nil {
			input.Tags = []string{}
		}
	}

	post, err := h.service.UpdatePost(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postEnvelope{Message: "post updated successfully", Post: post})
}

// DeletePost removes a post and its stored images.
//
// @Summary      Delete post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/posts/delete-post/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.service.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "post deleted successfully"})
}

// formImage reads the optional "image" multipart part. A missing part is not
// an error; an oversized or unreadable one is.
func formImage(c echo.Context) (*ports.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		// Echo surfaces "no such file" from the form map as a generic error.
		if strings.Contains(err.Error(), "no such file") {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}
	if fh.Size > maxImageBytes {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "image exceeds the 5MB limit")
	}

	return readImage(fh)
}

func readImage(fh *multipart.FileHeader) (*ports.ImageUpload, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}
	if len(data) > maxImageBytes {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "image exceeds the 5MB limit")
	}

	return &ports.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// splitTags turns a comma-separated form value into trimmed, non-empty tags.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func formHasField(c echo.Context, name string) bool {
	form, err := c.MultipartForm()
	if err != nil {
		return false
	}
	_, ok := form.Value[name]
	return ok
}
