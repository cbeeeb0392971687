package handler

import "github.com/inkpress/blog-api/internal/core/domain"

type postEnvelope struct {
	Message string       `json:"message"`
	Post    *domain.Post `json:"post"`
}

type postsEnvelope struct {
	Message string         `json:"message"`
	Posts   []*domain.Post `json:"posts"`
}
