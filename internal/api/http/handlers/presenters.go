package handlers

import (
	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/service"
)

func authUser(u *domain.User) dto.AuthUser {
	return dto.AuthUser{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName}
}

func authorResponse(a domain.UserSummary) dto.AuthorResponse {
	return dto.AuthorResponse{ID: a.ID, Username: a.Username, FullName: a.FullName, AvatarURL: a.AvatarURL}
}

func postResponse(p *domain.Post) dto.PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		Slug:       p.Slug,
		Published:  p.Published,
		Tags:       tags,
		ViewsCount: p.ViewsCount,
		AuthorID:   p.AuthorID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func postViewResponse(v *domain.PostView, isLiked *bool) dto.PostViewResponse {
	return dto.PostViewResponse{
		PostResponse:  postResponse(&v.Post),
		Author:        authorResponse(v.Author),
		LikesCount:    v.LikesCount,
		CommentsCount: v.CommentsCount,
		Count:         dto.PostCounts{Likes: v.LikesCount, Comments: v.CommentsCount},
		IsLiked:       isLiked,
	}
}

func postListResponse(page *service.PostPage) dto.PostListResponse {
	posts := make([]dto.PostViewResponse, 0, len(page.Posts))
	for i := range page.Posts {
		posts = append(posts, postViewResponse(&page.Posts[i], nil))
	}
	return dto.PostListResponse{
		Posts: posts,
		Pagination: dto.Pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: page.Total,
			Pages: page.Pages,
		},
	}
}

func commentResponse(c *domain.CommentView) dto.CommentResponse {
	replies := make([]dto.CommentResponse, 0, len(c.Replies))
	for i := range c.Replies {
		replies = append(replies, commentResponse(&c.Replies[i]))
	}
	return dto.CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Author:    authorResponse(c.Author),
		Replies:   replies,
	}
}

func publicUser(u *domain.User) dto.PublicUserResponse {
	return dto.PublicUserResponse{ID: u.ID, Username: u.Username, FullName: u.FullName, Bio: u.Bio, AvatarURL: u.AvatarURL}
}

// profileResponse includes the email only when includeEmail is set.
func profileResponse(p *domain.UserProfile, includeEmail bool) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		ID:         p.ID,
		Username:   p.Username,
		FullName:   p.FullName,
		Bio:        p.Bio,
		AvatarURL:  p.AvatarURL,
		CreatedAt:  p.CreatedAt,
		PostsCount: p.PostsCount,
		Count:      dto.ProfileCounts{Posts: p.PostsCount},
	}
	if includeEmail {
		resp.Email = p.Email
	}
	return resp
}
