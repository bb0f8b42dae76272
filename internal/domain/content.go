// Package domain contains the records managed through the admin console.
package domain

import "strings"

// Image is a file reference returned by the backend.
type Image struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Upload is a file attached to a multipart form. Data is held in memory so
// the request body can be rebuilt when a call is retried.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Post is a blog post as listed by the backend.
type Post struct {
	ID             int       `json:"id"`
	Code           string    `json:"code"`
	Title          string    `json:"title"`
	AuthorName     string    `json:"authorName,omitempty"`
	TagNames       []string  `json:"tagNames,omitempty"`
	PreviewPicture *Image    `json:"previewPicture,omitempty"`
	CreatedAt      Timestamp `json:"createdAt"`
	UpdatedAt      Timestamp `json:"updatedAt"`
}

// PostAuthor is the author block embedded in a post detail.
type PostAuthor struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
	Avatar   *Image `json:"avatar,omitempty"`
}

// TagRef is the tag block embedded in a post detail.
type TagRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// PostDetail is the full representation of a single post.
type PostDetail struct {
	ID             int        `json:"id"`
	Title          string     `json:"title"`
	Code           string     `json:"code"`
	Text           string     `json:"text"`
	Author         PostAuthor `json:"author"`
	PreviewPicture *Image     `json:"previewPicture,omitempty"`
	Tags           []TagRef   `json:"tags"`
	CreatedAt      Timestamp  `json:"createdAt"`
	UpdatedAt      Timestamp  `json:"updatedAt"`
}

// Summary converts the detail to its list representation.
func (p *PostDetail) Summary() Post {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return Post{
		ID:             p.ID,
		Code:           p.Code,
		Title:          p.Title,
		AuthorName:     p.Author.FullName,
		TagNames:       names,
		PreviewPicture: p.PreviewPicture,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// Author is a post author.
type Author struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	LastName         string    `json:"lastName"`
	SecondName       string    `json:"secondName,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty"`
	Description      string    `json:"description,omitempty"`
	Avatar           *Image    `json:"avatar,omitempty"`
	CreatedAt        Timestamp `json:"createdAt"`
	UpdatedAt        Timestamp `json:"updatedAt"`
}

// FullName joins last name, name and second name the way the backend does.
func (a *Author) FullName() string {
	parts := []string{a.LastName, a.Name}
	if a.SecondName != "" {
		parts = append(parts, a.SecondName)
	}
	return strings.Join(parts, " ")
}

// Tag is a post tag.
type Tag struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Sort      int       `json:"sort"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// TokenPair is returned by the token endpoints.
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	AccessExpiredAt  string `json:"access_expired_at,omitempty"`
	RefreshExpiredAt string `json:"refresh_expired_at,omitempty"`
}
