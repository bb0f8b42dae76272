package devserver

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/store"
)

type postRecord struct {
	ID        int
	Code      string
	Title     string
	Text      string
	AuthorID  int
	TagIDs    []int
	Preview   *domain.Image
	CreatedAt time.Time
	UpdatedAt time.Time
}

type upload struct {
	image       domain.Image
	contentType string
	data        []byte
}

type refreshSession struct {
	email     string
	expiresAt time.Time
}

// data holds every record except menu items. Handlers take mu for the whole
// request so validation and writes see one consistent state.
type data struct {
	mu sync.RWMutex

	seq       int
	posts     map[int]*postRecord
	authors   map[int]*domain.Author
	tags      map[int]*domain.Tag
	menuTypes map[string]*domain.MenuType
	uploads   map[int]*upload

	refresh map[string]refreshSession // keyed by refresh token hash
	access  map[string]struct{}       // live access token ids
}

func newData() *data {
	return &data{
		posts:     make(map[int]*postRecord),
		authors:   make(map[int]*domain.Author),
		tags:      make(map[int]*domain.Tag),
		menuTypes: make(map[string]*domain.MenuType),
		uploads:   make(map[int]*upload),
		refresh:   make(map[string]refreshSession),
		access:    make(map[string]struct{}),
	}
}

func (d *data) nextID() int {
	d.seq++
	return d.seq
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func notFound(kind string, id any) error {
	return store.ErrNotFound.WithCause(fmt.Errorf("%s %v", kind, id))
}

// saveUpload stores the file and returns its public image reference.
func (d *data) saveUpload(u *upload) *domain.Image {
	id := d.nextID()
	u.image.ID = id
	u.image.URL = fmt.Sprintf("/uploads/%d/%s", id, url.PathEscape(u.image.Name))
	d.uploads[id] = u

	img := u.image
	return &img
}

func (d *data) dropUpload(img *domain.Image) {
	if img != nil {
		delete(d.uploads, img.ID)
	}
}

func (d *data) postDetail(p *postRecord) domain.PostDetail {
	detail := domain.PostDetail{
		ID:             p.ID,
		Title:          p.Title,
		Code:           p.Code,
		Text:           p.Text,
		PreviewPicture: p.Preview,
		Tags:           []domain.TagRef{},
		CreatedAt:      domain.At(p.CreatedAt),
		UpdatedAt:      domain.At(p.UpdatedAt),
	}
	if a, ok := d.authors[p.AuthorID]; ok {
		detail.Author = domain.PostAuthor{ID: a.ID, FullName: a.FullName(), Avatar: a.Avatar}
	}
	for _, tagID := range p.TagIDs {
		if t, ok := d.tags[tagID]; ok {
			detail.Tags = append(detail.Tags, domain.TagRef{ID: t.ID, Name: t.Name, Code: t.Code})
		}
	}
	return detail
}

// sortedPosts returns posts newest first.
func (d *data) sortedPosts() []*postRecord {
	out := make([]*postRecord, 0, len(d.posts))
	for _, p := range d.posts {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *postRecord) int { return cmp.Compare(b.ID, a.ID) })
	return out
}

// sortedAuthors returns authors newest first.
func (d *data) sortedAuthors() []domain.Author {
	out := make([]domain.Author, 0, len(d.authors))
	for _, a := range d.authors {
		out = append(out, *a)
	}
	slices.SortFunc(out, func(a, b domain.Author) int { return cmp.Compare(b.ID, a.ID) })
	return out
}

// sortedTags returns tags by sort value, then id.
func (d *data) sortedTags() []domain.Tag {
	out := make([]domain.Tag, 0, len(d.tags))
	for _, t := range d.tags {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b domain.Tag) int {
		return cmp.Or(cmp.Compare(a.Sort, b.Sort), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (d *data) sortedMenuTypes() []domain.MenuType {
	out := make([]domain.MenuType, 0, len(d.menuTypes))
	for _, mt := range d.menuTypes {
		out = append(out, *mt)
	}
	slices.SortFunc(out, func(a, b domain.MenuType) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt.Time), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (d *data) postCodeTaken(code string, except int) bool {
	for _, p := range d.posts {
		if p.Code == code && p.ID != except {
			return true
		}
	}
	return false
}

func (d *data) tagCodeTaken(code string, except int) bool {
	for _, t := range d.tags {
		if t.Code == code && t.ID != except {
			return true
		}
	}
	return false
}

func (d *data) authorInUse(id int) bool {
	for _, p := range d.posts {
		if p.AuthorID == id {
			return true
		}
	}
	return false
}

// detachTag removes a deleted tag from every post.
func (d *data) detachTag(id int) {
	for _, p := range d.posts {
		p.TagIDs = slices.DeleteFunc(p.TagIDs, func(t int) bool { return t == id })
	}
}

func (d *data) accessLive(tokenID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.access[tokenID]
	return ok
}
