package devserver

import (
	"net/http"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/http/response"
)

type postInput struct {
	code     string
	title    string
	text     string
	authorID int
	tagIDs   []int
	preview  *upload
	errs     fieldErrors
}

// readPost parses the post form. It writes a 400 and returns false when the
// body cannot be read.
func (s *Server) readPost(w http.ResponseWriter, r *http.Request) (*postInput, bool) {
	if err := parseForm(r); err != nil {
		response.BadRequest(w, malformedFormMessage, s.logger)
		return nil, false
	}

	in := &postInput{}
	in.code = in.errs.required(r, "code", "Код")
	in.title = in.errs.required(r, "title", "Заголовок")
	in.text = in.errs.required(r, "text", "Текст")
	in.authorID = in.errs.integer(r, "authorId", "Автор")
	in.tagIDs = in.errs.integers(r, "tagIds", "Теги")

	preview, err := readUpload(r, "previewPicture")
	if err != nil {
		response.BadRequest(w, malformedFormMessage, s.logger)
		return nil, false
	}
	in.preview = preview
	return in, true
}

// checkPost adds the checks that need the stored data. Callers hold data.mu.
func (s *Server) checkPost(in *postInput, id int) {
	if in.code != "" && s.data.postCodeTaken(in.code, id) {
		in.errs.add("code", takenMessage, in.code)
	}
	if _, ok := s.data.authors[in.authorID]; !ok {
		in.errs.add("authorId", missingRefMessage, "Автор")
	}
	for _, tagID := range in.tagIDs {
		if _, ok := s.data.tags[tagID]; !ok {
			in.errs.add("tagIds", missingRefMessage, "Теги")
			break
		}
	}
}

func (s *Server) handlePostList(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()

	records := s.data.sortedPosts()
	posts := make([]domain.Post, 0, len(records))
	for _, p := range records {
		detail := s.data.postDetail(p)
		posts = append(posts, detail.Summary())
	}

	response.Success(w, paginate(w, r, posts), s.logger)
}

func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()

	p, ok := s.data.posts[id]
	if !ok {
		response.HandleError(w, notFound("post", id), s.logger)
		return
	}
	response.Success(w, s.data.postDetail(p), s.logger)
}

func (s *Server) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readPost(w, r)
	if !ok {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	s.checkPost(in, 0)
	if in.errs.failed(w, s.logger) {
		return
	}

	ts := now()
	p := &postRecord{
		ID:        s.data.nextID(),
		Code:      in.code,
		Title:     in.title,
		Text:      in.text,
		AuthorID:  in.authorID,
		TagIDs:    in.tagIDs,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if in.preview != nil {
		p.Preview = s.data.saveUpload(in.preview)
	}
	s.data.posts[p.ID] = p

	s.logger.Info("post created", "id", p.ID, "by", getEmail(r.Context()))
	response.Created(w, s.data.postDetail(p), s.logger)
}

func (s *Server) handlePostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}
	in, ok := s.readPost(w, r)
	if !ok {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	p, ok := s.data.posts[id]
	if !ok {
		response.HandleError(w, notFound("post", id), s.logger)
		return
	}

	s.checkPost(in, id)
	if in.errs.failed(w, s.logger) {
		return
	}

	p.Code = in.code
	p.Title = in.title
	p.Text = in.text
	p.AuthorID = in.authorID
	p.TagIDs = in.tagIDs
	if in.preview != nil {
		s.data.dropUpload(p.Preview)
		p.Preview = s.data.saveUpload(in.preview)
	}
	p.UpdatedAt = now()

	s.logger.Info("post updated", "id", p.ID, "by", getEmail(r.Context()))
	response.Success(w, s.data.postDetail(p), s.logger)
}

func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	p, ok := s.data.posts[id]
	if !ok {
		response.HandleError(w, notFound("post", id), s.logger)
		return
	}
	s.data.dropUpload(p.Preview)
	delete(s.data.posts, id)

	s.logger.Info("post deleted", "id", id, "by", getEmail(r.Context()))
	response.NoContent(w)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id, err := chiIntParam(r, "id")
	if err != nil {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}

	s.data.mu.RLock()
	u, ok := s.data.uploads[id]
	s.data.mu.RUnlock()
	if !ok {
		response.HandleError(w, notFound("upload", id), s.logger)
		return
	}

	contentType := u.contentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(u.data)
}
