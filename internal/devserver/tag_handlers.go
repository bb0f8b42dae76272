package devserver

import (
	"net/http"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/http/response"
)

type tagInput struct {
	code string
	name string
	sort int
	errs fieldErrors
}

func (s *Server) readTag(w http.ResponseWriter, r *http.Request) (*tagInput, bool) {
	if err := parseForm(r); err != nil {
		response.BadRequest(w, malformedFormMessage, s.logger)
		return nil, false
	}

	in := &tagInput{}
	in.code = in.errs.required(r, "code", "Код")
	in.name = in.errs.required(r, "name", "Название")
	in.sort = in.errs.integer(r, "sort", "Сортировка")
	return in, true
}

func (s *Server) handleTagList(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()

	response.Success(w, paginate(w, r, s.data.sortedTags()), s.logger)
}

func (s *Server) handleTagDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()

	t, ok := s.data.tags[id]
	if !ok {
		response.HandleError(w, notFound("tag", id), s.logger)
		return
	}
	response.Success(w, t, s.logger)
}

func (s *Server) handleTagCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readTag(w, r)
	if !ok {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if in.code != "" && s.data.tagCodeTaken(in.code, 0) {
		in.errs.add("code", takenMessage, in.code)
	}
	if in.errs.failed(w, s.logger) {
		return
	}

	ts := domain.At(now())
	t := &domain.Tag{
		ID:        s.data.nextID(),
		Code:      in.code,
		Name:      in.name,
		Sort:      in.sort,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	s.data.tags[t.ID] = t

	s.logger.Info("tag created", "id", t.ID, "by", getEmail(r.Context()))
	response.Created(w, t, s.logger)
}

func (s *Server) handleTagUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}
	in, ok := s.readTag(w, r)
	if !ok {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	t, ok := s.data.tags[id]
	if !ok {
		response.HandleError(w, notFound("tag", id), s.logger)
		return
	}
	if in.code != "" && s.data.tagCodeTaken(in.code, id) {
		in.errs.add("code", takenMessage, in.code)
	}
	if in.errs.failed(w, s.logger) {
		return
	}

	t.Code = in.code
	t.Name = in.name
	t.Sort = in.sort
	t.UpdatedAt = domain.At(now())

	s.logger.Info("tag updated", "id", t.ID, "by", getEmail(r.Context()))
	response.Success(w, t, s.logger)
}

func (s *Server) handleTagDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if _, ok := s.data.tags[id]; !ok {
		response.HandleError(w, notFound("tag", id), s.logger)
		return
	}
	s.deleteTag(id)

	s.logger.Info("tag deleted", "id", id, "by", getEmail(r.Context()))
	response.NoContent(w)
}

func (s *Server) handleTagDeleteMany(w http.ResponseWriter, r *http.Request) {
	ids, ok := queryIDs(r)
	if !ok {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	for _, id := range ids {
		s.deleteTag(id)
	}

	s.logger.Info("tags deleted", "ids", ids, "by", getEmail(r.Context()))
	response.NoContent(w)
}

// deleteTag removes a tag and detaches it from posts. Callers hold data.mu.
func (s *Server) deleteTag(id int) {
	if _, ok := s.data.tags[id]; !ok {
		return
	}
	delete(s.data.tags, id)
	s.data.detachTag(id)
}
