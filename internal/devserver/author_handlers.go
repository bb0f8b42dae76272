package devserver

import (
	"net/http"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/http/response"
)

const authorInUseMessage = "Нельзя удалить автора, у которого есть публикации"

type authorInput struct {
	name         string
	lastName     string
	optional     map[string]string // sent optional fields only
	avatar       *upload
	removeAvatar bool
	errs         fieldErrors
}

var authorOptionalFields = []string{"secondName", "shortDescription", "description"}

func (s *Server) readAuthor(w http.ResponseWriter, r *http.Request) (*authorInput, bool) {
	if err := parseForm(r); err != nil {
		response.BadRequest(w, malformedFormMessage, s.logger)
		return nil, false
	}

	in := &authorInput{optional: make(map[string]string)}
	in.name = in.errs.required(r, "name", "Имя")
	in.lastName = in.errs.required(r, "lastName", "Фамилия")
	for _, field := range authorOptionalFields {
		if v, ok := optional(r, field); ok {
			in.optional[field] = v
		}
	}
	in.removeAvatar = r.PostFormValue("removeAvatar") == "1"

	avatar, err := readUpload(r, "avatar")
	if err != nil {
		response.BadRequest(w, malformedFormMessage, s.logger)
		return nil, false
	}
	in.avatar = avatar
	return in, true
}

// apply copies the input onto a. Callers hold data.mu.
func (s *Server) applyAuthor(a *domain.Author, in *authorInput) {
	a.Name = in.name
	a.LastName = in.lastName
	if v, ok := in.optional["secondName"]; ok {
		a.SecondName = v
	}
	if v, ok := in.optional["shortDescription"]; ok {
		a.ShortDescription = v
	}
	if v, ok := in.optional["description"]; ok {
		a.Description = v
	}

	switch {
	case in.avatar != nil:
		s.data.dropUpload(a.Avatar)
		a.Avatar = s.data.saveUpload(in.avatar)
	case in.removeAvatar:
		s.data.dropUpload(a.Avatar)
		a.Avatar = nil
	}
}

func (s *Server) handleAuthorList(w http.ResponseWriter, r *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()

	response.Success(w, paginate(w, r, s.data.sortedAuthors()), s.logger)
}

func (s *Server) handleAuthorDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()

	a, ok := s.data.authors[id]
	if !ok {
		response.HandleError(w, notFound("author", id), s.logger)
		return
	}
	response.Success(w, a, s.logger)
}

func (s *Server) handleAuthorCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readAuthor(w, r)
	if !ok || in.errs.failed(w, s.logger) {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	ts := domain.At(now())
	a := &domain.Author{ID: s.data.nextID(), CreatedAt: ts, UpdatedAt: ts}
	s.applyAuthor(a, in)
	s.data.authors[a.ID] = a

	s.logger.Info("author created", "id", a.ID, "by", getEmail(r.Context()))
	response.Created(w, a, s.logger)
}

func (s *Server) handleAuthorUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}
	in, ok := s.readAuthor(w, r)
	if !ok {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	a, ok := s.data.authors[id]
	if !ok {
		response.HandleError(w, notFound("author", id), s.logger)
		return
	}
	if in.errs.failed(w, s.logger) {
		return
	}

	s.applyAuthor(a, in)
	a.UpdatedAt = domain.At(now())

	s.logger.Info("author updated", "id", a.ID, "by", getEmail(r.Context()))
	response.Success(w, a, s.logger)
}

func (s *Server) handleAuthorDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r)
	if !ok {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}
	s.deleteAuthors(w, r, []int{id}, true)
}

func (s *Server) handleAuthorDeleteMany(w http.ResponseWriter, r *http.Request) {
	ids, ok := queryIDs(r)
	if !ok {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}
	s.deleteAuthors(w, r, ids, false)
}

// deleteAuthors removes ids after checking that none of them has posts.
// With strict set a missing author is a 404; otherwise missing ids are skipped.
func (s *Server) deleteAuthors(w http.ResponseWriter, r *http.Request, ids []int, strict bool) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.data.authors[id]; !ok {
			if strict {
				response.HandleError(w, notFound("author", id), s.logger)
				return
			}
			continue
		}
		if s.data.authorInUse(id) {
			response.BadRequest(w, authorInUseMessage, s.logger)
			return
		}
	}

	for _, id := range ids {
		if a, ok := s.data.authors[id]; ok {
			s.data.dropUpload(a.Avatar)
			delete(s.data.authors, id)
		}
	}

	s.logger.Info("authors deleted", "ids", ids, "by", getEmail(r.Context()))
	response.NoContent(w)
}
