package devserver

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/http/response"
	"github.com/vantagepoint/vantage-admin/internal/menu"
)

var menuTypeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func (s *Server) handleMenuTypeList(w http.ResponseWriter, _ *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()

	response.Success(w, s.data.sortedMenuTypes(), s.logger)
}

func (s *Server) handleMenuTypeCreate(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		response.BadRequest(w, malformedFormMessage, s.logger)
		return
	}

	var errs fieldErrors
	id := errs.required(r, "id", "ID")
	name := errs.required(r, "name", "Название")
	if id != "" && !menuTypeIDPattern.MatchString(id) {
		errs.add("id", missingRefMessage, "ID")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if _, taken := s.data.menuTypes[id]; taken {
		errs.add("id", takenMessage, id)
	}
	if errs.failed(w, s.logger) {
		return
	}

	ts := domain.At(now())
	mt := &domain.MenuType{ID: id, Name: name, CreatedAt: ts, UpdatedAt: ts}
	s.data.menuTypes[id] = mt

	s.logger.Info("menu type created", "id", id, "by", getEmail(r.Context()))
	response.Created(w, mt, s.logger)
}

func (s *Server) handleMenuTypeUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}
	if err := parseForm(r); err != nil {
		response.BadRequest(w, malformedFormMessage, s.logger)
		return
	}

	var errs fieldErrors
	name := errs.required(r, "name", "Название")

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	mt, ok := s.data.menuTypes[id]
	if !ok {
		response.HandleError(w, notFound("menu type", id), s.logger)
		return
	}
	if errs.failed(w, s.logger) {
		return
	}

	mt.Name = name
	mt.UpdatedAt = domain.At(now())
	response.Success(w, mt, s.logger)
}

func (s *Server) handleMenuTypeDelete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		response.BadRequest(w, badIDMessage, s.logger)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if _, ok := s.data.menuTypes[id]; !ok {
		response.HandleError(w, notFound("menu type", id), s.logger)
		return
	}
	if err := s.menus.ClearMenuItems(r.Context(), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	delete(s.data.menuTypes, id)

	s.logger.Info("menu type deleted", "id", id, "by", getEmail(r.Context()))
	response.NoContent(w)
}

func (s *Server) handleMenuTree(w http.ResponseWriter, r *http.Request) {
	typeID := strings.TrimSpace(r.URL.Query().Get("typeId"))
	if typeID == "" {
		response.BadRequest(w, "Не передан typeId", s.logger)
		return
	}

	s.data.mu.RLock()
	_, ok := s.data.menuTypes[typeID]
	s.data.mu.RUnlock()
	if !ok {
		response.HandleError(w, notFound("menu type", typeID), s.logger)
		return
	}

	items, err := s.menus.ListMenuItems(r.Context(), typeID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, menu.BuildTree(items), s.logger)
}

// SeedMenu replaces the items of a menu type, creating the type when it does
// not exist yet. The backend has no item endpoints, so this is how the dev
// server gets a tree to serve.
func (s *Server) SeedMenu(ctx context.Context, mt domain.MenuType, items []domain.MenuItem) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if err := s.menus.ReplaceMenuItems(ctx, mt.ID, items); err != nil {
		return err
	}
	if existing, ok := s.data.menuTypes[mt.ID]; ok {
		existing.Name = mt.Name
		return nil
	}

	ts := domain.At(now())
	mt.CreatedAt, mt.UpdatedAt = ts, ts
	s.data.menuTypes[mt.ID] = &mt
	return nil
}
