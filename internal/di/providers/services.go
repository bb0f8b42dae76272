package providers

import (
	"github.com/samber/do/v2"

	"github.com/vantagepoint/vantage-admin/internal/logger"
	"github.com/vantagepoint/vantage-admin/internal/service"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

// ProvideValidator provides the form validator shared by all services.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAuthService provides the sign-in service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	c := do.MustInvoke[*ClientHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewAuthService(c.Client, v, log.Logger), nil
}

// ProvidePostService provides the post service.
func ProvidePostService(i do.Injector) (*service.PostService, error) {
	c := do.MustInvoke[*ClientHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewPostService(c.Client, v, log.Logger), nil
}

// ProvideAuthorService provides the author service.
func ProvideAuthorService(i do.Injector) (*service.AuthorService, error) {
	c := do.MustInvoke[*ClientHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewAuthorService(c.Client, v, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	c := do.MustInvoke[*ClientHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewTagService(c.Client, v, log.Logger), nil
}

// ProvideMenuService provides the menu service over the remote menu types
// and the local item store.
func ProvideMenuService(i do.Injector) (*service.MenuService, error) {
	c := do.MustInvoke[*ClientHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewMenuService(c.Client, storeHandle.Store, v, log.Logger), nil
}
