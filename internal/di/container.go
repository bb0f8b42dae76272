// Package di wires the vantage console and the dev server together.
package di

import (
	"github.com/samber/do/v2"

	"github.com/vantagepoint/vantage-admin/internal/config"
	"github.com/vantagepoint/vantage-admin/internal/di/providers"
)

// NewContainer creates the DI container with all providers. Services are
// built lazily on first Invoke, so a command only opens what it uses.
func NewContainer(flags config.Flags) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, flags)
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSessionStore)

	// Backend API
	do.Provide(injector, providers.ProvideClient)
	do.Provide(injector, providers.ProvideValidator)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvidePostService)
	do.Provide(injector, providers.ProvideAuthorService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideMenuService)

	// Dev backend
	do.Provide(injector, providers.ProvideDevServer)

	return injector
}
