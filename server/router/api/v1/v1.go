package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/yominosekai/kshot/internal/profile"
	"github.com/yominosekai/kshot/server/analytics"
	"github.com/yominosekai/kshot/store"
)

// APIV1Service wires the analytics engine to the HTTP surface.
type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Analytics *analytics.Service
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(profile *profile.Profile, store *store.Store) *APIV1Service {
	return &APIV1Service{
		Profile:   profile,
		Store:     store,
		Analytics: analytics.NewService(store),
	}
}

// RegisterRoutes registers the HTTP routes with the given Echo instance.
// The unversioned /activity paths are the compatibility surface older
// dashboard clients call; /api/v1 is the canonical prefix.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	for _, g := range []*echo.Group{e.Group(""), e.Group("/api/v1")} {
		g.GET("/activity/stats", s.GetActivityStats)
		g.GET("/activity/trend", s.GetMaterialTrend)
	}
}
