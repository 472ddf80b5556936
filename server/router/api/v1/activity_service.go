package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/yominosekai/kshot/server/analytics"
)

// OverallStatsResponse is the global dashboard payload.
type OverallStatsResponse struct {
	OverallStats     *analytics.OverallStats            `json:"overallStats"`
	UserRankings     []*analytics.UserActivityStats     `json:"userRankings"`
	UserDistribution []*analytics.UserDistributionEntry `json:"userDistribution"`
}

// IndividualStatsResponse is the per-user drill-down payload.
type IndividualStatsResponse struct {
	User   *analytics.UserActivityStats `json:"user"`
	Period string                       `json:"period"`
}

// MaterialTrendResponse is the cumulative materials trend payload.
type MaterialTrendResponse struct {
	Trend []analytics.TrendBucket `json:"trend"`
}

// GetActivityStats serves the activity dashboard.
// GET /activity/stats?type=overall
// GET /activity/stats?type=individual&userSid=...&period=...&startDate=...&endDate=...&granularity=...
func (s *APIV1Service) GetActivityStats(c echo.Context) error {
	switch c.QueryParam("type") {
	case "", "overall":
		return s.getOverallActivityStats(c)
	case "individual":
		return s.getIndividualActivityStats(c)
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown stats type"})
	}
}

func (s *APIV1Service) getOverallActivityStats(c echo.Context) error {
	ctx := c.Request().Context()
	resp := &OverallStatsResponse{}

	// The three sections are independent reads; one failure fails the
	// whole request rather than returning a partially filled dashboard.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.Analytics.CollectOverallStats(gctx)
		resp.OverallStats = stats
		return err
	})
	g.Go(func() error {
		rankings, err := s.Analytics.BuildRankings(gctx)
		resp.UserRankings = rankings
		return err
	})
	g.Go(func() error {
		distribution, err := s.Analytics.BuildDistribution(gctx)
		resp.UserDistribution = distribution
		return err
	})
	if err := g.Wait(); err != nil {
		return s.analyticsError(c, "overall", err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) getIndividualActivityStats(c echo.Context) error {
	userSid := c.QueryParam("userSid")
	if userSid == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "userSid is required"})
	}
	period := c.QueryParam("period")
	if period == "" {
		period = string(analytics.PeriodOneMonth)
	}

	req := &analytics.IndividualRequest{
		UserSID:     userSid,
		Period:      analytics.Period(period),
		StartDate:   c.QueryParam("startDate"),
		EndDate:     c.QueryParam("endDate"),
		Granularity: analytics.Granularity(c.QueryParam("granularity")),
	}

	stats, err := s.Analytics.BuildIndividualStats(c.Request().Context(), req)
	if err != nil {
		return s.analyticsError(c, "individual", err)
	}

	return c.JSON(http.StatusOK, IndividualStatsResponse{User: stats, Period: period})
}

// GetMaterialTrend serves the cumulative published-materials trend.
// GET /activity/trend?months=12
func (s *APIV1Service) GetMaterialTrend(c echo.Context) error {
	months := 0
	if v := c.QueryParam("months"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "months must be an integer"})
		}
		months = parsed
	}

	trend, err := s.Analytics.BuildMaterialTrend(c.Request().Context(), months)
	if err != nil {
		return s.analyticsError(c, "trend", err)
	}

	return c.JSON(http.StatusOK, MaterialTrendResponse{Trend: trend})
}

// analyticsError maps engine errors onto the HTTP contract. The specific
// cause is logged with the originating section and never echoed to the
// caller verbatim.
func (s *APIV1Service) analyticsError(c echo.Context, section string, err error) error {
	switch analytics.CodeOf(err) {
	case analytics.ErrCodeNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	case analytics.ErrCodeInvalidArgument:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": analytics.MessageOf(err)})
	default:
		slog.Error("activity stats request failed",
			slog.String("module", "analytics"),
			slog.String("section", section),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"details": "activity statistics aggregation failed",
		})
	}
}
