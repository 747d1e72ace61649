package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/metscout/metscout/internal/artwork"
	"github.com/metscout/metscout/internal/timeline"
)

const defaultTimelineLimit = 20

// initTimelineRoutes registers the curated timeline endpoints.
func (c *Controller) initTimelineRoutes() {
	c.Group.GET("/timeline/periods", c.ListPeriods)
	c.Group.GET("/timeline/:period", c.GetTimeline)
	c.Group.GET("/timeline/:period/stream", c.StreamTimeline)
}

// PeriodInfo is the public shape of a curated period.
type PeriodInfo struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	DateLabel string `json:"dateLabel"`
	StartDate int    `json:"startDate"`
	EndDate   int    `json:"endDate"`
}

// TimelineResponse is the payload returned by the timeline endpoint.
type TimelineResponse struct {
	Period   PeriodInfo        `json:"period"`
	Artworks []artwork.Artwork `json:"artworks"`
	Count    int               `json:"count"`
}

func periodInfo(p timeline.Period) PeriodInfo {
	return PeriodInfo{
		Key:       p.Key,
		Title:     p.Title,
		DateLabel: p.DateLabel,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
	}
}

// ListPeriods returns the configured curated periods.
func (c *Controller) ListPeriods(ctx echo.Context) error {
	periods := c.Assembler.Periods()
	infos := make([]PeriodInfo, 0, len(periods))
	for _, p := range periods {
		infos = append(infos, periodInfo(p))
	}
	return ctx.JSON(http.StatusOK, infos)
}

// GetTimeline returns the curated artwork set for a period as one payload.
func (c *Controller) GetTimeline(ctx echo.Context) error {
	key := ctx.Param("period")
	period, ok := c.Assembler.Period(key)
	if !ok {
		return c.HandleError(ctx, nil, "Unknown period", http.StatusNotFound)
	}

	limit, err := timelineLimit(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid limit parameter", http.StatusBadRequest)
	}

	arts, err := c.Assembler.GetCuratedTimeline(ctx.Request().Context(), key, limit, nil)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to assemble timeline", http.StatusBadGateway)
	}
	if arts == nil {
		arts = []artwork.Artwork{}
	}

	return ctx.JSON(http.StatusOK, TimelineResponse{
		Period:   periodInfo(period),
		Artworks: arts,
		Count:    len(arts),
	})
}

// StreamTimeline streams the curated set as server-sent events, one
// "artwork" event per record as assembly finds it, then a "done" event
// with the final count. Cached timelines replay through the same events.
func (c *Controller) StreamTimeline(ctx echo.Context) error {
	key := ctx.Param("period")
	if _, ok := c.Assembler.Period(key); !ok {
		return c.HandleError(ctx, nil, "Unknown period", http.StatusNotFound)
	}

	limit, err := timelineLimit(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid limit parameter", http.StatusBadRequest)
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	onFound := func(a artwork.Artwork) {
		payload, err := json.Marshal(a)
		if err != nil {
			return
		}
		fmt.Fprintf(res, "event: artwork\ndata: %s\n\n", payload)
		res.Flush()
	}

	arts, err := c.Assembler.GetCuratedTimeline(ctx.Request().Context(), key, limit, onFound)
	if err != nil {
		fmt.Fprintf(res, "event: error\ndata: {\"message\":%q}\n\n", "timeline assembly failed")
		res.Flush()
		return nil
	}

	fmt.Fprintf(res, "event: done\ndata: {\"count\":%d}\n\n", len(arts))
	res.Flush()
	return nil
}

func timelineLimit(ctx echo.Context) (int, error) {
	raw := ctx.QueryParam("limit")
	if raw == "" {
		return defaultTimelineLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if limit <= 0 || limit > 100 {
		return 0, fmt.Errorf("limit out of range: %d", limit)
	}
	return limit, nil
}
