package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/metscout/metscout/internal/artwork"
	"github.com/metscout/metscout/internal/errors"
)

// initArtworkRoutes registers the catalog endpoints.
func (c *Controller) initArtworkRoutes() {
	c.Group.GET("/artworks/:id", c.GetArtwork)
	c.Group.GET("/artworks", c.GetArtworks)
	c.Group.GET("/search", c.Search)
	c.Group.GET("/period", c.SearchByPeriod)
}

// SearchResponse is the payload returned by the search endpoints.
type SearchResponse struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

// BatchResponse is the payload returned by the batch artwork lookup.
type BatchResponse struct {
	Artworks []artwork.Artwork `json:"artworks"`
	Count    int               `json:"count"`
}

// GetArtwork returns a single normalized artwork by object id.
func (c *Controller) GetArtwork(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return c.HandleError(ctx, err, "Invalid artwork ID", http.StatusBadRequest)
	}

	art, err := c.Catalog.GetArtwork(ctx.Request().Context(), id)
	if err != nil {
		if errors.IsNotFound(err) {
			return c.HandleError(ctx, err, "Artwork not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to fetch artwork", http.StatusBadGateway)
	}

	return ctx.JSON(http.StatusOK, art)
}

// GetArtworks returns normalized artworks for a comma-separated ids list.
// Unfetchable or invalid records are omitted from the result.
func (c *Controller) GetArtworks(ctx echo.Context) error {
	raw := strings.TrimSpace(ctx.QueryParam("ids"))
	if raw == "" {
		return c.HandleError(ctx, nil, "Missing ids parameter", http.StatusBadRequest)
	}

	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil || id <= 0 {
			return c.HandleError(ctx, err, "Invalid ids parameter", http.StatusBadRequest)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return c.HandleError(ctx, nil, "Missing ids parameter", http.StatusBadRequest)
	}

	arts := c.Catalog.GetArtworks(ctx.Request().Context(), ids)
	return ctx.JSON(http.StatusOK, BatchResponse{Artworks: arts, Count: len(arts)})
}

// Search runs a free-text collection search. Upstream failures degrade to
// an empty result set so callers always get a well-formed payload.
func (c *Controller) Search(ctx echo.Context) error {
	query := strings.TrimSpace(ctx.QueryParam("q"))
	if query == "" {
		return c.HandleError(ctx, nil, "Missing q parameter", http.StatusBadRequest)
	}
	hasImages := ctx.QueryParam("hasImages") != "false"

	result, err := c.Catalog.Search(ctx.Request().Context(), query, hasImages)
	if err != nil {
		c.apiLogger.Warn("search degraded to empty result", "query", query, "error", err)
		return ctx.JSON(http.StatusOK, SearchResponse{Total: 0, ObjectIDs: []int{}})
	}

	ids := result.ObjectIDs
	if ids == nil {
		ids = []int{}
	}
	return ctx.JSON(http.StatusOK, SearchResponse{Total: result.Total, ObjectIDs: ids})
}

// SearchByPeriod searches the collection within a date range, optionally
// scoped to departments (comma-separated ids).
func (c *Controller) SearchByPeriod(ctx echo.Context) error {
	dateBegin, err := strconv.Atoi(ctx.QueryParam("dateBegin"))
	if err != nil {
		return c.HandleError(ctx, err, "Invalid dateBegin parameter", http.StatusBadRequest)
	}
	dateEnd, err := strconv.Atoi(ctx.QueryParam("dateEnd"))
	if err != nil {
		return c.HandleError(ctx, err, "Invalid dateEnd parameter", http.StatusBadRequest)
	}
	if dateBegin > dateEnd {
		return c.HandleError(ctx, nil, "dateBegin must not exceed dateEnd", http.StatusBadRequest)
	}

	var departments []int
	if raw := strings.TrimSpace(ctx.QueryParam("departmentIds")); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || id <= 0 {
				return c.HandleError(ctx, err, "Invalid departmentIds parameter", http.StatusBadRequest)
			}
			departments = append(departments, id)
		}
	}
	hasImages := ctx.QueryParam("hasImages") != "false"

	result, err := c.Catalog.SearchByPeriod(ctx.Request().Context(), departments, dateBegin, dateEnd, hasImages)
	if err != nil {
		c.apiLogger.Warn("period search degraded to empty result",
			"date_begin", dateBegin, "date_end", dateEnd, "error", err)
		return ctx.JSON(http.StatusOK, SearchResponse{Total: 0, ObjectIDs: []int{}})
	}

	ids := result.ObjectIDs
	if ids == nil {
		ids = []int{}
	}
	return ctx.JSON(http.StatusOK, SearchResponse{Total: result.Total, ObjectIDs: ids})
}
