package metapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metscout/metscout/internal/errors"
)

func TestSearch(t *testing.T) {
	t.Parallel()

	server := setupMockServer(t, map[string]mockResponse{
		"/search?hasImages=true&q=sunflowers": {
			status: http.StatusOK,
			body:   `{"total": 3, "objectIDs": [436535, 437112, 436121]}`,
		},
	})
	client := setupTestClient(t, server)

	result, err := client.Search(context.Background(), "sunflowers", true)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, []int{436535, 437112, 436121}, result.ObjectIDs)
}

func TestSearchNullObjectIDs(t *testing.T) {
	t.Parallel()

	server := setupMockServer(t, map[string]mockResponse{
		"/search?hasImages=true&q=xyzzy": {
			status: http.StatusOK,
			body:   `{"total": 0, "objectIDs": null}`,
		},
	})
	client := setupTestClient(t, server)

	result, err := client.Search(context.Background(), "xyzzy", true)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.NotNil(t, result.ObjectIDs)
	assert.Empty(t, result.ObjectIDs)
}

func TestSearchByPeriod(t *testing.T) {
	t.Parallel()

	// Department ids are pipe-joined, the date range is passed through
	// and the query degenerates to a wildcard.
	server := setupMockServer(t, map[string]mockResponse{
		"/search?dateBegin=1400&dateEnd=1600&departmentIds=11%7C21&hasImages=true&q=%2A": {
			status: http.StatusOK,
			body:   `{"total": 2, "objectIDs": [436535, 437112]}`,
		},
	})
	client := setupTestClient(t, server)

	result, err := client.SearchByPeriod(context.Background(), []int{11, 21}, 1400, 1600, true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.ObjectIDs, 2)
}

func TestGetObject(t *testing.T) {
	t.Parallel()

	server := setupMockServer(t, map[string]mockResponse{
		"/objects/436535": {
			status: http.StatusOK,
			body: `{
				"objectID": 436535,
				"title": "Wheat Field with Cypresses",
				"artistDisplayName": "Vincent van Gogh",
				"objectDate": "1889",
				"objectBeginDate": 1889,
				"objectEndDate": 1889,
				"primaryImageSmall": "https://images.metmuseum.org/CRDImages/ep/web-large/DT1567.jpg",
				"isPublicDomain": true
			}`,
		},
	})
	client := setupTestClient(t, server)

	record, err := client.GetObject(context.Background(), 436535)
	require.NoError(t, err)
	assert.Equal(t, 436535, record.ObjectID)
	assert.Equal(t, "Wheat Field with Cypresses", record.Title)
	assert.Equal(t, "Vincent van Gogh", record.ArtistDisplayName)
	assert.Equal(t, 1889, record.ObjectBeginDate)
	assert.True(t, record.IsPublicDomain)
}

func TestGetObjectNotFound(t *testing.T) {
	t.Parallel()

	server := setupMockServer(t, map[string]mockResponse{
		"/objects/999999999": {
			status: http.StatusNotFound,
			body:   `{"message": "ObjectID not found"}`,
		},
	})
	client := setupTestClient(t, server)

	_, err := client.GetObject(context.Background(), 999999999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.False(t, IsServerError(err))
}

func TestGetObjectServerError(t *testing.T) {
	t.Parallel()

	server := setupMockServer(t, map[string]mockResponse{
		"/objects/123": {
			status: http.StatusBadGateway,
			body:   `upstream exploded`,
		},
	})
	client := setupTestClient(t, server)

	_, err := client.GetObject(context.Background(), 123)
	require.Error(t, err)
	assert.True(t, IsServerError(err))
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))
}

func TestSearchRateLimited(t *testing.T) {
	t.Parallel()

	server := setupMockServer(t, map[string]mockResponse{
		"/search?hasImages=true&q=monet": {
			status: http.StatusTooManyRequests,
			body:   `{"message": "rate limited"}`,
		},
	})
	client := setupTestClient(t, server)

	_, err := client.Search(context.Background(), "monet", true)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryLimit))
}

func TestGetObjectMalformedBody(t *testing.T) {
	t.Parallel()

	server := setupMockServer(t, map[string]mockResponse{
		"/objects/42": {
			status: http.StatusOK,
			body:   `{"objectID": 42, "title":`,
		},
	})
	client := setupTestClient(t, server)

	_, err := client.GetObject(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryParsing))
}

func TestSearchCancelledContext(t *testing.T) {
	t.Parallel()

	server := setupMockServer(t, map[string]mockResponse{})
	client := setupTestClient(t, server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "anything", true)
	require.Error(t, err)
}
