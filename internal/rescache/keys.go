package rescache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Cache keys are derived deterministically from request parameters so
// identical requests always map to the same entry.

// SearchKey derives the cache key for a free-text search.
func SearchKey(query string, hasImages bool) string {
	h := sha256.Sum256([]byte(query + "|" + strconv.FormatBool(hasImages)))
	return "search:" + hex.EncodeToString(h[:8])
}

// ObjectKey derives the cache key for a single-object lookup.
func ObjectKey(id int) string {
	return fmt.Sprintf("object:%d", id)
}

// PeriodKey derives the cache key for a department/date-range query.
func PeriodKey(departmentIDs []int, dateBegin, dateEnd int, hasImages bool) string {
	ids := make([]string, 0, len(departmentIDs))
	for _, id := range departmentIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	raw := fmt.Sprintf("%s|%d|%d|%t", strings.Join(ids, ","), dateBegin, dateEnd, hasImages)
	h := sha256.Sum256([]byte(raw))
	return "period:" + hex.EncodeToString(h[:8])
}

// TimelineKey derives the cache key for an assembled curated timeline.
func TimelineKey(periodKey string) string {
	return "timeline:" + periodKey
}
