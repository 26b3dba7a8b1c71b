package analytics

import (
	"context"
	"fmt"
	"time"

	"bloggy-api/client"
	"bloggy-api/database"
	"bloggy-api/helpers"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api/write"
)

type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Tracker records article visits in the analytics store (influxDB).
// A disabled tracker (USE_ANALYTICS != YES) accepts every call and stores nothing
type Tracker struct {
	Enabled  bool
	Visits   database.InfluxAPI
	Requests *client.Registry
	writer   pointWriter
}

// NewTracker prepares the tracker for the visits bucket
func NewTracker(enabled bool, visits database.InfluxAPI, requests *client.Registry) *Tracker {
	return &Tracker{
		Enabled:  enabled,
		Visits:   visits,
		Requests: requests,
		writer:   visits.WriteAPI,
	}
}

// SaveVisit stores a visit unless the same client just requested the same article (page refresh)
func (t *Tracker) SaveVisit(ctx context.Context, clientIP string, articleID string, userID string) error {
	if t == nil || !t.Enabled {
		return nil
	}

	if t.Requests != nil && !t.Requests.Continue(clientIP, articleID) {
		return nil
	}

	// the risk of high series cardinalty is accepted, since articles is what we're interessted in
	p := influxdb2.NewPoint(
		"visit",
		map[string]string{"article": articleID},
		map[string]interface{}{"user": userID},
		time.Now())

	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	if err := t.writer.WritePoint(ctx, p); err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	return nil
}

// CountVisits counts the visits of an article since startDT;
// the value is "live", -1 when analytics are disabled
func (t *Tracker) CountVisits(ctx context.Context, articleID string, startDT time.Time) (int64, error) {
	if t == nil || !t.Enabled {
		return -1, nil
	}

	flux := `from(bucket: "%s")
		|> range(start: %s)
		|> filter(fn: (r) => r["_measurement"] == "visit" and r["article"] == "%s")
		|> count()
		|> yield(name: "count")`

	flux = fmt.Sprintf(
		flux,
		t.Visits.Bucket,
		startDT.UTC().Format(time.RFC3339),
		articleID)

	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	result, err := t.Visits.QueryAPI.Query(ctx, flux)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	// nur 1 record
	var cnt int64
	for result.Next() {
		if v, ok := result.Record().Value().(int64); ok {
			cnt = v
		}
	}
	if result.Err() != nil {
		return 0, helpers.WrapError(result.Err(), helpers.FuncName())
	}

	return cnt, nil
}
