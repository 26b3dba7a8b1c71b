package database

import (
	"context"
	"errors"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
)

// InfluxAPI bundles the APIs of one bucket
type InfluxAPI struct {
	WriteAPI api.WriteAPIBlocking
	QueryAPI api.QueryAPI
	Bucket   string
}

// OpenInfluxConnection pools the connection to the analytics store
func OpenInfluxConnection(ctx context.Context, url string, token string) (influxdb2.Client, error) {
	client := influxdb2.NewClient(url, token)
	client.Options().SetPrecision(time.Second)

	ctx, cancel := Timeout(ctx)
	defer cancel()

	ready, err := client.Ready(ctx)
	if err != nil {
		client.Close()
		return nil, err
	}
	if !ready {
		client.Close()
		return nil, errors.New("analytics store not ready")
	}

	return client, nil
}

// NewInfluxAPI prepares the blocking writer and the query API of a bucket
func NewInfluxAPI(client influxdb2.Client, org string, bucket string) InfluxAPI {
	return InfluxAPI{
		WriteAPI: client.WriteAPIBlocking(org, bucket),
		QueryAPI: client.QueryAPI(org),
		Bucket:   bucket,
	}
}
