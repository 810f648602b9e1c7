// Package sampler reads the leading rows of a large remote delimited-text
// file using byte range requests, without downloading the whole file.
package sampler

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	// Packages
	catalog "github.com/mutablelogic/go-catalog"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	prometheus "github.com/prometheus/client_golang/prometheus"
	promauto "github.com/prometheus/client_golang/prometheus/promauto"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Lines fetched beyond the requested rows, so that the last row is not
	// cut short
	extraLines = 3
)

var (
	reContentRange = regexp.MustCompile(`^(\w+) ((\d+)-(\d+)|\*)\/(\d+|\*)$`)
)

var (
	samplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_sampler_samples_total",
		Help: "The total number of remote files sampled",
	})
	chunksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_sampler_chunks_total",
		Help: "The total number of range requests made by the sampler",
	})
	bytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_sampler_bytes_total",
		Help: "The total number of bytes read by the sampler",
	})
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// SampleRemoteRows returns up to maxRows rows from the start of a remote file.
// Chunks of chunk bytes are fetched in sequence while the file size is known,
// the end of the file has not been reached, and fewer than maxRows+3 lines have
// been read. The result is complete when every line was read or the file fits
// into a single chunk, and in that case it is not truncated.
func SampleRemoteRows(ctx context.Context, fetcher catalog.Fetcher, url string, maxRows int, chunk int64, token string) (*schema.SampleResult, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("missing fetcher")
	} else if chunk <= 0 {
		return nil, fmt.Errorf("invalid chunk size: %d", chunk)
	} else if maxRows < 0 {
		return nil, fmt.Errorf("invalid number of rows: %d", maxRows)
	}

	var text strings.Builder
	var offset int64
	size, lines := int64(-1), -1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := offset * chunk
		response, err := fetcher.FetchRange(ctx, url, start, start+chunk-1, token)
		if err != nil {
			return nil, err
		}
		chunksTotal.Inc()
		bytesTotal.Add(float64(len(response.Body)))

		if header := response.Header.Get(schema.ContentRangeHeader); header != "" {
			if r := ParseContentRange(header); r != nil && r.Size != nil {
				size = *r.Size
			}
		}

		text.Write(response.Body)
		offset++
		lines = strings.Count(text.String(), "\n") + 1
		if !(offset*chunk < size && lines <= maxRows+extraLines && size != -1) {
			break
		}
	}

	rows, err := Parse(FilterRepeated(text.String()))
	if err != nil {
		return nil, err
	}
	samplesTotal.Inc()

	result := &schema.SampleResult{
		Data:         rows,
		IsEntireFile: lines <= maxRows || size <= chunk,
	}
	if !result.IsEntireFile && len(result.Data) > maxRows {
		result.Data = result.Data[:maxRows]
	}
	return result, nil
}

// ParseContentRange parses a Content-Range header such as "bytes 0-499/1234".
// It returns nil when the header does not match, or when start, end and size
// are all "*".
func ParseContentRange(v string) *schema.ContentRange {
	matches := reContentRange.FindStringSubmatch(v)
	if matches == nil {
		return nil
	}
	r := &schema.ContentRange{
		Unit:  matches[1],
		Start: parseInt(matches[3]),
		End:   parseInt(matches[4]),
		Size:  parseInt(matches[5]),
	}
	if r.Start == nil && r.End == nil && r.Size == nil {
		return nil
	}
	return r
}

// RangeHeader returns the value of the Range header for bytes [start, end]
func RangeHeader(start, end int64) string {
	return "bytes=" + strconv.FormatInt(start, 10) + "-" + strconv.FormatInt(end, 10)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// parseInt returns nil for "*" or an empty match
func parseInt(v string) *int64 {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return &n
	}
	return nil
}
