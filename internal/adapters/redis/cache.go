package redis

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"kmfi/internal/ports"
	"kmfi/internal/scoring"
)

var regimes = []scoring.Regime{scoring.RegimeDashboard, scoring.RegimeIndex}

// ScoreCache stores cycle reports under kmfi:scores:<cycle>:<regime>. Reports
// are gob encoded so cached scores keep full precision; JSON output rounds.
type ScoreCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewScoreCache connects using a redis:// URL.
func NewScoreCache(url string, ttl time.Duration) (*ScoreCache, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, eris.Wrap(err, "redis: parse url")
	}
	return &ScoreCache{client: goredis.NewClient(opts), ttl: ttl}, nil
}

func key(cycleID string, regime scoring.Regime) string {
	return fmt.Sprintf("kmfi:scores:%s:%s", cycleID, regime)
}

func (c *ScoreCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *ScoreCache) Get(ctx context.Context, cycleID string, regime scoring.Regime) (ports.CycleReport, bool, error) {
	raw, err := c.client.Get(ctx, key(cycleID, regime)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ports.CycleReport{}, false, nil
	}
	if err != nil {
		return ports.CycleReport{}, false, eris.Wrap(err, "redis: get report")
	}
	report, err := decodeReport(raw)
	if err != nil {
		return ports.CycleReport{}, false, eris.Wrap(err, "redis: decode report")
	}
	return report, true, nil
}

func (c *ScoreCache) Put(ctx context.Context, report ports.CycleReport) error {
	raw, err := encodeReport(report)
	if err != nil {
		return eris.Wrap(err, "redis: encode report")
	}
	if err := c.client.Set(ctx, key(report.CycleID, report.Regime), raw, c.ttl).Err(); err != nil {
		return eris.Wrap(err, "redis: set report")
	}
	return nil
}

func (c *ScoreCache) Invalidate(ctx context.Context, cycleID string) error {
	keys := make([]string, 0, len(regimes))
	for _, r := range regimes {
		keys = append(keys, key(cycleID, r))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return eris.Wrapf(err, "redis: invalidate cycle %s", cycleID)
	}
	return nil
}

func (c *ScoreCache) Close() error { return c.client.Close() }

func encodeReport(report ports.CycleReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeReport restores a cached report. gob drops empty slices, so they are
// put back to keep the JSON shape identical to a fresh computation.
func decodeReport(raw []byte) (ports.CycleReport, error) {
	var report ports.CycleReport
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&report); err != nil {
		return ports.CycleReport{}, err
	}
	if report.Scores == nil {
		report.Scores = []scoring.CompanyScore{}
	}
	if report.Errors == nil {
		report.Errors = []ports.CompanyError{}
	}
	for i := range report.Scores {
		if report.Scores[i].Brands == nil {
			report.Scores[i].Brands = []scoring.BrandScore{}
		}
	}
	return report, nil
}
