package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"medtriage/internal/risk"
)

const scorePrefix = "score:"

// ScoreCache caches risk-score results in redis. Scoring is a pure
// function of its inputs, so cached entries never go stale while the
// knowledge base is unchanged; the TTL bounds staleness across
// deployments.
type ScoreCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewScoreCache(rdb *redis.Client, ttl time.Duration) *ScoreCache {
	return &ScoreCache{rdb: rdb, ttl: ttl}
}

// Key builds a canonical cache key: order of symptoms and risk factors
// in the request must not change the key.
func Key(symptoms []string, riskFactors map[string]float64) string {
	sorted := append([]string(nil), symptoms...)
	sort.Strings(sorted)

	factors := make([]string, 0, len(riskFactors))
	for name, value := range riskFactors {
		factors = append(factors, fmt.Sprintf("%s=%g", name, value))
	}
	sort.Strings(factors)

	payload, _ := json.Marshal(struct {
		Symptoms []string `json:"symptoms"`
		Factors  []string `json:"factors"`
	}{sorted, factors})
	sum := sha256.Sum256(payload)
	return scorePrefix + hex.EncodeToString(sum[:])
}

// Get returns a cached result and whether it was present.
func (c *ScoreCache) Get(ctx context.Context, key string) (risk.Result, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return risk.Result{}, false
	}
	var res risk.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return risk.Result{}, false
	}
	return res, true
}

// Set stores a result; cache failures are not fatal to scoring.
func (c *ScoreCache) Set(ctx context.Context, key string, res risk.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}
