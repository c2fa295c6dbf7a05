/*
Package cache keeps recently computed schedules keyed by their inputs.

PURPOSE:
  A schedule is fully determined by its method and parameters, so repeated
  requests for the same loan can skip the computation. Long schedules in
  high precision mode are the expensive case.

KEYS:
  Key() hashes a canonical string of the inputs with xxhash. Parameters
  that do not affect the result are left out: Scale in native mode and
  Precision in high precision mode.

IMPLEMENTATIONS:
  Memory: Map with optional TTL (dev, tests)
  Redis:  Shared cache for several server instances

A cache failure is never fatal: Get reports a miss and the caller
computes the schedule as if the cache were empty.
*/
package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/warp/loan-schedule/loan"
)

// Cache stores schedules by key.
type Cache interface {
	Get(ctx context.Context, key string) (loan.Schedule, bool)
	Set(ctx context.Context, key string, s loan.Schedule) error
}

// Key returns the cache key for a method and parameter snapshot.
func Key(method loan.Method, p loan.Params) string {
	canonical := fmt.Sprintf("%s|%s|%s|%d", method, p.Capital.String(), p.Rate.String(), p.Periods)
	if p.HighPrecision {
		canonical += "|decimal|" + strconv.Itoa(int(p.Scale))
	} else {
		canonical += "|float|" + strconv.Itoa(int(p.Precision))
	}
	return "schedule:" + strconv.FormatUint(xxhash.Sum64String(canonical), 16)
}
