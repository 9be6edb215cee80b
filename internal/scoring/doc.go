// Package scoring derives engagement metrics from raw profile data, scores
// profiles for relevance and ranks them.
//
// Every function here is pure and total: no I/O, no shared state, and no input
// makes them fail. The clock used for recency is injected through the Engine.
package scoring
