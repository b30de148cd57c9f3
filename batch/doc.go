// Package batch runs reference extraction over many documents in parallel.
//
// A Runner extracts each Document with a bounded number of workers and
// returns one Result per document in input order. Failures are recorded on
// the Result, so one bad base URL does not stop the batch; only context
// cancellation makes Run return an error.
//
// Seen is the crawl-wide set a caller uses to decide which discovered URLs
// still need fetching.
package batch
