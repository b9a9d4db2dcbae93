// Package api serves the log store over HTTP.
//
// Routes:
//
//	GET /logs          partition identifiers, most recent first
//	GET /logs/today    tail of today's partition
//	GET /logs/{date}   tail of the named partition
//	GET /healthz       swallowed write/sweep fault counters
//
// Reads accept ?lines=N (default and ceiling come from the store). Every
// response uses the envelope {success, data, levels, partition, message}.
// levels[i] is the level of data[i] so clients never parse line text.
//
// Every request is recorded in the store as a request-level record, tagged
// with an X-Request-ID and gzip-compressed when the client accepts it. When a
// token hash is configured, /logs routes require "Authorization: Bearer".
package api
