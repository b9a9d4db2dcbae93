// Package logclient is the viewer's HTTP client for the daylog API.
// Responses are parsed with a pooled fastjson parser.
package logclient
