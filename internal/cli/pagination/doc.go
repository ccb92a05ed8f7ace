// Package pagination provides the sorting and windowing shared by list
// commands: sort expression parsing, limit/offset and page windows, and
// metadata for JSON output.
package pagination
