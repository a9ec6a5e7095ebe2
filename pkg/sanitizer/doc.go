// Package sanitizer normalizes free-text request fields before validation
// and storage.
//
// All functions are idempotent - applying them twice produces the same
// result - and handle invalid input by returning empty strings rather than
// errors. The booking core runs every caller-supplied label (titles, event
// type tags, notes) through this package so validation and persistence see
// canonical text.
package sanitizer
