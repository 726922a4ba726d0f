// Package sanitizer normalizes free-text request fields before validation
// and storage.
//
// All functions are idempotent and never fail: invalid input is reduced to
// the closest clean value, usually the empty string.
package sanitizer
