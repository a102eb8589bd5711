// Package cache provides a keyed cache with lazy single-flight construction,
// TTL-bounded reuse and reference-counted teardown via a destroy callback.
package cache
