// Package server assembles the realmgate HTTP server: static content from
// the configured root, Basic auth middleware on every manifest realm prefix,
// a health endpoint and request logging. It owns the realm password store
// and wipes cached credentials during shutdown.
package server
