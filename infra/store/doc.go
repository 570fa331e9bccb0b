// Package store provides the persistent backends: reservation stores for
// SQLite (modernc.org/sqlite) and PostgreSQL (pgx), registered with the
// booking factory as "sqlite" and "postgres", and the simulation run logs
// (rotating JSONL and SQLite).
package store
