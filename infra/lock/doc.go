// Package lock provides per-charger lockers used by the booking service to
// serialize check-and-commit: LocalLocker for a single process and
// RedisLocker for several processes sharing one reservation store.
package lock
