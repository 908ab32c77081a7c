// Package redis stores sessions in Redis and coordinates replicas with a
// Redis-based distributed lock.
package redis
