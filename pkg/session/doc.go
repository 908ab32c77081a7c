/*
Package session implements session management and persistence orchestration.

A Manager owns the single-writer rule for every stored session: the load,
dispatch and save of one action happen under that session's lock, locally
through reference-counted mutexes and across replicas through an optional
ports.DistributedLocker. Committed changes are published as
domain.StateDiff values for live clients.
*/
package session
