/*
Package ports defines the driven ports (interfaces) of the gift engine.

These interfaces decouple session handling from concrete storage and
transport, so the same editor core can run as a CLI over local files or as
a replicated server backed by Redis.

# Key Interfaces

  - SnapshotStore: persists sessions (the exported snapshot plus metadata).
  - DistributedLocker: serialises access to one session across replicas.
  - Dispatcher: turns a snapshot and an action into the next snapshot.
*/
package ports
