// Package publish applies a draft to the published site.
//
// Publishing is a transaction: under a file lock the note index and the
// aggregate state are snapshotted, mutated, and written atomically, then
// the git commit and push run. If the git transaction fails, the index and
// state are restored from the snapshots so the local files never claim a
// publish the remote does not have.
package publish
