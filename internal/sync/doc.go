// Package sync pushes modified items to a remote catalog instance.
//
// Synchronization is a one-way push. Every item carries two counters:
//
//   - version: incremented by the store on every save
//   - syncVersion: the version last accepted by the remote instance
//
// An item needs a push while syncVersion is unset or lower than version.
// A push packages the item as a single-item archive (see package exchange)
// and posts it to
//
//	POST {remoteServer}/api/item/import/{apiToken}
//
// The remote instance imports the archive, overwriting its copy of the item.
//
// # Components
//
//   - Gateway: packages and posts one item
//   - UploadProcessor: the batch processor behind UPLOAD_MODIFIED_ITEM runs
//   - UploadService: pushes a single item on request
//   - Scheduler: submits UPLOAD_MODIFIED_ITEM runs on a jittered interval
//
// A failed push leaves syncVersion untouched so the next run selects the item
// again. Nothing is retried automatically within a run.
package sync
