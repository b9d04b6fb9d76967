// Package task holds the task record and the in-memory task store.
//
// A Task is identified twice: by a small monotonically increasing integer
// (what users type) and by a time-ordered UUID (stable across exports).
// Both are assigned by the Store at creation and never change.
//
//	{
//	  "id": 3,
//	  "uuid": "0190b6d2-5c1e-7a44-9f0e-3c2b1a9d8e7f",
//	  "title": "Water the plants",
//	  "completed": false,
//	  "tags": ["home"],
//	  "project": "chores",
//	  "due": "2024-06-01T00:00:00Z",
//	  "created_at": "2024-05-30T08:00:00Z",
//	  "updated_at": "2024-05-30T08:00:00Z"
//	}
//
// # Identifiers
//
// The store keeps a next-identifier counter that only moves forward.
// Identifiers are never reused within a store's lifetime, even after the
// task that held one is removed.
//
// # Persistence
//
// A Store may be backed by a Persister. Every mutation is computed on a
// copy, handed to the persister, and only committed in memory once the
// persister accepts it. A Store without a persister lives in memory only.
package task
