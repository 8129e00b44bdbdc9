// Package artifact implements destination resolution and retrieval for
// generated images.
//
// Retrieval for a task proceeds through a fixed sequence: fetch the task
// status and require terminal success, fetch again to extract the ordered
// artifact URL list (the two fetches are independent and uncached), resolve
// the caller's destination hints into a concrete directory (plus an optional
// filename for the first artifact), create that directory, then fetch and
// write each artifact in order with no concurrency between them.
//
// # Destination resolution
//
// ResolveTarget is a pure function over {save_path, base_dir, default save
// dir}. A save_path with an extension is treated as a file path: its parent
// becomes the directory and its base name applies to artifact 0 only. A bare
// filename resolves against base_dir. Anything else is treated as a
// directory. Every artifact past index 0 (and all artifacts when no override
// exists) is named {task_id}_{index}.png, which keeps names unique within a
// batch and makes repeated retrievals overwrite rather than duplicate.
//
// # Failure handling
//
// Directory creation happens before any artifact fetch; if it fails, zero
// network requests for artifacts are made. Per-artifact failures follow the
// retriever's Policy: FailFast aborts the batch (already-written files stay),
// BestEffort records the error and continues.
package artifact
