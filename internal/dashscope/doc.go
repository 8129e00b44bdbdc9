// Package dashscope is a minimal client for the DashScope asynchronous
// text-to-image API.
//
// The API is task-based: a submission returns a task identifier immediately,
// and the caller polls the task endpoint until it reaches a terminal state.
// Both calls return the remote response body unmodified so tool callers see
// exactly what the service said; GetTask additionally parses the fields the
// retrieval flow needs (task_status and the artifact URL list).
//
// Non-2xx responses become *APIError values carrying the remote error body.
// Transport failures are wrapped and returned as ordinary errors.
package dashscope
