package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/starforge/wanx-image-mcp/internal/dashscope"
)

// Policy controls what happens when a single artifact fetch or write fails
// partway through a batch.
type Policy int

const (
	// FailFast aborts the batch on the first artifact failure. Files already
	// written are left in place.
	FailFast Policy = iota

	// BestEffort records the per-artifact error and continues with the rest.
	BestEffort
)

// ParsePolicy maps a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "failfast", "":
		return FailFast, nil
	case "besteffort":
		return BestEffort, nil
	default:
		return FailFast, fmt.Errorf("unknown download policy %q", s)
	}
}

// Category classifies the terminal state of one retrieval call.
type Category int

const (
	// Complete means every requested artifact was fetched and written.
	Complete Category = iota

	// Incomplete means the task has not reached SUCCEEDED; the caller may
	// poll and retry. Not an error in form.
	Incomplete

	// NoArtifacts means the task succeeded but reported zero artifact URLs.
	NoArtifacts

	// DirCreateFailed means the resolved directory could not be created.
	// No artifact fetch was attempted.
	DirCreateFailed

	// DownloadFailed means at least one artifact fetch or write failed.
	// Under FailFast the batch stopped there; under BestEffort the remaining
	// artifacts were still attempted.
	DownloadFailed
)

// StatusFetcher fetches remote task state. *dashscope.Client satisfies it.
type StatusFetcher interface {
	GetTask(ctx context.Context, taskID string) (json.RawMessage, *dashscope.TaskEnvelope, error)
}

// Request is one retrieval invocation.
type Request struct {
	TaskID    string
	SavePath  string
	BaseDir   string
	Thumbnail bool
}

// Download records one persisted artifact.
type Download struct {
	URL     string `json:"url"`
	SavedTo string `json:"saved_to"`
}

// DownloadError records a per-artifact failure under BestEffort.
type DownloadError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// Result is the terminal outcome of one retrieval call.
type Result struct {
	Category  Category
	Message   string
	TaskID    string
	RawStatus json.RawMessage
	Downloads []Download
	Errors    []DownloadError
}

// Retriever resolves a destination and persists the artifacts of a completed
// generation task. Artifacts are fetched strictly in remote order, one in
// flight at a time.
type Retriever struct {
	status  StatusFetcher
	http    *http.Client
	policy  Policy
	saveDir string
	baseDir string
	log     zerolog.Logger
}

// NewRetriever wires a retriever against the given status source and
// process-wide default directories.
func NewRetriever(status StatusFetcher, policy Policy, saveDir, baseDir string, logger zerolog.Logger) *Retriever {
	return &Retriever{
		status:  status,
		http:    &http.Client{},
		policy:  policy,
		saveDir: saveDir,
		baseDir: baseDir,
		log:     logger,
	}
}

// Retrieve runs the full retrieval flow for one task: fetch status and
// validate terminal success, fetch status again for the artifact list,
// resolve the destination, create it, then fetch and write each artifact in
// order.
//
// Workflow outcomes (task not done, zero artifacts, directory creation
// failure, artifact failure) are reported through Result.Category rather than
// the error return; the error return is reserved for status-fetch failures,
// which the caller maps into its own fault taxonomy.
func (r *Retriever) Retrieve(ctx context.Context, req Request) (*Result, error) {
	raw, env, err := r.status.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	if env.Output.TaskStatus != dashscope.StatusSucceeded {
		return &Result{
			Category:  Incomplete,
			Message:   fmt.Sprintf("task %s is not complete (status: %s); poll and retry", req.TaskID, env.Output.TaskStatus),
			TaskID:    req.TaskID,
			RawStatus: raw,
		}, nil
	}

	// The artifact list comes from a second, independent fetch. The two
	// fetches are not transactionally linked and may observe different
	// remote states.
	if _, env, err = r.status.GetTask(ctx, req.TaskID); err != nil {
		return nil, err
	}

	if len(env.Output.Results) == 0 {
		return &Result{
			Category: NoArtifacts,
			Message:  fmt.Sprintf("task %s succeeded but returned no artifacts", req.TaskID),
			TaskID:   req.TaskID,
		}, nil
	}

	baseDir := req.BaseDir
	if baseDir == "" {
		baseDir = r.baseDir
	}
	target := ResolveTarget(req.SavePath, baseDir, r.saveDir)

	// The directory must exist before any artifact bytes move.
	if err := os.MkdirAll(target.Dir, 0o755); err != nil {
		return &Result{
			Category: DirCreateFailed,
			Message:  fmt.Sprintf("failed to create directory %s: %v", target.Dir, err),
			TaskID:   req.TaskID,
		}, nil
	}

	res := &Result{Category: Complete, TaskID: req.TaskID}
	for i, artifact := range env.Output.Results {
		name := artifactName(target.FilenameOverride, req.TaskID, i)
		dest := filepath.Join(target.Dir, name)

		if err := r.fetchOne(ctx, artifact.URL, dest); err != nil {
			r.log.Error().Err(err).Str("url", artifact.URL).Int("index", i).Msg("artifact download failed")
			res.Category = DownloadFailed
			res.Errors = append(res.Errors, DownloadError{URL: artifact.URL, Error: err.Error()})
			if r.policy == FailFast {
				res.Message = fmt.Sprintf("download of artifact %d failed: %v", i, err)
				return res, nil
			}
			continue
		}

		r.log.Info().Str("task_id", req.TaskID).Str("saved_to", dest).Msg("artifact saved")
		res.Downloads = append(res.Downloads, Download{URL: artifact.URL, SavedTo: dest})

		if req.Thumbnail {
			r.writeThumbnail(dest)
		}
	}

	switch res.Category {
	case Complete:
		res.Message = fmt.Sprintf("downloaded %d image(s)", len(res.Downloads))
	case DownloadFailed:
		res.Message = fmt.Sprintf("downloaded %d of %d image(s); %d failed",
			len(res.Downloads), len(env.Output.Results), len(res.Errors))
	}
	return res, nil
}

// fetchOne downloads a single artifact and writes it to dest, overwriting any
// existing file at that path.
func (r *Retriever) fetchOne(ctx context.Context, url, dest string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch failed with status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// writeThumbnail saves a small preview next to an already-persisted artifact.
// Failures are logged and swallowed: the artifact itself is on disk and a
// missing preview should not fail the batch.
func (r *Retriever) writeThumbnail(artifactPath string) {
	img, err := imaging.Open(artifactPath)
	if err != nil {
		r.log.Warn().Err(err).Str("path", artifactPath).Msg("thumbnail skipped: decode failed")
		return
	}

	thumb := imaging.Fit(img, 256, 256, imaging.Lanczos)
	thumbPath := thumbnailPath(artifactPath)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		r.log.Warn().Err(err).Str("path", thumbPath).Msg("thumbnail skipped: save failed")
		return
	}

	r.log.Debug().Str("path", thumbPath).Msg("thumbnail saved")
}

// thumbnailPath derives the preview filename: <stem>_thumb.png beside the
// artifact.
func thumbnailPath(artifactPath string) string {
	stem := strings.TrimSuffix(artifactPath, filepath.Ext(artifactPath))
	return stem + "_thumb.png"
}
