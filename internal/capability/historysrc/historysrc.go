// Package historysrc implements capability.HistorySource against a local
// git checkout by shelling out to the git binary, grounded on the
// teacher's internal/backends/git adapter (churn.go, history.go). Unified
// diff hunks are parsed with github.com/sourcegraph/go-diff rather than
// the teacher's manual numstat line-splitting, since that library is
// present in the retrieval pack and is a strictly better fit for turning
// diff text into per-file addition/deletion counts.
package historysrc

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"sort"
	"strings"
	"time"

	godiff "github.com/sourcegraph/go-diff/diff"

	"repogenome/internal/capability"
	"repogenome/internal/rgerrors"
)

// DefaultTimeout bounds every git subprocess invocation.
const DefaultTimeout = 5 * time.Second

// Git is a capability.HistorySource backed by the git CLI.
type Git struct {
	RepoRoot string
	Timeout  time.Duration
	Logger   capability.Logger
}

// New returns a Git history source rooted at repoRoot.
func New(repoRoot string, logger capability.Logger) *Git {
	return &Git{RepoRoot: repoRoot, Timeout: DefaultTimeout, Logger: logger}
}

// IsAvailable reports whether repoRoot is inside a git worktree.
func (g *Git) IsAvailable(ctx context.Context) bool {
	_, err := g.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// FileHistory returns up to limit commits touching relPath, newest first.
func (g *Git) FileHistory(ctx context.Context, relPath string, limit int) ([]capability.CommitInfo, error) {
	args := []string{"log", "--format=%H|%an|%aI", "--follow"}
	if limit > 0 {
		args = append(args, fmt.Sprintf("-n%d", limit))
	}
	args = append(args, "--", relPath)

	lines, err := g.runLines(ctx, args...)
	if err != nil {
		return nil, err
	}

	commits := make([]capability.CommitInfo, 0, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			continue
		}
		ts, _ := time.Parse(time.RFC3339, parts[2])
		commits = append(commits, capability.CommitInfo{Hash: parts[0], Author: parts[1], Timestamp: ts})
	}
	return commits, nil
}

// FileChurn returns aggregate churn metrics for relPath since a given
// RFC3339 timestamp or git-understood relative reference.
func (g *Git) FileChurn(ctx context.Context, relPath string, since string) (capability.ChurnMetrics, error) {
	args := []string{"log", "-p", "--format=commit|%H|%an|%aI"}
	if since != "" {
		args = append(args, "--since="+since)
	}
	args = append(args, "--", relPath)

	output, err := g.run(ctx, args...)
	if err != nil {
		return capability.ChurnMetrics{}, err
	}
	if strings.TrimSpace(output) == "" {
		return capability.ChurnMetrics{}, nil
	}

	authors := make(map[string]bool)
	var changeCount int
	var totalChanges int
	var lastModified time.Time

	for _, block := range splitCommitBlocks(output) {
		header, body := block.header, block.body
		parts := strings.SplitN(header, "|", 4)
		if len(parts) != 4 {
			continue
		}
		author := parts[2]
		ts, _ := time.Parse(time.RFC3339, parts[3])
		authors[author] = true
		changeCount++
		if ts.After(lastModified) {
			lastModified = ts
		}

		diffs, parseErr := godiff.ParseMultiFileDiff([]byte(body))
		if parseErr != nil {
			continue
		}
		for _, d := range diffs {
			for _, h := range d.Hunks {
				added, deleted := countHunkLines(h)
				totalChanges += added + deleted
			}
		}
	}

	avg := 0.0
	if changeCount > 0 {
		avg = float64(totalChanges) / float64(changeCount)
	}
	return capability.ChurnMetrics{
		ChangeCount:    changeCount,
		AuthorCount:    len(authors),
		LastModified:   lastModified,
		AverageChanges: avg,
	}, nil
}

// ChangedSince returns every file that changed since the given ref.
func (g *Git) ChangedSince(ctx context.Context, since string) ([]string, error) {
	args := []string{"log", "--name-only", "--format="}
	if since != "" {
		args = append(args, "--since="+since)
	}
	args = append(args, "HEAD")

	lines, err := g.runLines(ctx, args...)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	sort.Strings(out)
	return out, nil
}

// HotspotScore combines change frequency, author diversity, and average
// change size into a single [0, +inf) churn signal (spec §4.5 ChronoMap).
// Grounded on the teacher's GetFileChurn hotspot formula.
func HotspotScore(m capability.ChurnMetrics) float64 {
	if m.ChangeCount == 0 {
		return 0
	}
	return math.Sqrt(float64(m.ChangeCount)) *
		math.Log(float64(m.AuthorCount)+1) *
		math.Log(m.AverageChanges+1)
}

func countHunkLines(h *godiff.Hunk) (added, deleted int) {
	for _, line := range strings.Split(string(h.Body), "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			added++
		} else if strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---") {
			deleted++
		}
	}
	return added, deleted
}

type commitBlock struct {
	header string
	body   string
}

func splitCommitBlocks(output string) []commitBlock {
	lines := strings.Split(output, "\n")
	var blocks []commitBlock
	var cur *commitBlock
	var body strings.Builder
	flush := func() {
		if cur != nil {
			cur.body = body.String()
			blocks = append(blocks, *cur)
		}
		body.Reset()
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "commit|") {
			flush()
			cur = &commitBlock{header: line}
			continue
		}
		if cur != nil {
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	flush()
	return blocks
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	timeout := g.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "git", args...)
	cmd.Dir = g.RepoRoot
	out, err := cmd.Output()
	if err != nil {
		if cctx.Err() == context.DeadlineExceeded {
			return "", rgerrors.Wrap(rgerrors.Timeout, "git command timed out", err)
		}
		return "", rgerrors.Wrap(rgerrors.IoError, "git "+strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (g *Git) runLines(ctx context.Context, args ...string) ([]string, error) {
	out, err := g.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	raw := strings.Split(out, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines, nil
}
