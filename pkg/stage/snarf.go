package stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cuemby/warren-jepsen/pkg/log"
	"github.com/cuemby/warren-jepsen/pkg/parallel"
	"github.com/cuemby/warren-jepsen/pkg/remote"
)

// Snarf downloads every log file the DB advertises on every node into
// destDir/<node>/<suffix>, where suffix is each path's shortest unique
// suffix relative to its sibling paths on that node: flat enough to avoid
// deep directory trees, unique enough to avoid collisions. Nodes are
// collected in parallel, files within one node sequentially. A node with no
// open session is skipped rather than failing the whole snarf; the log
// collector runs best-effort, both on the emergency path and at normal
// case end.
func Snarf(ctx context.Context, nodes []string, logFiles func(ctx context.Context, node string) ([]string, error), sessions map[string]remote.Session, destDir string) error {
	return parallel.Do(nodes, func(node string) error {
		sess, ok := sessions[node]
		if !ok {
			return nil
		}
		return snarfNode(ctx, node, logFiles, sess, destDir)
	})
}

// snarfNode collects one node's worth of log files, sequentially within the
// node so downloads over the same session never interleave.
func snarfNode(ctx context.Context, node string, logFiles func(ctx context.Context, node string) ([]string, error), sess remote.Session, destDir string) error {
	logger := log.WithNode("snarf", node)

	paths, err := logFiles(ctx, node)
	if err != nil {
		return fmt.Errorf("listing log files on %q: %w", node, err)
	}
	if len(paths) == 0 {
		return nil
	}

	suffixes := shortestUniqueSuffixes(paths)
	nodeDir := filepath.Join(destDir, node)

	for i, remotePath := range paths {
		localPath := filepath.Join(nodeDir, suffixes[i])
		if err := sess.Download(ctx, remotePath, localPath); err != nil {
			if isBenignSnarfError(err) {
				logger.Warn().Err(err).Str("path", remotePath).
					Msg("log file vanished during snarf; tolerated")
				continue
			}
			return fmt.Errorf("downloading %q from %q: %w", remotePath, node, err)
		}
	}
	return nil
}

// isBenignSnarfError reports whether err reflects a file that simply
// disappeared out from under the snarf (a losing race with teardown or a
// nemesis that deleted data files) rather than a real transport failure.
func isBenignSnarfError(err error) bool {
	if os.IsNotExist(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, benign := range []string{"pipe closed", "does not exist", "no such file"} {
		if strings.Contains(msg, benign) {
			return true
		}
	}
	return false
}

// shortestUniqueSuffixes strips the longest common leading-directory prefix
// shared by every path in paths (never consuming a path's own final
// component) and joins what remains with "__", so sibling log files that
// live under deep, mostly-shared directories end up as short, flat, and
// distinct names.
func shortestUniqueSuffixes(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	if len(paths) == 1 {
		return []string{filepath.Base(paths[0])}
	}

	split := make([][]string, len(paths))
	minLen := -1
	for i, p := range paths {
		parts := strings.Split(filepath.Clean(p), string(filepath.Separator))
		split[i] = parts
		if minLen == -1 || len(parts) < minLen {
			minLen = len(parts)
		}
	}

	common := 0
	for common < minLen-1 {
		seg := split[0][common]
		same := true
		for _, parts := range split[1:] {
			if parts[common] != seg {
				same = false
				break
			}
		}
		if !same {
			break
		}
		common++
	}

	out := make([]string, len(paths))
	for i, parts := range split {
		out[i] = strings.Join(parts[common:], "__")
	}
	return out
}
