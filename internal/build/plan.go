package build

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	mapset "github.com/deckarep/golang-set/v2"

	"git.home.luguber.info/inful/pagebuild/internal/assetsync"
	"git.home.luguber.info/inful/pagebuild/internal/config"
)

// StylesheetsDir is the directory stylesheets are read from (under the
// resources dir) and written to (under the output dir).
const StylesheetsDir = "stylesheets"

// Plan is the list of sync tasks for a build.
type Plan struct {
	Tasks []assetsync.Task

	// Rejected holds names that would resolve outside their root.
	Rejected []string
}

// PlanAssets turns the manifest's stylesheet names, the favicon and the
// static globs into sync tasks. Each destination appears at most once; the
// first task claiming it wins.
func PlanAssets(cfg *config.Config, stylesheets []string) (*Plan, error) {
	plan := &Plan{}
	seen := mapset.NewThreadUnsafeSet[string]()

	add := func(rel, dstRel string) {
		if !filepath.IsLocal(rel) || !filepath.IsLocal(dstRel) {
			plan.Rejected = append(plan.Rejected, rel)
			return
		}
		task := assetsync.Task{
			Source:      filepath.Join(cfg.ResourcesDir, rel),
			Destination: filepath.Join(cfg.OutputDir, dstRel),
		}
		if seen.Add(filepath.Clean(task.Destination)) {
			plan.Tasks = append(plan.Tasks, task)
		}
	}

	for _, name := range stylesheets {
		rel := filepath.Join(StylesheetsDir, filepath.FromSlash(name))
		add(rel, rel)
	}

	if cfg.Favicon != "" {
		favicon := filepath.FromSlash(cfg.Favicon)
		add(favicon, filepath.Base(favicon))
	}

	if len(cfg.Static) > 0 {
		matches, err := globStatic(cfg.ResourcesDir, cfg.Static)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(m, m)
		}
	}

	return plan, nil
}

// globStatic expands the doublestar patterns against the resources dir and
// returns file paths relative to it. A missing resources dir yields no matches.
func globStatic(root string, patterns []string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}
	fsys := os.DirFS(root)

	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand static pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !fs.ValidPath(m) {
				continue
			}
			out = append(out, filepath.FromSlash(m))
		}
	}
	return out, nil
}
