// Package scan orchestrates a full compliance run: workspace discovery,
// per-workspace license resolution, merge, and evaluation.
package scan

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/licensegate/pkg/compliance"
	"github.com/fulmenhq/licensegate/pkg/config"
	"github.com/fulmenhq/licensegate/pkg/ignore"
	"github.com/fulmenhq/licensegate/pkg/logger"
	"github.com/fulmenhq/licensegate/pkg/npm"
	"github.com/fulmenhq/licensegate/pkg/workspace"
)

// Options configure one scan run.
type Options struct {
	// Root of the project tree to scan.
	Root string
	// ConfigPath overrides the default .licenserc.json lookup.
	ConfigPath string
	// ExcludeGlobs prune extra subtrees during discovery.
	ExcludeGlobs []string
	// IgnoreFile names a gitignore-syntax override file relative to Root.
	IgnoreFile string
	// UseGitignore layers the repo's standard git ignore files into pruning.
	UseGitignore bool
	// Concurrency bounds parallel workspace resolution; <=0 means NumCPU.
	Concurrency int
	// CheckRanges computes informational semver range advisories.
	CheckRanges bool
}

// Result is the outcome of one scan run. Report carries the compliance
// verdict; the remaining fields are run metadata outside the report shape.
type Result struct {
	Report          *compliance.Report  `json:"report" yaml:"report"`
	Workspaces      []string            `json:"workspaces" yaml:"workspaces"`
	RangeAdvisories []npm.RangeAdvisory `json:"rangeAdvisories,omitempty" yaml:"rangeAdvisories,omitempty"`
	Duration        time.Duration       `json:"duration" yaml:"duration"`

	// Packages is the merged, insertion-ordered set the report was
	// evaluated over. Kept for downstream consumers (SBOM export); not
	// part of the serialized result.
	Packages *compliance.PackageSet `json:"-" yaml:"-"`
}

// Run executes a scan. Workspaces resolve in parallel, but results merge in
// discovery order so reports are deterministic and repeated runs over the
// same tree are byte-identical. The only error path is context
// cancellation; filesystem trouble degrades to a smaller report.
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	cfg := config.Load(opts.ConfigPath)

	discoverOpts := workspace.Options{ExcludeGlobs: opts.ExcludeGlobs}
	if opts.IgnoreFile != "" || opts.UseGitignore {
		discoverOpts.Ignore = ignore.NewMatcher(opts.Root, opts.IgnoreFile, opts.UseGitignore)
	}
	workspaces := workspace.DiscoverWith(opts.Root, discoverOpts)
	logger.Debug("workspace discovery complete",
		logger.String("root", opts.Root),
		logger.Int("workspaces", len(workspaces)))

	sets := make([]*compliance.PackageSet, len(workspaces))
	advisories := make([][]npm.RangeAdvisory, len(workspaces))

	group, ctx := errgroup.WithContext(ctx)
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	group.SetLimit(limit)

	for i, ws := range workspaces {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sets[i] = npm.ResolveLicenses(ws)
			if opts.CheckRanges {
				advisories[i] = npm.RangeMismatches(ws)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	merged := compliance.NewPackageSet()
	for _, set := range sets {
		merged.Merge(set)
	}

	result := &Result{
		Report:     compliance.Evaluate(merged, cfg.AllowedLicenses),
		Workspaces: workspaces,
		Duration:   time.Since(start),
		Packages:   merged,
	}
	for _, a := range advisories {
		result.RangeAdvisories = append(result.RangeAdvisories, a...)
	}
	return result, nil
}
