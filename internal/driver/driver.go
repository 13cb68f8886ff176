// Package driver owns the boundary effects around a naming pass: reading
// the declaration graph into memory, invoking the engine's synchronous
// passes, and persisting the mutated graph back. Everything between those
// two effects is pure and in-memory.
package driver

import (
	"context"
	"fmt"

	"github.com/cfnamer/cfnamer/internal/config"
	"github.com/cfnamer/cfnamer/internal/engine"
	"github.com/cfnamer/cfnamer/internal/manifest"
	"github.com/cfnamer/cfnamer/internal/template"
)

// Driver runs complete naming passes over template files.
type Driver struct {
	namer    *engine.Namer
	manifest *manifest.Store // optional audit trail
}

// New creates a driver. manifest may be nil to skip audit recording.
func New(namer *engine.Namer, m *manifest.Store) *Driver {
	return &Driver{namer: namer, manifest: m}
}

// Options configures a single run.
type Options struct {
	// TemplatePath is the template to name.
	TemplatePath string

	// PriorPath, when set, is a previously materialized template whose
	// resource names win over freshly synthesized ones.
	PriorPath string

	// OutputPath receives the mutated template. Defaults to
	// TemplatePath (in-place rewrite).
	OutputPath string

	// Config is the resolved pass configuration.
	Config config.Config
}

// Result summarizes a run.
type Result struct {
	Resources  int    `json:"resources"`
	Named      int    `json:"named"`
	Kept       int    `json:"kept"`
	OutputPath string `json:"output"`
	RunID      string `json:"run_id,omitempty"`
}

// Run loads the template, applies the resource, policy-label, and export
// passes in order, and writes the result. The engine's fatal errors
// propagate unchanged so callers can inspect their codes.
func (d *Driver) Run(ctx context.Context, opts Options) (*Result, error) {
	tpl, err := template.Load(opts.TemplatePath)
	if err != nil {
		return nil, err
	}

	var prior map[string]*template.Resource
	if opts.PriorPath != "" {
		priorTpl, err := template.Load(opts.PriorPath)
		if err != nil {
			return nil, fmt.Errorf("loading prior template: %w", err)
		}
		prior = priorTpl.Resources
	}

	res := &Result{Resources: len(tpl.Resources)}
	var runID string
	if d.manifest != nil {
		runID, err = d.manifest.BeginRun(ctx, opts.TemplatePath, opts.Config.Prefix)
		if err != nil {
			return nil, err
		}
	}

	var recordErr error
	d.namer.OnRecord(func(rec engine.Record) {
		if rec.Kept {
			res.Kept++
		} else {
			res.Named++
		}
		if d.manifest != nil && recordErr == nil {
			recordErr = d.manifest.WriteName(ctx, runID, rec)
		}
	})
	defer d.namer.OnRecord(nil)

	if err := d.namer.ApplyResources(tpl.Resources, prior, opts.Config); err != nil {
		return nil, err
	}
	d.namer.ApplyPolicyNames(tpl.Resources)
	if err := d.namer.ApplyExports(tpl.Outputs, opts.Config); err != nil {
		return nil, err
	}
	if recordErr != nil {
		return nil, recordErr
	}

	out := opts.OutputPath
	if out == "" {
		out = opts.TemplatePath
	}
	if err := template.Save(out, tpl); err != nil {
		return nil, err
	}

	res.OutputPath = out
	res.RunID = runID
	return res, nil
}

// DryRun loads the template and applies all passes in memory without
// writing anything. Used by validation to report what a real run would
// do.
func (d *Driver) DryRun(ctx context.Context, opts Options) (*template.Template, *Result, error) {
	tpl, err := template.Load(opts.TemplatePath)
	if err != nil {
		return nil, nil, err
	}

	res := &Result{Resources: len(tpl.Resources)}
	d.namer.OnRecord(func(rec engine.Record) {
		if rec.Kept {
			res.Kept++
		} else {
			res.Named++
		}
	})
	defer d.namer.OnRecord(nil)

	if err := d.namer.ApplyResources(tpl.Resources, nil, opts.Config); err != nil {
		return nil, nil, err
	}
	d.namer.ApplyPolicyNames(tpl.Resources)
	if err := d.namer.ApplyExports(tpl.Outputs, opts.Config); err != nil {
		return nil, nil, err
	}
	return tpl, res, nil
}
