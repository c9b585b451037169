// Package pipeline turns register map files into generated SystemVerilog:
// one RTL module and one RAL package per register block.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"svreg/internal/component"
	"svreg/internal/diag"
	"svreg/internal/observ"
	"svreg/internal/outcache"
	"svreg/internal/ral"
	"svreg/internal/regmap"
	"svreg/internal/rtl"
	"svreg/internal/trace"
)

// Request configures one generation run.
type Request struct {
	// MapFiles are the register map files, loaded in order.
	MapFiles []string
	Config   regmap.Configuration
	Enabled  component.EnabledSet
	// OutputDir receives <block>.sv and <block>_ral_pkg.sv. Nothing is
	// written when it is empty.
	OutputDir string
	// Jobs bounds concurrent block generation; 0 means GOMAXPROCS.
	Jobs           int
	MaxDiagnostics int
	// Cache skips rewriting unchanged files; nil always writes.
	Cache    *outcache.Cache
	Progress ProgressSink
	Timer    *observ.Timer
}

// Artifact is one generated file.
type Artifact struct {
	Path    string
	Content string
	Written bool
}

// BlockResult is the outcome for one register block.
type BlockResult struct {
	Block  *regmap.RegisterBlock
	Source string
	RTL    Artifact
	RAL    *Artifact
	Err    error
}

// Result captures every block in input order.
type Result struct {
	Blocks  []BlockResult
	Bag     *diag.Bag
	Timings Timings
}

// ErrFailed is returned when at least one diagnostic has error severity.
var ErrFailed = errors.New("generation failed")

type loaded struct {
	block  *regmap.RegisterBlock
	source string
}

// Run loads every map, generates each block concurrently and writes the
// outputs. Block failures are collected in Result.Bag; the returned error
// is ErrFailed in that case, or the context error on cancellation.
func Run(ctx context.Context, req *Request) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return nil, fmt.Errorf("missing generation request")
	}
	res := &Result{Bag: diag.NewBag(max(req.MaxDiagnostics, 100))}
	tracer := trace.FromContext(ctx)

	ctx, driverSpan := trace.StartSpan(ctx, trace.ScopeDriver, "generate")
	defer driverSpan.End("")

	rtlRegistry, ralRegistry := rtl.NewRegistry(), ral.NewRegistry()
	if err := validateFeatures(req.Enabled, rtlRegistry, ralRegistry); err != nil {
		res.Bag.AddError(err, "features")
		return res, ErrFailed
	}

	blocks := load(ctx, req, res)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	withRAL := ralRegistry.AnyEnabled(req.Enabled)
	res.Blocks = make([]BlockResult, len(blocks))
	for _, b := range blocks {
		emit(req.Progress, b.block.Name, StageRTL, StatusQueued, nil, 0)
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	var timingsMu sync.Mutex
	addTiming := func(stage Stage, d time.Duration) {
		timingsMu.Lock()
		res.Timings.Add(stage, d)
		timingsMu.Unlock()
	}

	genPhase := req.Timer.Begin("generate")
	genCtx, genSpan := trace.StartSpan(ctx, trace.ScopeStage, "generate")
	g, gctx := errgroup.WithContext(genCtx)
	g.SetLimit(max(1, min(jobs, len(blocks))))
	for i, b := range blocks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Results are indexed by position; each goroutine owns its slot.
			res.Blocks[i] = generateBlock(gctx, req, b, withRAL, addTiming)
			return nil
		})
	}
	waitErr := g.Wait()
	genSpan.WithExtra("blocks", strconv.Itoa(len(blocks))).End("")
	req.Timer.End(genPhase, strconv.Itoa(len(blocks))+" blocks")

	for _, br := range res.Blocks {
		if br.Err != nil {
			res.Bag.AddJoined(br.Err, br.Block.Name)
		}
	}
	if waitErr != nil {
		return res, waitErr
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if res.Bag.HasErrors() {
		trace.Point(tracer, trace.ScopeDriver, "failed", strconv.Itoa(res.Bag.Len())+" diagnostics", driverSpan.ID())
		emit(req.Progress, "", StageWrite, StatusError, ErrFailed, 0)
		return res, ErrFailed
	}
	emit(req.Progress, "", StageWrite, StatusDone, nil, 0)
	return res, nil
}

func validateFeatures(enabled component.EnabledSet, registries ...*component.Registry) error {
	var errs []error
	for _, id := range enabled.IDs() {
		known := false
		for _, r := range registries {
			known = known || r.Known(id)
		}
		if !known {
			errs = append(errs, diag.Configf(diag.CfgUnknownFeature, "features", "unknown feature: %s", id))
		}
	}
	return errors.Join(errs...)
}

// load reads every map file. Failing files and blocks are reported and
// dropped; the remaining blocks are still generated.
func load(ctx context.Context, req *Request, res *Result) []loaded {
	phase := req.Timer.Begin("load")
	_, span := trace.StartSpan(ctx, trace.ScopeStage, "load")
	start := time.Now()
	emit(req.Progress, "", StageLoad, StatusWorking, nil, 0)

	var out []loaded
	seen := make(map[string]string)
	for _, path := range req.MapFiles {
		if ctx.Err() != nil {
			break
		}
		blocks, err := regmap.LoadFile(path, req.Config)
		res.Bag.AddJoined(err, path)
		for _, b := range blocks {
			if prev, dup := seen[b.Name]; dup {
				d := diag.FromError(diag.Configf(diag.CfgDuplicateName, b.Name, "register block is defined more than once"), path)
				res.Bag.Add(d.WithNote("first defined in " + prev))
				continue
			}
			seen[b.Name] = path
			out = append(out, loaded{block: b, source: path})
		}
	}

	elapsed := time.Since(start)
	res.Timings.Add(StageLoad, elapsed)
	emit(req.Progress, "", StageLoad, StatusDone, nil, elapsed)
	span.WithExtra("files", strconv.Itoa(len(req.MapFiles))).End("")
	req.Timer.End(phase, fmt.Sprintf("%d files, %d blocks", len(req.MapFiles), len(out)))
	return out
}

func generateBlock(ctx context.Context, req *Request, b loaded, withRAL bool, addTiming func(Stage, time.Duration)) BlockResult {
	name := b.block.Name
	ctx, span := trace.StartSpan(ctx, trace.ScopeBlock, "block:"+name)
	br := BlockResult{Block: b.block, Source: b.source}
	defer func() {
		detail := "ok"
		if br.Err != nil {
			detail = "error"
		}
		span.End(detail)
	}()

	step := func(stage Stage, fn func() error) bool {
		_, s := trace.StartSpan(ctx, trace.ScopeFeature, string(stage)+":"+name)
		emit(req.Progress, name, stage, StatusWorking, nil, 0)
		start := time.Now()
		err := fn()
		elapsed := time.Since(start)
		s.End("")
		addTiming(stage, elapsed)
		if err != nil {
			br.Err = err
			emit(req.Progress, name, stage, StatusError, err, elapsed)
			return false
		}
		return true
	}

	ok := step(StageRTL, func() error {
		text, err := rtl.Generate(b.block, req.Enabled)
		br.RTL = Artifact{Path: filepath.Join(req.OutputDir, name+".sv"), Content: text}
		return err
	})
	if ok && withRAL {
		ok = step(StageRAL, func() error {
			text, err := ral.Generate(b.block, req.Enabled)
			br.RAL = &Artifact{Path: filepath.Join(req.OutputDir, ral.PackageName(b.block)+".sv"), Content: text}
			return err
		})
	}
	if ok && req.OutputDir != "" {
		ok = step(StageWrite, func() error {
			if err := write(ctx, req.Cache, name, &br.RTL); err != nil {
				return err
			}
			if br.RAL != nil {
				return write(ctx, req.Cache, name, br.RAL)
			}
			return nil
		})
	}
	if ok {
		emit(req.Progress, name, StageWrite, StatusDone, nil, 0)
	}
	return br
}

func write(ctx context.Context, cache *outcache.Cache, block string, a *Artifact) error {
	written, err := cache.WriteFile(ctx, a.Path, block, []byte(a.Content))
	if err != nil {
		return &diag.IOError{Code: diag.IOWriteError, Path: a.Path, Err: err}
	}
	a.Written = written
	return nil
}
