package isocat

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner invokes the external graph generator and subgraph matcher. Exchange
// files live in a scratch directory and are removed on every exit path; each
// invocation can be bounded by a timeout, with zero meaning unbounded.
type Runner struct {
	GengPath    string
	MatcherPath string
	ScratchDir  string
	Timeout     time.Duration
	log         *zap.Logger
}

// NewRunner returns a runner for the given executables. An empty scratch
// directory falls back to the system temp dir.
func NewRunner(gengPath, matcherPath, scratchDir string, timeout time.Duration, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &Runner{
		GengPath:    gengPath,
		MatcherPath: matcherPath,
		ScratchDir:  scratchDir,
		Timeout:     timeout,
		log:         log,
	}
}

// withTimeout derives the invocation context.
func (r *Runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}

// GenerateGraphs runs the generator for the given vertex count and degree
// bounds and decodes its output, one candidate skeleton per line.
func (r *Runner) GenerateGraphs(ctx context.Context, n, minDeg, maxDeg int) ([]Graph, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.GengPath,
		"-d"+strconv.Itoa(minDeg),
		"-D"+strconv.Itoa(maxDeg),
		"-q",
		strconv.Itoa(n),
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running generator for n=%d: %w", n, err)
	}

	var graphs []Graph
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		g, err := DecodeGraph6(line)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading generator output: %w", err)
	}
	return graphs, nil
}

// MatchMonomorphisms runs the matcher in monomorphism mode with the
// candidate skeleton as the pattern and the template as the reference, and
// returns every skeleton-to-template vertex mapping it reports. Exchange
// files are uniquely named so concurrent catalog builds against the same
// scratch dir cannot collide.
func (r *Runner) MatchMonomorphisms(ctx context.Context, t Template, g Graph) ([]map[int]int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	refPath := filepath.Join(r.ScratchDir, "ref-"+uuid.NewString()+".gfu")
	queryPath := filepath.Join(r.ScratchDir, "query-"+uuid.NewString()+".gfu")
	if err := os.WriteFile(refPath, []byte(encodeTemplateGFU(t)), 0o644); err != nil {
		return nil, fmt.Errorf("writing reference exchange file: %w", err)
	}
	defer os.Remove(refPath)
	if err := os.WriteFile(queryPath, []byte(encodeGraphGFU(g)), 0o644); err != nil {
		return nil, fmt.Errorf("writing query exchange file: %w", err)
	}
	defer os.Remove(queryPath)

	cmd := exec.CommandContext(ctx, r.MatcherPath, "mono", "gfu", refPath, queryPath)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running matcher for %s: %w", g.Encoding, err)
	}

	var mappings []map[int]int
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m, ok := parseMapping(scanner.Text())
		if !ok {
			// Matchers emit summary lines alongside mappings.
			continue
		}
		mappings = append(mappings, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading matcher output: %w", err)
	}
	return mappings, nil
}
