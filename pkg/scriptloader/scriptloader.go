// Package scriptloader resolves the identifiers a parsed script's
// ScriptName and Import statements name to files on disk, and walks the
// resulting Import graph. It performs exactly that lookup and nothing
// more: no symbol table, no type checking, no cross-file linking (spec
// §1 Non-goals continue to bind the parser itself) — it only tells a
// caller which file an identifier refers to, the same way
// ThrowScriptnameMismatch already compares a ScriptName against a
// filename case-insensitively.
//
// Grounded on the teacher's pkg/vclmod/include_walker.go: a
// visited-set-guarded recursive walk over a dependency graph, bounded
// by a depth limit against cycles.
package scriptloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/clayne/papyrus-parser/pkg/ast"
	"github.com/clayne/papyrus-parser/pkg/parser"
)

// Extension is the conventional Papyrus source file extension.
const Extension = ".psc"

// maxImportDepth bounds the Import walk against cyclic or runaway
// dependency chains, the way include_walker.go bounds VCL include depth.
const maxImportDepth = 64

// Loader resolves script identifiers against an ordered list of search
// directories: the first directory containing a matching file wins.
type Loader struct {
	dirs []string
}

// New creates a Loader that searches dirs in order.
func New(dirs []string) *Loader {
	return &Loader{dirs: append([]string(nil), dirs...)}
}

// Resolve finds the file implementing the script named name, matching
// the file's base name (without extension) case-insensitively against
// name, the same comparison parser.Options.ThrowScriptnameMismatch
// performs between a ScriptName and its own filename.
func (l *Loader) Resolve(name string) (string, error) {
	for _, dir := range l.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			if strings.EqualFold(base, name) && strings.EqualFold(filepath.Ext(entry.Name()), Extension) {
				return filepath.Join(dir, entry.Name()), nil
			}
		}
	}
	return "", fmt.Errorf("script %q not found in %d search director(y/ies)", name, len(l.dirs))
}

// Dependency is one script reached while walking an Import graph: its
// resolved path and its parsed Program.
type Dependency struct {
	Path    string
	Program *ast.Program
}

// WalkImports parses the script at entryPath and every script
// transitively reachable from its Import statements, using opts for
// every parse. Each distinct resolved path is parsed at most once;
// revisiting an already-parsed path (an import cycle, or a diamond
// dependency) is not an error, matching the teacher's "already
// processed, skip" handling of repeated VCL includes.
func (l *Loader) WalkImports(entryPath string, opts parser.Options) ([]Dependency, error) {
	w := &importWalker{loader: l, opts: opts, visited: make(map[string]bool)}
	if err := w.walk(entryPath, 0); err != nil {
		return nil, err
	}
	return w.deps, nil
}

type importWalker struct {
	loader  *Loader
	opts    parser.Options
	visited map[string]bool
	deps    []Dependency
}

func (w *importWalker) walk(path string, depth int) error {
	if depth >= maxImportDepth {
		return fmt.Errorf("maximum import depth (%d) exceeded at %s", maxImportDepth, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path %s: %w", path, err)
	}
	if w.visited[absPath] {
		return nil
	}
	w.visited[absPath] = true

	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("reading script %s: %w", path, err)
	}

	program, err := parser.ParseWithOptions(string(content), filepath.Base(absPath), w.opts)
	if err != nil {
		return fmt.Errorf("parsing script %s: %w", path, err)
	}

	w.deps = append(w.deps, Dependency{Path: absPath, Program: program})

	for _, node := range program.Body {
		imp, ok := node.(*ast.ImportStatement)
		if !ok {
			continue
		}
		importPath, err := w.loader.Resolve(imp.ID.Name)
		if err != nil {
			return fmt.Errorf("resolving import %q from %s: %w", imp.ID.Name, path, err)
		}
		if err := w.walk(importPath, depth+1); err != nil {
			return err
		}
	}

	return nil
}
