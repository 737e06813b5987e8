// Package checker implements the build-time half of the staticonce
// exactly-once contract: a syntactic scan of Go source for sanctioned
// initialization call sites (once.Init, once.Bind).
//
// The scan enforces single-call-site discipline: every storage cell may be
// claimed from at most one compiled call site across the scanned program.
// It also flags claims that sit inside a loop, because a single compiled
// call site reached repeatedly at runtime passes the call-site rule and
// still trips the runtime one-shot guard.
//
// The checker works on syntax alone, without type information. Resolution
// of the claimed cell is therefore heuristic:
//
//   - &pkgLevelVar in the same package resolves to "pkgpath.VarName"
//   - &alias.Var through an import resolves to "importpath.VarName"
//   - anything else (local cells, computed expressions) is unresolved and
//     excluded from duplicate grouping, though loop and strict findings
//     still apply to it
//
// A local variable shadowing a package-level cell name will be
// misattributed to the package-level cell. The scan is deliberately
// conservative in the other direction: it never invents a grouping key it
// cannot read off the source.
package checker

import (
	"fmt"
	"go/ast"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// DefaultOncePath is the import path of the staticonce runtime package.
const DefaultOncePath = "github.com/kolkov/staticonce/once"

// Config controls a scan.
type Config struct {
	// OncePath is the import path whose Init/Bind calls are treated as
	// claims. Defaults to DefaultOncePath; override for forks or
	// vendored copies of the runtime.
	OncePath string

	// Strict additionally warns about claims made from any function
	// other than main or init. Such a claim is a single compiled call
	// site, but nothing stops the enclosing function from being called
	// twice at runtime.
	Strict bool
}

// Checker accumulates call sites across packages and produces diagnostics.
// Feed it every package of the program via CheckPackage, then call Finish
// for the whole-program duplicate report.
//
// Not safe for concurrent use.
type Checker struct {
	cfg   Config
	sites []Site
	diags []Diagnostic
}

// New returns a Checker for the given configuration.
func New(cfg Config) *Checker {
	if cfg.OncePath == "" {
		cfg.OncePath = DefaultOncePath
	}
	return &Checker{cfg: cfg}
}

// Sites returns every call site recorded so far, in discovery order.
func (c *Checker) Sites() []Site {
	return c.sites
}

// CheckPackage scans one package's syntax trees. pkgPath qualifies
// package-level cell names in grouping keys; files must all belong to
// that package so cells declared in one file resolve in its siblings.
func (c *Checker) CheckPackage(fset *token.FileSet, pkgPath string, files []*ast.File) {
	pkgVars := packageLevelVars(files)
	for _, file := range files {
		c.checkFile(fset, pkgPath, file, pkgVars)
	}
}

// Finish produces the whole-program diagnostics: everything recorded
// per-file during CheckPackage plus the duplicate-claim report across all
// scanned packages. The result is sorted by position.
func (c *Checker) Finish() []Diagnostic {
	diags := append([]Diagnostic{}, c.diags...)

	resolved := lo.Filter(c.sites, func(s Site, _ int) bool { return s.Key != "" })
	groups := lo.GroupBy(resolved, func(s Site) string { return s.Key })

	keys := lo.Keys(groups)
	sort.Strings(keys)

	for _, key := range keys {
		sites := groups[key]
		if len(sites) < 2 {
			continue
		}
		sortSites(sites)

		var others []string
		for _, s := range sites[1:] {
			others = append(others, s.Pos.String())
		}
		diags = append(diags, Diagnostic{
			Pos:      sites[0].Pos,
			Severity: SeverityError,
			Message: fmt.Sprintf(
				"cell %s is claimed at %d call sites (also at %s); exactly one compiled call site may initialize it",
				key, len(sites), strings.Join(others, ", ")),
		})
	}

	sort.Slice(diags, func(i, j int) bool { return posLess(diags[i].Pos, diags[j].Pos) })
	return diags
}

// checkFile scans a single file: locates the runtime import, matches
// Init/Bind calls, records sites, and emits the per-site findings that do
// not need whole-program knowledge (loop, strict).
func (c *Checker) checkFile(fset *token.FileSet, pkgPath string, file *ast.File, pkgVars map[string]bool) {
	onceNames, dot, aliases := importBindings(file, c.cfg.OncePath)
	if len(onceNames) == 0 && !dot {
		// File does not import the runtime; nothing to find.
		return
	}

	loops := collectSpans(file, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.ForStmt, *ast.RangeStmt:
			return true
		}
		return false
	})
	funcs := functionSpans(file)

	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		op, ok := matchClaim(call, onceNames, dot)
		if !ok {
			return true
		}

		site := Site{
			Pos:    fset.Position(call.Pos()),
			Op:     op,
			Key:    resolveKey(call, pkgPath, pkgVars, aliases),
			Func:   enclosingFunc(funcs, call.Pos()),
			InLoop: within(loops, call.Pos()),
		}
		c.sites = append(c.sites, site)

		if site.InLoop {
			c.diags = append(c.diags, Diagnostic{
				Pos:      site.Pos,
				Severity: SeverityError,
				Message: fmt.Sprintf(
					"%s claim inside a loop: a single compiled call site reached repeatedly still trips the one-shot guard at runtime", op),
			})
		}
		if c.cfg.Strict && site.Func != "main" && site.Func != "init" && site.Func != funcPackageLevel {
			c.diags = append(c.diags, Diagnostic{
				Pos:      site.Pos,
				Severity: SeverityWarning,
				Message: fmt.Sprintf(
					"%s claim in %q: the function may be reached more than once at runtime; prefer claiming from main or init", op, site.Func),
			})
		}
		return true
	})
}

// funcPackageLevel is the Func label for claims made outside any function
// body, i.e. in a package-level var initializer. Those run exactly once,
// so strict mode leaves them alone.
const funcPackageLevel = "package-level declaration"

// matchClaim reports whether call is a claim through the runtime package
// and which entry point it targets. Explicit instantiations like
// once.Init[Config](...) are unwrapped before matching.
func matchClaim(call *ast.CallExpr, onceNames map[string]bool, dot bool) (string, bool) {
	fun := call.Fun
	switch idx := fun.(type) {
	case *ast.IndexExpr:
		fun = idx.X
	case *ast.IndexListExpr:
		fun = idx.X
	}

	var op string
	switch fn := fun.(type) {
	case *ast.SelectorExpr:
		id, ok := fn.X.(*ast.Ident)
		if !ok || !onceNames[id.Name] {
			return "", false
		}
		op = fn.Sel.Name
	case *ast.Ident:
		// Dot import: Init/Bind appear as bare identifiers. A local
		// function of the same name would be misattributed here; dot
		// imports of the runtime are not recommended for this reason.
		if !dot {
			return "", false
		}
		op = fn.Name
	default:
		return "", false
	}

	if op != "Init" && op != "Bind" {
		return "", false
	}
	return op, true
}

// resolveKey derives the grouping key for the claimed cell from the first
// call argument, or "" when the cell cannot be resolved syntactically.
func resolveKey(call *ast.CallExpr, pkgPath string, pkgVars map[string]bool, aliases map[string]string) string {
	if len(call.Args) == 0 {
		return ""
	}
	arg := call.Args[0]
	if ue, ok := arg.(*ast.UnaryExpr); ok && ue.Op == token.AND {
		arg = ue.X
	}

	switch e := arg.(type) {
	case *ast.Ident:
		// &cellVar or a *Cell variable; only package-level cells get a
		// program-wide identity.
		if pkgVars[e.Name] {
			return pkgPath + "." + e.Name
		}
	case *ast.SelectorExpr:
		// &pkg.CellVar through an import.
		if x, ok := e.X.(*ast.Ident); ok {
			if path, ok := aliases[x.Name]; ok {
				return path + "." + e.Sel.Name
			}
		}
	}
	return ""
}

// importBindings extracts the file's import table: the local names bound
// to the runtime package, whether it is dot-imported, and the alias→path
// table for every named import.
func importBindings(file *ast.File, oncePath string) (onceNames map[string]bool, dot bool, aliases map[string]string) {
	onceNames = make(map[string]bool)
	aliases = make(map[string]string)

	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := pathBase(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		switch name {
		case "_":
			continue
		case ".":
			if path == oncePath {
				dot = true
			}
			continue
		}
		aliases[name] = path
		if path == oncePath {
			onceNames[name] = true
		}
	}
	return onceNames, dot, aliases
}

// packageLevelVars collects the names of package-level vars across all
// files of the package, so a cell declared in one file resolves in its
// siblings.
func packageLevelVars(files []*ast.File) map[string]bool {
	names := make(map[string]bool)
	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.VAR {
				continue
			}
			for _, spec := range gd.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for _, name := range vs.Names {
					if name.Name != "_" {
						names[name.Name] = true
					}
				}
			}
		}
	}
	return names
}

// span is a half-open source range with an optional label.
type span struct {
	pos, end token.Pos
	label    string
}

// collectSpans records the source range of every node matching pred.
func collectSpans(file *ast.File, pred func(ast.Node) bool) []span {
	var spans []span
	ast.Inspect(file, func(n ast.Node) bool {
		if n != nil && pred(n) {
			spans = append(spans, span{pos: n.Pos(), end: n.End()})
		}
		return true
	})
	return spans
}

// functionSpans records the range of every function body, labeled with
// the declared name or "function literal".
func functionSpans(file *ast.File) []span {
	var spans []span
	ast.Inspect(file, func(n ast.Node) bool {
		switch fn := n.(type) {
		case *ast.FuncDecl:
			if fn.Body != nil {
				spans = append(spans, span{pos: fn.Body.Pos(), end: fn.Body.End(), label: fn.Name.Name})
			}
		case *ast.FuncLit:
			spans = append(spans, span{pos: fn.Body.Pos(), end: fn.Body.End(), label: "function literal"})
		}
		return true
	})
	return spans
}

// enclosingFunc returns the label of the innermost function span
// containing pos, or funcPackageLevel when pos sits outside every body.
func enclosingFunc(funcs []span, pos token.Pos) string {
	label := funcPackageLevel
	best := token.NoPos
	for _, s := range funcs {
		if s.pos <= pos && pos < s.end && s.pos > best {
			best = s.pos
			label = s.label
		}
	}
	return label
}

// within reports whether pos falls inside any of the spans.
func within(spans []span, pos token.Pos) bool {
	for _, s := range spans {
		if s.pos <= pos && pos < s.end {
			return true
		}
	}
	return false
}

func pathBase(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func sortSites(sites []Site) {
	sort.Slice(sites, func(i, j int) bool { return posLess(sites[i].Pos, sites[j].Pos) })
}

func posLess(a, b token.Position) bool {
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}
