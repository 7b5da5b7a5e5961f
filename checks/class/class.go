// Package class implements the class-shape checks: missing constructors,
// uninitialized members, missing virtual destructors, and unused
// private member functions (spec §4.8 "Class constructors",
// "Virtual destructor", "Unused private function").
package class

import (
	"fmt"

	"github.com/gscacco/cppcheck/diagnostic"
	"github.com/gscacco/cppcheck/sourcebuf"
	"github.com/gscacco/cppcheck/token"
)

// classInfo is one "class C { ... };" or "struct C { ... };" definition.
type classInfo struct {
	name       string
	defaultPub bool // struct: true, class: false
	open       *token.Token
	close      *token.Token
	bases      []string

	members         []member
	ctors           []*token.Token // name tokens of ctor/operator= definitions
	privateFuncs    map[string]*token.Token
	hasDestructor   bool
	destructorIsVirt bool
}

type member struct {
	name      string
	isPointer bool
	tok       *token.Token
}

func loc(buf *sourcebuf.Buffer, tok *token.Token) diagnostic.Location {
	if tok == nil {
		return diagnostic.Location{}
	}
	return diagnostic.Location{File: buf.Path(tok.File), Line: tok.Line}
}

// Run scans s for class definitions and reports the four class-shape
// diagnostics through sink.
func Run(s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	defer func() {
		if r := recover(); r != nil {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.PossibleError,
				ID:       "internalError",
				Message:  fmt.Sprintf("class check aborted: %v", r),
			})
		}
	}()

	classes := findClasses(s)
	byName := make(map[string]*classInfo, len(classes))
	for _, c := range classes {
		byName[c.name] = c
	}

	for _, c := range classes {
		checkConstructors(c, buf, sink)
		checkVirtualDestructor(c, byName, buf, sink)
		checkUnusedPrivateFunctions(c, s, buf, sink)
	}
}

// findClasses locates every "class"/"struct" %name% [: bases] { ... } ;
// definition in s and parses its member shape.
func findClasses(s *token.Stream) []*classInfo {
	var out []*classInfo
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str != "class" && t.Str != "struct" {
			continue
		}
		isStruct := t.Str == "struct"
		name := t.Next()
		if name == nil || !name.IsName {
			continue
		}
		cur := name.Next()
		var bases []string
		if cur != nil && cur.Str == ":" {
			cur = cur.Next()
			for cur != nil && cur.Str != "{" {
				if cur.IsName && cur.Str != "public" && cur.Str != "private" && cur.Str != "protected" && cur.Str != "virtual" {
					bases = append(bases, cur.Str)
				}
				cur = cur.Next()
			}
		}
		if cur == nil || cur.Str != "{" || cur.Link == nil {
			continue
		}
		c := &classInfo{
			name:         name.Str,
			defaultPub:   isStruct,
			open:         cur,
			close:        cur.Link,
			bases:        bases,
			privateFuncs: make(map[string]*token.Token),
		}
		parseClassBody(c)
		out = append(out, c)
	}
	return out
}

// parseClassBody walks c's body once, tracking the current access
// specifier, collecting data members, constructor/operator= definitions,
// the destructor, and private member-function declarations.
func parseClassBody(c *classInfo) {
	public := c.defaultPub
	for t := c.open.Next(); t != nil && t != c.close; t = t.Next() {
		switch t.Str {
		case "public":
			if n := t.Next(); n != nil && n.Str == ":" {
				public = true
			}
			continue
		case "private":
			if n := t.Next(); n != nil && n.Str == ":" {
				public = false
			}
			continue
		case "protected":
			if n := t.Next(); n != nil && n.Str == ":" {
				public = false
			}
			continue
		}

		if t.Str == "~" {
			if n := t.Next(); n != nil && n.Str == c.name {
				c.hasDestructor = true
				c.destructorIsVirt = isVirtual(t)
			}
			continue
		}

		if t.IsName && t.Str == c.name {
			if open := t.Next(); open != nil && open.Str == "(" && open.Link != nil {
				if bodyStartsCtorDef(open) {
					c.ctors = append(c.ctors, t)
				}
				continue
			}
		}

		if t.Str == "operator" {
			if eq := t.Next(); eq != nil && eq.Str == "=" {
				if open := eq.Next(); open != nil && open.Str == "(" && open.Link != nil {
					if bodyStartsCtorDef(open) {
						c.ctors = append(c.ctors, t)
					}
					continue
				}
			}
		}

		if !t.IsName {
			continue
		}
		if open := t.Next(); open != nil && open.Str == "(" && open.Link != nil {
			if !public {
				c.privateFuncs[t.Str] = t
			}
			continue
		}

		if m, ok := parseMemberDecl(t, c.close); ok {
			c.members = append(c.members, m)
		}
	}
}

func isVirtual(tildeTok *token.Token) bool {
	for t := tildeTok.Prev(); t != nil; t = t.Prev() {
		if t.Str == "virtual" {
			return true
		}
		if t.Str == ";" || t.Str == "}" || t.Str == "public" || t.Str == "private" || t.Str == "protected" {
			return false
		}
	}
	return false
}

// bodyStartsCtorDef reports whether open's matching close is followed (or
// preceded, for an initializer list) by a "{" -- i.e. this is a definition,
// not merely a declaration ending in ";".
func bodyStartsCtorDef(open *token.Token) bool {
	after := open.Link.Next()
	if after != nil && after.Str == ":" {
		for after != nil && after.Str != "{" {
			after = after.Next()
		}
	}
	return after != nil && after.Str == "{"
}

// parseMemberDecl recognizes a plain data-member declaration "T name ;" or
// "T * name ;" directly inside a class body, skipping "static"/"const"
// storage and anything that is actually a method (caught earlier).
func parseMemberDecl(t *token.Token, end *token.Token) (member, bool) {
	if !t.IsName || t.Str == "static" || t.Str == "const" || t.Str == "virtual" {
		return member{}, false
	}
	cur := t.Next()
	isPointer := false
	for cur != nil && cur.Str == "*" {
		isPointer = true
		cur = cur.Next()
	}
	if cur == nil || !cur.IsName {
		return member{}, false
	}
	nameTok := cur
	after := cur.Next()
	if after == nil || (after.Str != ";" && after.Str != "=") {
		return member{}, false
	}
	return member{name: nameTok.Str, isPointer: isPointer, tok: nameTok}, true
}

// checkConstructors reports noConstructor when the class declares any data
// member (pointer or standard-type) but no constructor/operator= exists at
// all, and uninitMember for every member no constructor body ever assigns
// (spec §8 scenario 4: a plain "int i;" member with no initializing
// constructor is flagged exactly like an uninitialized pointer member —
// original_source/checkclass.cpp's ClassChecking_GetVarList collects both
// "%type% %var% ;" and "%type% * %var% ;" members for this check).
func checkConstructors(c *classInfo, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	if len(c.members) == 0 {
		return
	}
	if len(c.ctors) == 0 {
		sink.Report(diagnostic.Record{
			Severity: diagnostic.Style,
			ID:       "noConstructor",
			Chain:    []diagnostic.Location{loc(buf, c.open)},
			Message:  fmt.Sprintf("class %q has members but no constructor", c.name),
		})
		return
	}

	initialized := make(map[string]bool)
	for _, ctorName := range c.ctors {
		collectInitialized(ctorName, c.name, initialized)
	}
	if initialized["*"] {
		return
	}
	for _, m := range c.members {
		if initialized[m.name] {
			continue
		}
		sink.Report(diagnostic.Record{
			Severity: diagnostic.Error,
			ID:       "uninitMember",
			Chain:    []diagnostic.Location{loc(buf, m.tok)},
			Message:  fmt.Sprintf("member variable %q is not initialized in the constructor", m.name),
		})
	}
}

// collectInitialized walks one constructor/operator= definition, marking
// every member name it can prove is initialized (spec §4.8): direct
// assignment, "this->name =", an initializer-list entry, "memset(this,..)",
// "*this = other", or a bare call to clear()/Clear() (conservatively
// treated as initializing everything, favoring false negatives).
func collectInitialized(nameTok *token.Token, className string, initialized map[string]bool) {
	open := nameTok.Next()
	if nameTok.Str == "operator" {
		open = nameTok.Next().Next() // skip "="
	}
	if open == nil || open.Str != "(" || open.Link == nil {
		return
	}

	after := open.Link.Next()
	if after != nil && after.Str == ":" {
		for t := after.Next(); t != nil && t.Str != "{"; t = t.Next() {
			if t.IsName {
				if n := t.Next(); n != nil && n.Str == "(" {
					initialized[t.Str] = true
				}
			}
		}
	}

	body := after
	for body != nil && body.Str != "{" {
		body = body.Next()
	}
	if body == nil || body.Link == nil {
		return
	}
	end := body.Link

	for t := body.Next(); t != nil && t != end; t = t.Next() {
		switch {
		case t.IsName && t.Next() != nil && t.Next().Str == "=":
			initialized[t.Str] = true
		case t.Str == "this" && t.Next() != nil && t.Next().Str == "->":
			if n := t.Next().Next(); n != nil && n.IsName {
				initialized[n.Str] = true
			}
		case t.Str == "memset" && t.Next() != nil && t.Next().Str == "(":
			open := t.Next()
			if arg := open.Next(); arg != nil && arg.Str == "this" {
				markAllMembersInitialized(initialized, className)
			}
		case t.Str == "*" && t.Next() != nil && t.Next().Str == "this":
			markAllMembersInitialized(initialized, className)
		case t.IsName && (t.Str == "clear" || t.Str == "Clear") && t.Prev() != nil && t.Prev().Str != ".":
			markAllMembersInitialized(initialized, className)
		}
	}
}

// markAllMembersInitialized is the conservative bail-out used when a
// constructor hands initialization off to a helper this check cannot
// trace into (memset(this,...), "*this = other", a self-clear() call).
func markAllMembersInitialized(initialized map[string]bool, _ string) {
	initialized["*"] = true
}

func checkVirtualDestructor(c *classInfo, byName map[string]*classInfo, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for _, baseName := range c.bases {
		base, ok := byName[baseName]
		if !ok {
			continue
		}
		if !base.hasDestructor || !base.destructorIsVirt {
			sink.Report(diagnostic.Record{
				Severity: diagnostic.Error,
				ID:       "noVirtualDestructor",
				Chain:    []diagnostic.Location{loc(buf, c.open)},
				Message:  fmt.Sprintf("class %q is derived from %q, which has no virtual destructor", c.name, baseName),
			})
		}
	}
}

// checkUnusedPrivateFunctions reports a private member function never
// referenced anywhere in the stream via "name(", "&name", "=name", ",name",
// or "return name" outside of its own declaration (spec §4.8).
func checkUnusedPrivateFunctions(c *classInfo, s *token.Stream, buf *sourcebuf.Buffer, sink *diagnostic.Sink) {
	for name, declTok := range c.privateFuncs {
		if referencedElsewhere(s, name, declTok) {
			continue
		}
		sink.Report(diagnostic.Record{
			Severity: diagnostic.Style,
			ID:       "unusedPrivateFunction",
			Chain:    []diagnostic.Location{loc(buf, declTok)},
			Message:  fmt.Sprintf("private member function %q is never used", name),
		})
	}
}

func referencedElsewhere(s *token.Stream, name string, declTok *token.Token) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t == declTok || t.Str != name {
			continue
		}
		prev := t.Prev()
		next := t.Next()
		switch {
		case next != nil && next.Str == "(":
			return true
		case prev != nil && (prev.Str == "&" || prev.Str == "=" || prev.Str == "," || prev.Str == "return"):
			return true
		}
	}
	return false
}
