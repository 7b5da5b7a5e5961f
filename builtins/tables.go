// Package builtins holds the stable, process-wide function classification
// tables used by variable-flow lowering and the leak verdict engine
// (see spec §6). The tables are immutable after package init; nothing in
// this package mutates global state at runtime.
package builtins

import "strings"

// AllocKind identifies the resource kind a variable is bound to after an
// allocation site. Many is a fusion sentinel: once two distinct concrete
// kinds are observed flowing into the same variable, the mismatch check
// degrades to silence rather than misreporting (spec §3).
type AllocKind int

const (
	KindNone AllocKind = iota
	KindHeapScalar
	KindHeapArray
	KindHeapLegacy // malloc/calloc/realloc/strdup family
	KindHeapExtern // allocator outside the built-in table, assumed owning
	KindFile
	KindFileDescriptor
	KindPipe
	KindDirectory
	KindMany
)

func (k AllocKind) String() string {
	switch k {
	case KindHeapScalar:
		return "new"
	case KindHeapArray:
		return "new[]"
	case KindHeapLegacy:
		return "malloc"
	case KindHeapExtern:
		return "extern"
	case KindFile:
		return "FILE*"
	case KindFileDescriptor:
		return "fd"
	case KindPipe:
		return "pipe"
	case KindDirectory:
		return "DIR*"
	case KindMany:
		return "many"
	default:
		return "none"
	}
}

// Merge fuses two observed allocation kinds for the same variable. Equal
// kinds stay put; anything else degrades to KindMany so the mismatch check
// stays silent rather than guessing (spec §3 "Many").
func Merge(a, b AllocKind) AllocKind {
	if a == KindNone {
		return b
	}
	if b == KindNone {
		return a
	}
	if a == b {
		return a
	}
	return KindMany
}

// heapLegacyAllocators are malloc-family functions: they return a plain
// heap pointer with no array/scalar distinction cppcheck can recover
// syntactically, so they all map to KindHeapLegacy.
var heapLegacyAllocators = map[string]bool{
	"malloc": true, "calloc": true, "strdup": true, "strndup": true,
	"kmalloc": true, "kzalloc": true, "kcalloc": true, "realloc": true,
}

// glibAllocators covers GLib's allocation family (spec §6).
var glibAllocators = map[string]bool{
	"g_new": true, "g_new0": true, "g_malloc": true, "g_malloc0": true,
	"g_strdup": true, "g_strndup": true, "g_realloc": true,
}

// openers return a handle kind distinct from heap memory.
var openers = map[string]AllocKind{
	"fopen": KindFile, "tmpfile": KindFile,
	"open": KindFileDescriptor, "openat": KindFileDescriptor,
	"creat": KindFileDescriptor, "mkstemp": KindFileDescriptor, "mkostemp": KindFileDescriptor,
	"popen": KindPipe,
	"opendir": KindDirectory, "fdopendir": KindDirectory,
}

// closers release a resource. The kind they expect is used by the
// mismatch check (spec §4.7 rule 7).
var closers = map[string]AllocKind{
	"free": KindHeapLegacy, "kfree": KindHeapLegacy, "g_free": KindHeapLegacy,
	"fclose": KindFile, "fcloseall": KindFile,
	"close": KindFileDescriptor,
	"pclose": KindPipe,
	"closedir": KindDirectory,
	// "delete" / "delete[]" are keywords, not calls; the lexer emits them
	// as ordinary name tokens and flow's matchDeallocCall matches them.
}

// neutralFunctions never change the allocation kind of their arguments:
// string, memory, and I/O library calls that merely read or copy through a
// pointer (spec §4.5 "Function-call handling").
var neutralFunctions = map[string]bool{
	"strcpy": true, "strncpy": true, "strcat": true, "strncat": true,
	"strcmp": true, "strncmp": true, "strcasecmp": true, "strlen": true,
	"strchr": true, "strrchr": true, "strstr": true, "strtok": true,
	"memcpy": true, "memmove": true, "memset": true, "memcmp": true, "memchr": true,
	"sprintf": true, "snprintf": true, "vsprintf": true, "vsnprintf": true,
	"printf": true, "fprintf": true, "fputs": true, "fputc": true, "putc": true,
	"fwrite": true, "fread": true, "fgets": true, "fscanf": true, "scanf": true, "sscanf": true,
	"atoi": true, "atol": true, "atoll": true, "strtol": true, "strtoul": true, "strtod": true,
	"puts": true, "putchar": true, "perror": true, "assert": true,
	"qsort": true, "bsearch": true,
}

// IsGlibTry reports whether name matches GLib's g_try_* allocator family.
func IsGlibTry(name string) bool {
	return strings.HasPrefix(name, "g_try_")
}

// IsAllocator reports whether name is a known allocating function and, if
// so, which AllocKind it produces.
func IsAllocator(name string) (AllocKind, bool) {
	if heapLegacyAllocators[name] {
		return KindHeapLegacy, true
	}
	if glibAllocators[name] || IsGlibTry(name) {
		return KindHeapLegacy, true
	}
	if kind, ok := openers[name]; ok {
		return kind, true
	}
	return KindNone, false
}

// IsCloser reports whether name is a known deallocating function and the
// AllocKind it expects to release.
func IsCloser(name string) (AllocKind, bool) {
	if name == "g_free" {
		return KindHeapLegacy, true
	}
	if kind, ok := closers[name]; ok {
		return kind, true
	}
	return KindNone, false
}

// IsNeutral reports whether name is known to never take ownership of, or
// release, a pointer argument -- it only reads or copies through it.
func IsNeutral(name string) bool {
	return neutralFunctions[name]
}
