package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceIfElseSameAtomCollapses(t *testing.T) {
	x := Stmt{Kind: Use, VarID: 1}
	y := Stmt{Kind: Use, VarID: 2}
	in := Stream{
		{Kind: OpenBrace},
		y,
		{Kind: If},
		{Kind: OpenBrace}, x, {Kind: CloseBrace},
		{Kind: Else},
		{Kind: OpenBrace}, x, {Kind: CloseBrace},
		{Kind: CloseBrace},
	}
	got := Reduce(in, false)
	assert.Equal(t, Stream{{Kind: OpenBrace}, y, x, {Kind: CloseBrace}}, got)
}

func TestReduceAllocDeallocAllocCollapses(t *testing.T) {
	alloc := Stmt{Kind: Alloc, VarID: 1}
	dealloc := Stmt{Kind: Dealloc, VarID: 1}
	use := Stmt{Kind: Use, VarID: 2}
	in := Stream{{Kind: OpenBrace}, use, alloc, dealloc, alloc, {Kind: CloseBrace}}
	got := Reduce(in, false)
	assert.Equal(t, Stream{{Kind: OpenBrace}, use, alloc, {Kind: CloseBrace}}, got)
}

func TestReduceDeadIfDrops(t *testing.T) {
	use1 := Stmt{Kind: Use, VarID: 1}
	use2 := Stmt{Kind: Use, VarID: 2}
	in := Stream{
		{Kind: OpenBrace},
		use1,
		{Kind: If}, {Kind: OpenBrace}, {Kind: CloseBrace},
		use2,
		{Kind: CloseBrace},
	}
	got := Reduce(in, false)
	assert.Equal(t, Stream{{Kind: OpenBrace}, use1, use2, {Kind: CloseBrace}}, got)
}

func TestReduceUnreachableAfterReturnDropped(t *testing.T) {
	lead := Stmt{Kind: Use, VarID: 1}
	dead := Stmt{Kind: Use, VarID: 2}
	in := Stream{{Kind: OpenBrace}, lead, {Kind: Return}, dead, {Kind: CloseBrace}}
	got := Reduce(in, false)
	assert.Equal(t, Stream{{Kind: OpenBrace}, lead, {Kind: Return}, {Kind: CloseBrace}}, got)
}

func TestReduceLoopImmediateBreakDrops(t *testing.T) {
	lead := Stmt{Kind: Use, VarID: 1}
	trail := Stmt{Kind: Use, VarID: 2}
	in := Stream{
		{Kind: OpenBrace},
		lead,
		{Kind: Loop}, {Kind: OpenBrace},
		{Kind: If}, {Kind: OpenBrace}, {Kind: Break}, {Kind: CloseBrace},
		{Kind: CloseBrace},
		trail,
		{Kind: CloseBrace},
	}
	got := Reduce(in, false)
	assert.Equal(t, Stream{{Kind: OpenBrace}, lead, trail, {Kind: CloseBrace}}, got)
}

func TestReduceLoopAllocHoisted(t *testing.T) {
	alloc := Stmt{Kind: Alloc, VarID: 1}
	use := Stmt{Kind: Use, VarID: 2}
	in := Stream{
		{Kind: OpenBrace},
		{Kind: Loop}, {Kind: OpenBrace},
		alloc,
		{Kind: If}, {Kind: OpenBrace}, {Kind: Break}, {Kind: CloseBrace},
		{Kind: CloseBrace},
		use,
		{Kind: CloseBrace},
	}
	got := Reduce(in, false)
	assert.Equal(t, Stream{{Kind: OpenBrace}, alloc, use, {Kind: CloseBrace}}, got)
}

func TestReduceDuplicateCaseCollapses(t *testing.T) {
	in := Stream{{Kind: Case}, {Kind: Case}, {Kind: Break}}
	got := Reduce(in, false)
	assert.Equal(t, Stream{{Kind: Case}, {Kind: Break}}, got)
}

func TestReduceSwitchBreakCleanBecomesIfChain(t *testing.T) {
	use1 := Stmt{Kind: Use, VarID: 1}
	use2 := Stmt{Kind: Use, VarID: 2}
	in := Stream{
		{Kind: Switch}, {Kind: OpenBrace},
		{Kind: Case}, use1, {Kind: Break},
		{Kind: Default}, use2, {Kind: Break},
		{Kind: CloseBrace},
	}
	got := Reduce(in, false)
	assert.Contains(t, kinds(got), Case)
	assert.Contains(t, kinds(got), Else)
	assert.NotContains(t, kinds(got), Switch)
}

func TestReduceSwitchWithNestedLoopBreakLeftAlone(t *testing.T) {
	in := Stream{
		{Kind: Switch}, {Kind: OpenBrace},
		{Kind: Case},
		{Kind: Loop}, {Kind: OpenBrace}, {Kind: Break}, {Kind: CloseBrace},
		{Kind: Break},
		{Kind: CloseBrace},
	}
	got := Reduce(in, false)
	assert.Contains(t, kinds(got), Switch)
}

func TestReduceShowAllDropsBareAllocIf(t *testing.T) {
	alloc := Stmt{Kind: Alloc, VarID: 1}
	in := Stream{{Kind: If}, {Kind: OpenBrace}, alloc, {Kind: CloseBrace}}
	got := Reduce(in, true)
	assert.Equal(t, Stream{alloc}, got)
	unchanged := Reduce(in, false)
	assert.Contains(t, kinds(unchanged), If)
}
