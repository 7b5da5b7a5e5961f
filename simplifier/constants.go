package simplifier

import (
	"strconv"

	"github.com/gscacco/cppcheck/token"
)

// foldConstants folds "%num% op %num%" into a single literal for
// + - * / %, and resolves "sizeof(type)" via opt.SizeOf (spec §4.4
// "Constant folding"). Division/modulo by zero is left unfolded -- the
// zeroDivision style check reports it instead of the simplifier silently
// producing a bogus literal.
func foldConstants(s *token.Stream, opt Options) bool {
	for t := s.Front(); t != nil; t = t.Next() {
		if t.Str == "sizeof" && opt.SizeOf != nil {
			if replaced := foldSizeof(s, t, opt.SizeOf); replaced {
				return true
			}
			continue
		}
		if !t.IsNumber {
			continue
		}
		opTok := t.Next()
		if opTok == nil || !isArithOp(opTok.Str) {
			continue
		}
		rhs := opTok.Next()
		if rhs == nil || !rhs.IsNumber {
			continue
		}
		result, ok := foldArith(t.Str, opTok.Str, rhs.Str)
		if !ok {
			continue
		}
		lit := token.New(result)
		lit.IsNumber = true
		lit.File, lit.Line = t.File, t.Line
		s.InsertBefore(t, lit)
		s.RemoveRange(t, rhs)
		return true
	}
	return false
}

func foldSizeof(s *token.Stream, kw *token.Token, sizeOf SizeOfFunc) bool {
	open := kw.Next()
	if open == nil || open.Str != "(" || open.Link == nil {
		return false
	}
	inner := open.Next()
	if inner == nil || inner.Next() != open.Link || !(inner.IsName || inner.IsStdType) {
		return false
	}
	sz, ok := sizeOf(inner.Str)
	if !ok {
		return false
	}
	lit := token.New(strconv.Itoa(sz))
	lit.IsNumber = true
	lit.File, lit.Line = kw.File, kw.Line
	s.InsertBefore(kw, lit)
	s.RemoveRange(kw, open.Link)
	return true
}

func isArithOp(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%":
		return true
	default:
		return false
	}
}

func foldArith(lhs, op, rhs string) (string, bool) {
	a, aok := parseIntLiteral(lhs)
	b, bok := parseIntLiteral(rhs)
	if !aok || !bok {
		return "", false
	}
	switch op {
	case "+":
		return strconv.FormatInt(a+b, 10), true
	case "-":
		return strconv.FormatInt(a-b, 10), true
	case "*":
		return strconv.FormatInt(a*b, 10), true
	case "/":
		if b == 0 {
			return "", false
		}
		return strconv.FormatInt(a/b, 10), true
	case "%":
		if b == 0 {
			return "", false
		}
		return strconv.FormatInt(a%b, 10), true
	default:
		return "", false
	}
}

func parseIntLiteral(s string) (int64, bool) {
	for len(s) > 0 {
		last := s[len(s)-1]
		if last == 'u' || last == 'U' || last == 'l' || last == 'L' {
			s = s[:len(s)-1]
			continue
		}
		break
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
