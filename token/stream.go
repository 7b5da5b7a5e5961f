package token

// Stream is a doubly-linked, mutable sequence of tokens. Insertion and
// removal are local O(1) operations; traversal is O(1) per step in either
// direction (spec §3 "Token"). The zero value is an empty, ready-to-use
// stream.
type Stream struct {
	head, tail *Token
	count      int
}

// NewStream builds a stream from an initial, already-ordered slice of
// detached tokens -- used once by the tokenizer right after lexing.
func NewStream(tokens []*Token) *Stream {
	s := &Stream{}
	for _, t := range tokens {
		s.PushBack(t)
	}
	return s
}

// Len returns the number of tokens currently in the stream.
func (s *Stream) Len() int { return s.count }

// Front returns the first token, or nil if the stream is empty.
func (s *Stream) Front() *Token { return s.head }

// Back returns the last token, or nil if the stream is empty.
func (s *Stream) Back() *Token { return s.tail }

// PushBack appends tok to the end of the stream.
func (s *Stream) PushBack(tok *Token) {
	tok.stream = s
	tok.prev = s.tail
	tok.next = nil
	if s.tail != nil {
		s.tail.next = tok
	} else {
		s.head = tok
	}
	s.tail = tok
	s.count++
}

// InsertAfter splices tok into the stream immediately after at. If at is
// nil, tok becomes the new head.
func (s *Stream) InsertAfter(at, tok *Token) {
	tok.stream = s
	if at == nil {
		tok.prev = nil
		tok.next = s.head
		if s.head != nil {
			s.head.prev = tok
		} else {
			s.tail = tok
		}
		s.head = tok
		s.count++
		return
	}
	nxt := at.next
	tok.prev = at
	tok.next = nxt
	at.next = tok
	if nxt != nil {
		nxt.prev = tok
	} else {
		s.tail = tok
	}
	s.count++
}

// InsertBefore splices tok into the stream immediately before at.
func (s *Stream) InsertBefore(at, tok *Token) {
	if at == nil {
		s.PushBack(tok)
		return
	}
	s.InsertAfter(at.prev, tok)
}

// Remove detaches tok from the stream. tok's own prev/next are left
// pointing at its former neighbors so callers mid-walk can still step off
// of it, but it is no longer reachable from the stream itself.
func (s *Stream) Remove(tok *Token) {
	if tok.stream != s {
		return
	}
	if tok.prev != nil {
		tok.prev.next = tok.next
	} else {
		s.head = tok.next
	}
	if tok.next != nil {
		tok.next.prev = tok.prev
	} else {
		s.tail = tok.prev
	}
	s.count--
	tok.stream = nil
}

// RemoveRange deletes every token from 'from' through 'to' inclusive. Both
// ends must belong to this stream and from must not be later than to.
func (s *Stream) RemoveRange(from, to *Token) {
	if from == nil || to == nil {
		return
	}
	before := from.prev
	after := to.next
	n := 0
	for t := from; t != nil; t = t.next {
		n++
		if t == to {
			break
		}
	}
	if before != nil {
		before.next = after
	} else {
		s.head = after
	}
	if after != nil {
		after.prev = before
	} else {
		s.tail = before
	}
	s.count -= n
	for t := from; t != nil; {
		nxt := t.next
		t.stream = nil
		if t == to {
			break
		}
		t = nxt
	}
}

// Replace swaps old for repl in place: repl takes old's position and old
// is detached, without disturbing the rest of the stream.
func (s *Stream) Replace(old, repl *Token) {
	repl.stream = s
	repl.prev = old.prev
	repl.next = old.next
	if old.prev != nil {
		old.prev.next = repl
	} else {
		s.head = repl
	}
	if old.next != nil {
		old.next.prev = repl
	} else {
		s.tail = repl
	}
	old.stream = nil
}

// Tokens materializes the stream into a slice for callers (rule checks)
// that only ever read. The reduced-statement stream (spec §3) is the only
// place a fully materialized, finite sequence is required by contract;
// everything else can walk Next()/Prev() directly.
func (s *Stream) Tokens() []*Token {
	out := make([]*Token, 0, s.count)
	for t := s.head; t != nil; t = t.next {
		out = append(out, t)
	}
	return out
}
