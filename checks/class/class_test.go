package class

import (
	"testing"

	"github.com/gscacco/cppcheck/diagnostic"
	"github.com/gscacco/cppcheck/sourcebuf"
	"github.com/gscacco/cppcheck/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) []diagnostic.Record {
	t.Helper()
	buf := sourcebuf.New()
	fileIndex := buf.AddFile("test.cpp", src)

	tz := tokenizer.New(8)
	require.NoError(t, tz.Tokenize(src, fileIndex))

	sink := diagnostic.NewSink(nil, nil)
	Run(tz.Stream(), buf, sink)
	return sink.Records()
}

func ids(records []diagnostic.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestMissingConstructorWithPointerMemberFlagged(t *testing.T) {
	records := run(t, `class Widget { private: char *buf; };`)
	assert.Contains(t, ids(records), "noConstructor")
}

func TestUninitializedPointerMemberFlagged(t *testing.T) {
	records := run(t, `
class Widget {
public:
	Widget() { count = 0; }
private:
	char *buf;
	int count;
};
`)
	assert.Contains(t, ids(records), "uninitMember")
}

func TestUninitializedScalarMemberFlagged(t *testing.T) {
	records := run(t, `
class F {
public:
	F() {}
private:
	int i;
};
`)
	assert.Contains(t, ids(records), "uninitMember")
}

func TestInitializedScalarMemberClean(t *testing.T) {
	records := run(t, `
class F {
public:
	F() { i = 0; }
private:
	int i;
};
`)
	assert.NotContains(t, ids(records), "uninitMember")
}

func TestInitializerListCoversMember(t *testing.T) {
	records := run(t, `
class Widget {
public:
	Widget() : buf(0) {}
private:
	char *buf;
};
`)
	assert.NotContains(t, ids(records), "uninitMember")
}

func TestThisArrowAssignmentCoversMember(t *testing.T) {
	records := run(t, `
class Widget {
public:
	Widget() { this->buf = 0; }
private:
	char *buf;
};
`)
	assert.NotContains(t, ids(records), "uninitMember")
}

func TestDerivedWithoutVirtualDestructorFlagged(t *testing.T) {
	records := run(t, `
class Base {
public:
	~Base() {}
};
class Derived : public Base {
public:
	Derived() {}
};
`)
	assert.Contains(t, ids(records), "noVirtualDestructor")
}

func TestDerivedWithVirtualDestructorClean(t *testing.T) {
	records := run(t, `
class Base {
public:
	virtual ~Base() {}
};
class Derived : public Base {
public:
	Derived() {}
};
`)
	assert.NotContains(t, ids(records), "noVirtualDestructor")
}

func TestUnusedPrivateFunctionFlagged(t *testing.T) {
	records := run(t, `
class Widget {
public:
	Widget() {}
private:
	void helper() {}
};
`)
	assert.Contains(t, ids(records), "unusedPrivateFunction")
}

func TestUsedPrivateFunctionClean(t *testing.T) {
	records := run(t, `
class Widget {
public:
	Widget() { helper(); }
private:
	void helper() {}
};
`)
	assert.NotContains(t, ids(records), "unusedPrivateFunction")
}
