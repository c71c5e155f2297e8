package source_test

import (
	"testing"

	"github.com/ospc-org/ospc/build/source"
)

func TestString(t *testing.T) {
	tests := []struct {
		pos  source.Pos
		want string
	}{
		{
			pos:  source.New("foo.ispc", 10, 3),
			want: "foo.ispc:10:3",
		},
		{
			pos:  source.Pos{},
			want: "-",
		},
		{
			pos:  source.Pos{File: "foo.ispc"},
			want: "-",
		},
	}
	for ti, test := range tests {
		if got := test.pos.String(); got != test.want {
			t.Errorf("test %d: got %q but want %q", ti, got, test.want)
		}
	}
}

func TestUnion(t *testing.T) {
	a := source.Pos{File: "f", FirstLine: 2, FirstCol: 4, LastLine: 2, LastCol: 9}
	b := source.Pos{File: "f", FirstLine: 1, FirstCol: 7, LastLine: 3, LastCol: 1}
	tests := []struct {
		p, q source.Pos
		want source.Pos
	}{
		{
			p:    a,
			q:    b,
			want: source.Pos{File: "f", FirstLine: 1, FirstCol: 7, LastLine: 3, LastCol: 1},
		},
		{
			p:    a,
			q:    source.Pos{},
			want: a,
		},
		{
			p:    source.Pos{},
			q:    b,
			want: b,
		},
	}
	for ti, test := range tests {
		if got := source.Union(test.p, test.q); got != test.want {
			t.Errorf("test %d: got %v but want %v", ti, got, test.want)
		}
	}
}
