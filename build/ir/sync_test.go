package ir_test

import (
	"testing"

	"github.com/ospc-org/ospc/build/ir"
	"github.com/ospc-org/ospc/build/ir/irtest"
)

func TestSync(t *testing.T) {
	ctx := irtest.Context()
	e := ir.TypeCheckExpr(ctx, ir.NewSyncExpr(irtest.Pos(1)))
	if e == nil {
		t.Fatalf("type check failed:\n%s", irtest.Bag(ctx).String())
	}
	if got := ir.TypeOf(ctx, e); !ir.IsVoidType(got) {
		t.Errorf("got type %v but want void", got)
	}
	if got, want := e.Cost(ctx), ir.CostSync; got != want {
		t.Errorf("got cost %d but want %d", got, want)
	}
	em := irtest.NewRecorder(ctx)
	if e.Value(em) == nil {
		t.Fatalf("no value emitted")
	}
	if !em.Has("= sync") {
		t.Errorf("barrier not emitted:\n%s", em)
	}
}
