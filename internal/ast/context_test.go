package ast

import "testing"

func buildCtx() Context {
	c := Context{}
	c = c.PushTelescope().PushBinder(Binder{Name: "a"}).PushBinder(Binder{Name: "b"})
	c = c.PushTelescope().PushBinder(Binder{Name: "c"})
	return c
}

func TestIdxLvlRoundTrip(t *testing.T) {
	c := buildCtx()
	for fst := 0; fst < len(c); fst++ {
		for snd := 0; snd < len(c[fst]); snd++ {
			l := Lvl{Fst: fst, Snd: snd}
			i := c.LvlToIdx(l)
			back := c.IdxToLvl(i)
			if back != l {
				t.Fatalf("round trip failed for %v: idx=%v back=%v", l, i, back)
			}
		}
	}
}

func TestLvlToIdxThenLookupMatchesBinder(t *testing.T) {
	c := buildCtx()
	l := Lvl{Fst: 0, Snd: 1}
	b, ok := c.LookupLvl(l)
	if !ok || b.Name != "b" {
		t.Fatalf("expected binder b at %v, got %+v ok=%v", l, b, ok)
	}
	idx := c.LvlToIdx(l)
	b2, ok := c.LookupIdx(idx)
	if !ok || b2.Name != b.Name {
		t.Fatalf("lookup via idx %v disagreed with lookup via level: got %+v", idx, b2)
	}
}

func TestIdentityArgsMatchesTelescopeShape(t *testing.T) {
	c := buildCtx()
	args := c.IdentityArgs()
	if len(args) != len(c) {
		t.Fatalf("IdentityArgs telescope count: got %d want %d", len(args), len(c))
	}
	for fst, tele := range c {
		if len(args[fst]) != len(tele) {
			t.Fatalf("telescope %d: got %d args want %d", fst, len(args[fst]), len(tele))
		}
	}
}

func TestPushPopBinderRoundTrip(t *testing.T) {
	c := Context{}.PushTelescope().PushBinder(Binder{Name: "x"})
	popped := c.PushBinder(Binder{Name: "y"}).PopBinder()
	if len(popped[0]) != 1 || popped[0][0].Name != "x" {
		t.Fatalf("push then pop should restore original telescope, got %+v", popped[0])
	}
}

func TestLookupOutOfScopeFails(t *testing.T) {
	c := buildCtx()
	if _, ok := c.LookupIdx(Idx{Fst: 99, Snd: 0}); ok {
		t.Fatal("expected out-of-scope index lookup to fail")
	}
	if _, ok := c.LookupLvl(Lvl{Fst: 99, Snd: 0}); ok {
		t.Fatal("expected out-of-scope level lookup to fail")
	}
}
