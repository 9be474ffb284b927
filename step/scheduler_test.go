package step

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/kbukum/rivet/errors"
)

// --- test helpers ---

// recorder collects execution order across steps of one test.
type recorder struct {
	order []string
}

func (r *recorder) step(name string, deps ...Step) *Func {
	return &Func{
		ID:   name,
		Deps: deps,
		Action: func(context.Context) error {
			r.order = append(r.order, name)
			return nil
		},
	}
}

func (r *recorder) failing(name string, err error, deps ...Step) *Func {
	return &Func{
		ID:   name,
		Deps: deps,
		Action: func(context.Context) error {
			r.order = append(r.order, name)
			return err
		},
	}
}

// --- Scheduler tests ---

func TestRun_DependenciesFirst(t *testing.T) {
	rec := &recorder{}
	a := rec.step("a")
	b := rec.step("b", a)
	c := rec.step("c", b)

	res, err := Run(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(rec.order, want) {
		t.Fatalf("order = %v, want %v", rec.order, want)
	}
	if !reflect.DeepEqual(res.Executed(), rec.order) {
		t.Errorf("result executed %v, want %v", res.Executed(), rec.order)
	}
	if res.Target != "c" {
		t.Errorf("expected target c, got %q", res.Target)
	}
}

func TestRun_SiblingsInOrder(t *testing.T) {
	rec := &recorder{}
	top := rec.step("top", rec.step("x"), rec.step("y"), rec.step("z"))

	if _, err := Run(context.Background(), top); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"x", "y", "z", "top"}; !reflect.DeepEqual(rec.order, want) {
		t.Fatalf("order = %v, want %v", rec.order, want)
	}
}

func TestRun_DiamondExecutesSharedOnce(t *testing.T) {
	rec := &recorder{}
	d := rec.step("D")
	b := rec.step("B", d)
	c := rec.step("C", d)
	a := rec.step("A", b, c)

	if _, err := Run(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"D", "B", "C", "A"}; !reflect.DeepEqual(rec.order, want) {
		t.Fatalf("order = %v, want %v", rec.order, want)
	}
}

func TestRun_IdentityNotEquality(t *testing.T) {
	rec := &recorder{}
	// Two distinct steps that look the same both run.
	left := rec.step("leaf")
	right := rec.step("leaf")
	top := rec.step("top", left, right)

	if _, err := Run(context.Background(), top); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"leaf", "leaf", "top"}; !reflect.DeepEqual(rec.order, want) {
		t.Fatalf("order = %v, want %v", rec.order, want)
	}
}

func TestRun_PinSuppressesOnlyTheNode(t *testing.T) {
	rec := &recorder{}
	c := rec.step("C")
	b := rec.step("B", c)
	b.Pin = true
	a := rec.step("A", b)

	res, err := Run(context.Background(), a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"C", "A"}; !reflect.DeepEqual(rec.order, want) {
		t.Fatalf("order = %v, want %v", rec.order, want)
	}
	if want := []string{"B"}; !reflect.DeepEqual(res.Pinned(), want) {
		t.Errorf("pinned = %v, want %v", res.Pinned(), want)
	}
	if len(res.Steps) != 3 || res.Steps[1].Status != StatusPinned {
		t.Errorf("expected B recorded as pinned between C and A, got %+v", res.Steps)
	}
}

func TestRun_PinnedTarget(t *testing.T) {
	rec := &recorder{}
	dep := rec.step("dep")
	target := rec.step("target", dep)
	target.Pin = true

	if _, err := Run(context.Background(), target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"dep"}; !reflect.DeepEqual(rec.order, want) {
		t.Fatalf("order = %v, want %v", rec.order, want)
	}
}

func TestRun_FailFast(t *testing.T) {
	rec := &recorder{}
	boom := errors.ExternalToolFailure("X", "bash", 1, nil)
	x := rec.failing("X", boom)
	y := rec.step("Y")
	p := rec.step("P", x, y)

	res, err := Run(context.Background(), p)
	if err != boom {
		t.Fatalf("expected the failing step's error unchanged, got %v", err)
	}
	if want := []string{"X"}; !reflect.DeepEqual(rec.order, want) {
		t.Fatalf("order = %v, want %v (Y and P must not run)", rec.order, want)
	}
	failed, ok := res.Failed()
	if !ok || failed.Name != "X" || failed.Error != boom {
		t.Errorf("expected X recorded as failed, got %+v", failed)
	}
	if len(res.Executed()) != 0 {
		t.Errorf("nothing should have completed, got %v", res.Executed())
	}
}

func TestRun_FailureAfterPartialProgress(t *testing.T) {
	rec := &recorder{}
	ok1 := rec.step("ok1")
	bad := rec.failing("bad", fmt.Errorf("exit 2"), ok1)
	top := rec.step("top", bad)

	res, err := Run(context.Background(), top)
	if err == nil {
		t.Fatal("expected error")
	}
	if want := []string{"ok1"}; !reflect.DeepEqual(res.Executed(), want) {
		t.Errorf("executed = %v, want %v", res.Executed(), want)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	rec := &recorder{}
	a := rec.step("a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, a)
	if !errors.IsCode(err, errors.ErrCodeCanceled) {
		t.Fatalf("expected CANCELED, got %v", err)
	}
	if len(rec.order) != 0 {
		t.Fatalf("nothing should run after cancellation, got %v", rec.order)
	}
}

func TestRun_CancelMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	first := &Func{ID: "first", Action: func(context.Context) error {
		rec.order = append(rec.order, "first")
		cancel()
		return nil
	}}
	second := rec.step("second", first)

	_, err := Run(ctx, second)
	if !errors.IsCode(err, errors.ErrCodeCanceled) {
		t.Fatalf("expected CANCELED, got %v", err)
	}
	if want := []string{"first"}; !reflect.DeepEqual(rec.order, want) {
		t.Fatalf("order = %v, want %v", rec.order, want)
	}
}

func TestRun_Cycle(t *testing.T) {
	a := &Func{ID: "a"}
	b := &Func{ID: "b", Deps: []Step{a}}
	a.Deps = []Step{b}

	_, err := Run(context.Background(), a)
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for a cycle, got %v", err)
	}
}

func TestRun_FreshStatePerRun(t *testing.T) {
	rec := &recorder{}
	a := rec.step("a")

	sched := NewScheduler()
	for i := 0; i < 2; i++ {
		if _, err := sched.Run(context.Background(), a); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if len(rec.order) != 2 {
		t.Fatalf("each run should execute the step, got %v", rec.order)
	}
}

func TestRun_RunIDsDiffer(t *testing.T) {
	a := &Func{ID: "a"}
	r1, _ := Run(context.Background(), a)
	r2, _ := Run(context.Background(), a)
	if r1.RunID == r2.RunID {
		t.Fatal("expected distinct run IDs")
	}
}

func TestOnPinned(t *testing.T) {
	var pinned []string
	p := &Func{ID: "p", Pin: true}
	sched := NewScheduler(OnPinned(func(_ context.Context, name string) {
		pinned = append(pinned, name)
	}))
	if _, err := sched.Run(context.Background(), &Func{ID: "top", Deps: []Step{p, p}}); err != nil {
		t.Fatal(err)
	}
	if want := []string{"p"}; !reflect.DeepEqual(pinned, want) {
		t.Fatalf("pinned callbacks = %v, want %v", pinned, want)
	}
}

// --- Plan tests ---

func TestPlan(t *testing.T) {
	rec := &recorder{}
	d := rec.step("D")
	b := rec.step("B", d)
	b.Pin = true
	c := rec.step("C", d)
	a := rec.step("A", b, c)

	plan := Plan(a)
	var names []string
	for _, p := range plan {
		names = append(names, p.Name)
	}
	if want := []string{"D", "B", "C", "A"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("plan = %v, want %v", names, want)
	}
	if !plan[1].Pinned || plan[0].Pinned {
		t.Errorf("pinned flags wrong: %+v", plan)
	}
	if plan[3].Step != Step(a) {
		t.Error("plan should reference the original steps")
	}
	if len(rec.order) != 0 {
		t.Fatalf("Plan must not execute, got %v", rec.order)
	}
}

// --- Name tests ---

type anonymous struct{}

func (*anonymous) Dependencies() []Step              { return nil }
func (*anonymous) Pinned() bool                      { return false }
func (*anonymous) Execute(ctx context.Context) error { return nil }

func TestName(t *testing.T) {
	if got := Name(&Func{ID: "top.syn"}); got != "top.syn" {
		t.Errorf("expected top.syn, got %q", got)
	}
	if got := Name(&anonymous{}); got != "*step.anonymous" {
		t.Errorf("expected type name, got %q", got)
	}
}

func TestFunc_NilAction(t *testing.T) {
	if err := (&Func{ID: "noop"}).Execute(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
