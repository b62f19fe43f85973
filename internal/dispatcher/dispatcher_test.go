package dispatcher_test

import (
	"context"
	"testing"

	"github.com/smykla-labs/hookgate/internal/dispatcher"
	"github.com/smykla-labs/hookgate/internal/validator"
	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

type fakeValidator struct {
	name     string
	result   *validator.Result
	category validator.Category
	calls    int
}

func (f *fakeValidator) Name() string { return f.name }

func (f *fakeValidator) Validate(context.Context, *hook.Context) *validator.Result {
	f.calls++

	return f.result
}

func (f *fakeValidator) Category() validator.Category { return f.category }

type panicValidator struct{}

func (*panicValidator) Name() string { return "panics" }

func (*panicValidator) Validate(context.Context, *hook.Context) *validator.Result {
	panic("boom")
}

func (*panicValidator) Category() validator.Category { return validator.CategoryCPU }

func bashCtx(command string) *hook.Context {
	return &hook.Context{
		EventType: hook.EventTypePreToolUse,
		ToolName:  hook.ToolTypeBash,
		ToolInput: hook.ToolInput{Command: command},
	}
}

func TestDispatchCollectsFailures(t *testing.T) {
	registry := validator.NewRegistry()
	registry.Register(
		&fakeValidator{name: "blocker", result: validator.Fail("nope")},
		validator.Always(),
	)
	registry.Register(
		&fakeValidator{name: "warner", result: validator.Warn("careful")},
		validator.Always(),
	)

	d := dispatcher.NewDispatcher(registry, logger.NewNoOpLogger())

	errs, _ := d.Dispatch(context.Background(), bashCtx("ls"))
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}

	if !dispatcher.ShouldBlock(errs) {
		t.Error("expected ShouldBlock to be true")
	}

	if errs[0].Validator != "blocker" || !errs[0].ShouldBlock {
		t.Errorf("first error = %+v", errs[0])
	}

	if errs[1].Validator != "warner" || errs[1].ShouldBlock {
		t.Errorf("second error = %+v", errs[1])
	}
}

func TestDispatchCollectsContexts(t *testing.T) {
	registry := validator.NewRegistry()
	registry.Register(
		&fakeValidator{name: "router", result: validator.PassWithContext("routed to backend")},
		validator.Always(),
	)

	d := dispatcher.NewDispatcher(registry, logger.NewNoOpLogger())

	errs, contexts := d.Dispatch(context.Background(), bashCtx("ls"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(contexts) != 1 || contexts[0] != "routed to backend" {
		t.Errorf("contexts = %v", contexts)
	}
}

func TestDispatchSurvivesPanickingValidator(t *testing.T) {
	after := &fakeValidator{name: "after", result: validator.Fail("still runs")}

	registry := validator.NewRegistry()
	registry.Register(&panicValidator{}, validator.Always())
	registry.Register(after, validator.Always())

	d := dispatcher.NewDispatcher(registry, logger.NewNoOpLogger())

	errs, _ := d.Dispatch(context.Background(), bashCtx("ls"))

	// The panicking validator contributes nothing; the next one still runs.
	if len(errs) != 1 || errs[0].Validator != "after" {
		t.Errorf("errs = %v", errs)
	}

	if after.calls != 1 {
		t.Errorf("after.calls = %d", after.calls)
	}
}

func TestDispatchIsIdempotent(t *testing.T) {
	registry := validator.NewRegistry()
	registry.Register(
		&fakeValidator{name: "gate", result: validator.Fail("denied")},
		validator.CommandContains("rm -rf /"),
	)

	d := dispatcher.NewDispatcher(registry, logger.NewNoOpLogger())

	first, _ := d.Dispatch(context.Background(), bashCtx("rm -rf /"))
	second, _ := d.Dispatch(context.Background(), bashCtx("rm -rf /"))

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("first=%d second=%d", len(first), len(second))
	}

	if first[0].Message != second[0].Message {
		t.Error("identical input produced different decisions")
	}
}

func TestDispatchSyntheticWriteContexts(t *testing.T) {
	var seenPaths []string

	registry := validator.NewRegistry()
	registry.Register(
		&recordingValidator{paths: &seenPaths},
		validator.ToolTypeIs(hook.ToolTypeWrite),
	)

	d := dispatcher.NewDispatcher(registry, logger.NewNoOpLogger())

	_, _ = d.Dispatch(context.Background(), bashCtx("echo secret > .env"))

	if len(seenPaths) != 1 || seenPaths[0] != ".env" {
		t.Errorf("seenPaths = %v", seenPaths)
	}
}

type recordingValidator struct {
	paths *[]string
}

func (*recordingValidator) Name() string { return "recorder" }

func (r *recordingValidator) Validate(_ context.Context, hookCtx *hook.Context) *validator.Result {
	*r.paths = append(*r.paths, hookCtx.GetFilePath())

	return validator.Pass()
}

func (*recordingValidator) Category() validator.Category { return validator.CategoryCPU }

func TestParallelExecutorPreservesOrder(t *testing.T) {
	validators := []validator.Validator{
		&fakeValidator{name: "a", result: validator.Fail("a failed"), category: validator.CategoryCPU},
		&fakeValidator{name: "b", result: validator.Pass(), category: validator.CategoryIO},
		&fakeValidator{name: "c", result: validator.Warn("c warned"), category: validator.CategoryCPU},
	}

	exec := dispatcher.NewParallelExecutor(logger.NewNoOpLogger(), nil)

	errs, _ := exec.Execute(context.Background(), bashCtx("ls"), validators)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}

	if errs[0].Validator != "a" || errs[1].Validator != "c" {
		t.Errorf("order = [%s %s], want [a c]", errs[0].Validator, errs[1].Validator)
	}
}

func TestParallelExecutorSurvivesPanic(t *testing.T) {
	validators := []validator.Validator{
		&panicValidator{},
		&fakeValidator{name: "ok", result: validator.Fail("fine")},
	}

	exec := dispatcher.NewParallelExecutor(logger.NewNoOpLogger(), nil)

	errs, _ := exec.Execute(context.Background(), bashCtx("ls"), validators)
	if len(errs) != 1 || errs[0].Validator != "ok" {
		t.Errorf("errs = %v", errs)
	}
}

func TestSequentialExecutorStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := &fakeValidator{name: "never", result: validator.Fail("x")}
	exec := dispatcher.NewSequentialExecutor(logger.NewNoOpLogger())

	errs, _ := exec.Execute(ctx, bashCtx("ls"), []validator.Validator{v})
	if len(errs) != 0 {
		t.Errorf("errs = %v", errs)
	}

	if v.calls != 0 {
		t.Errorf("validator ran %d times on cancelled context", v.calls)
	}
}
