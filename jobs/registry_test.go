package jobs

import (
	"errors"
	"testing"
)

type greeter struct {
	name string
}

func (g *greeter) OwnerName() string { return "Greeter" }

func (g *greeter) RegisterProcessors(m *Manager) {
	Bind(m, g.OwnerName(), "hello", (*greeter).hello, Metadata{Type: TypeReportGeneration, Priority: PriorityHigh})
}

func (g *greeter) hello(req *Request, res Response, next Next) {
	res.JSON("hello " + g.name)
}

func TestSplitKey(t *testing.T) {
	owner, method, err := SplitKey("ReportController.generate")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if owner != "ReportController" || method != "generate" {
		t.Errorf("Wrong split: %s %s", owner, method)
	}

	for _, key := range []string{"", "nodot", ".method", "Owner.", "A.b.c"} {
		if _, _, err := SplitKey(key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Key %q should be invalid, got %v", key, err)
		}
	}
}

func TestRegisterUpdatesExistingEntry(t *testing.T) {
	r := NewProcessorRegistry()
	fn := func(owner interface{}, req *Request, res Response, next Next) {}

	if err := r.Declare("Report.generate", Metadata{Type: TypeReportGeneration}); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	if _, ok := r.Resolve("Report.generate"); ok {
		t.Errorf("Declared key without callable must not resolve")
	}

	if err := r.Register("Report.generate", fn, Metadata{Priority: PriorityHigh}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	info, ok := r.Resolve("Report.generate")
	if !ok {
		t.Fatalf("Key should resolve after registration")
	}
	if info.Metadata.Type != TypeReportGeneration || info.Metadata.Priority != PriorityHigh {
		t.Errorf("Metadata not merged: %+v", info.Metadata)
	}
	if info.Owner != "Report" || info.Method != "generate" {
		t.Errorf("Wrong owner/method: %s %s", info.Owner, info.Method)
	}

	if err := r.Register("Report.generate", nil, Metadata{Type: TypeDataProcessing}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	info, ok = r.Resolve("Report.generate")
	if !ok || info.Processor == nil {
		t.Fatalf("Callable lost on metadata update")
	}
	if info.Metadata.Type != TypeDataProcessing {
		t.Errorf("Type not updated: %s", info.Metadata.Type)
	}

	if len(r.Keys()) != 1 {
		t.Errorf("Expected one key, got %v", r.Keys())
	}
}

func TestRegisterRejectsMalformedKey(t *testing.T) {
	r := NewProcessorRegistry()
	if err := r.Register("broken", nil, Metadata{}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey, got %v", err)
	}
}

func TestStatsAndClear(t *testing.T) {
	r := NewProcessorRegistry()
	_ = r.Declare("A.one", Metadata{Type: TypeMLTraining})
	_ = r.Declare("A.two", Metadata{Type: TypeMLTraining})
	_ = r.Declare("B.one", Metadata{})

	stats := r.Stats()
	if stats.Total != 3 {
		t.Errorf("Total should be 3: %d", stats.Total)
	}
	if stats.ByType[string(TypeMLTraining)] != 2 || stats.ByType["unknown"] != 1 {
		t.Errorf("Wrong counts: %v", stats.ByType)
	}

	r.Clear()
	if r.Stats().Total != 0 {
		t.Errorf("Registry not cleared")
	}
}

func TestManagerResolve(t *testing.T) {
	m := NewManager()
	m.Install(&greeter{name: "world"})

	info, instance, err := m.Resolve("Greeter.hello")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if info.OwnerType != "*jobs.greeter" {
		t.Errorf("Wrong owner type: %s", info.OwnerType)
	}

	res := &recorder{}
	info.Processor(instance, &Request{}, res, func(err error) { t.Errorf("Unexpected error: %v", err) })
	if res.data != "hello world" {
		t.Errorf("Wrong response: %v", res.data)
	}

	if _, _, err := m.Resolve("Greeter.missing"); !errors.Is(err, ErrProcessorNotFound) {
		t.Errorf("Expected ErrProcessorNotFound, got %v", err)
	}
	if _, _, err := m.Resolve("bad"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey, got %v", err)
	}

	m.Instances().Clear()
	if _, _, err := m.Resolve("Greeter.hello"); !errors.Is(err, ErrOwnerNotRegistered) {
		t.Errorf("Expected ErrOwnerNotRegistered, got %v", err)
	}
}

func TestBindRejectsWrongInstance(t *testing.T) {
	m := NewManager()
	m.Install(&greeter{})
	m.Instances().RegisterInstance("Greeter", "not a greeter")

	info, instance, err := m.Resolve("Greeter.hello")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	var got error
	info.Processor(instance, &Request{}, &recorder{}, func(err error) { got = err })
	if got == nil {
		t.Errorf("Expected type mismatch error")
	}
}

// recorder is a Response that keeps what was written.
type recorder struct {
	code int
	data interface{}
}

func (r *recorder) Status(code int) Response {
	r.code = code
	return r
}

func (r *recorder) JSON(data interface{}) {
	r.data = data
}

func TestListOrdersByKey(t *testing.T) {
	r := NewProcessorRegistry()
	_ = r.Declare("B.run", Metadata{})
	_ = r.Declare("A.run", Metadata{Type: TypeMLTraining})

	infos := r.List()
	if len(infos) != 2 || infos[0].Key != "A.run" || infos[1].Key != "B.run" {
		t.Errorf("Wrong order: %+v", infos)
	}
	if infos[0].Metadata.Type != TypeMLTraining {
		t.Errorf("Metadata not copied")
	}
}
