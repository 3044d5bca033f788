package jobs

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// InstanceRegistry maps an owner name to the live instance whose methods
// implement that owner's processors.
type InstanceRegistry struct {
	mu        sync.RWMutex
	instances map[string]interface{}
}

func NewInstanceRegistry() *InstanceRegistry {
	return &InstanceRegistry{instances: make(map[string]interface{})}
}

func (r *InstanceRegistry) RegisterInstance(owner string, instance interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[owner] = instance
	log.Debugf("[InstanceRegistry] Registered controller instance %s (%T)", owner, instance)
}

func (r *InstanceRegistry) Instance(owner string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	instance, ok := r.instances[owner]
	return instance, ok
}

func (r *InstanceRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = make(map[string]interface{})
}

// Owner is implemented by every component that contributes processors.
// RegisterProcessors pushes the owner's processors into the manager; it is
// called right after the instance itself has been registered.
type Owner interface {
	OwnerName() string
	RegisterProcessors(m *Manager)
}

// Manager groups the processor and instance registries.
type Manager struct {
	processors *ProcessorRegistry
	instances  *InstanceRegistry
}

func NewManager() *Manager {
	return &Manager{
		processors: NewProcessorRegistry(),
		instances:  NewInstanceRegistry(),
	}
}

func (m *Manager) Processors() *ProcessorRegistry { return m.processors }

func (m *Manager) Instances() *InstanceRegistry { return m.instances }

// Install registers each owner instance followed by its processors.
func (m *Manager) Install(owners ...Owner) {
	for _, owner := range owners {
		m.instances.RegisterInstance(owner.OwnerName(), owner)
		owner.RegisterProcessors(m)
		log.Infof("[Manager] Initialized controller %s", owner.OwnerName())
	}

	stats := m.processors.Stats()
	log.Infof("[Manager] %d processors registered %v", stats.Total, stats.ByType)
}

// Resolve looks up the processor for key and the live instance of its owner.
func (m *Manager) Resolve(key string) (ProcessorInfo, interface{}, error) {
	owner, _, err := SplitKey(key)
	if err != nil {
		return ProcessorInfo{}, nil, err
	}

	info, ok := m.processors.Resolve(key)
	if !ok {
		return ProcessorInfo{}, nil, fmt.Errorf("%w: %s", ErrProcessorNotFound, key)
	}

	instance, ok := m.instances.Instance(owner)
	if !ok {
		return ProcessorInfo{}, nil, fmt.Errorf("%w: %s", ErrOwnerNotRegistered, owner)
	}

	return info, instance, nil
}

// Bind registers method of owner type O as a processor. The stored callable
// stays unbound; the instance is looked up at execution time and checked
// against O before the call.
func Bind[O any](m *Manager, owner, method string, fn func(O, *Request, Response, Next), meta Metadata) {
	key := ProcessorKey(owner, method)

	processor := func(instance interface{}, req *Request, res Response, next Next) {
		typed, ok := instance.(O)
		if !ok {
			var want O
			next(fmt.Errorf("controller instance %s is %T, processor %s expects %T", owner, instance, key, want))
			return
		}
		fn(typed, req, res, next)
	}

	if err := m.processors.Register(key, processor, meta); err != nil {
		log.Errorf("[Manager] Error registering processor %s: %s", key, err)
		return
	}

	var zero O
	m.processors.setOwnerType(key, fmt.Sprintf("%T", zero))
}
