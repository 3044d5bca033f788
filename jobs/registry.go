package jobs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidKey         = errors.New("invalid job key format")
	ErrProcessorNotFound  = errors.New("job processor not found")
	ErrOwnerNotRegistered = errors.New("controller instance not found")
)

// Processor is an unbound processor method. The owner instance it belongs
// to is passed explicitly on every call.
type Processor func(owner interface{}, req *Request, res Response, next Next)

// Metadata is what an owner declares about one of its processors.
type Metadata struct {
	Type     JobType     `json:"type,omitempty"`
	Priority JobPriority `json:"priority,omitempty"`
}

// ProcessorInfo is a registry entry. Processor is nil while only the
// metadata has been declared.
type ProcessorInfo struct {
	Key       string    `json:"key"`
	Owner     string    `json:"owner"`
	Method    string    `json:"method"`
	OwnerType string    `json:"ownerType,omitempty"`
	Metadata  Metadata  `json:"metadata"`
	Processor Processor `json:"-"`
}

type Stats struct {
	Total  int            `json:"total" extensions:"!x-nullable"`
	ByType map[string]int `json:"byType" extensions:"!x-nullable"`
}

// ProcessorRegistry maps "<owner>.<method>" keys to processors.
// It is safe for concurrent use.
type ProcessorRegistry struct {
	mu         sync.RWMutex
	processors map[string]*ProcessorInfo
}

func NewProcessorRegistry() *ProcessorRegistry {
	return &ProcessorRegistry{
		processors: make(map[string]*ProcessorInfo),
	}
}

func ProcessorKey(owner, method string) string {
	return owner + "." + method
}

// SplitKey returns the owner and method names of a processor key.
func SplitKey(key string) (string, string, error) {
	owner, method, found := strings.Cut(key, ".")
	if !found || owner == "" || method == "" || strings.Contains(method, ".") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return owner, method, nil
}

// Declare records metadata for a key whose callable is attached later by
// Register. The key does not resolve until then.
func (r *ProcessorRegistry) Declare(key string, meta Metadata) error {
	return r.Register(key, nil, meta)
}

// Register adds or updates the processor stored under key. Registering the
// same key twice updates the existing entry: a nil fn keeps the current
// callable and non-empty metadata fields overwrite the previous ones.
func (r *ProcessorRegistry) Register(key string, fn Processor, meta Metadata) error {
	owner, method, err := SplitKey(key)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	info, exists := r.processors[key]
	if !exists {
		info = &ProcessorInfo{Key: key, Owner: owner, Method: method}
		r.processors[key] = info
	}
	if fn != nil {
		info.Processor = fn
	}
	if meta.Type != "" {
		info.Metadata.Type = meta.Type
	}
	if meta.Priority != "" {
		info.Metadata.Priority = meta.Priority
	}

	log.Debugf("[ProcessorRegistry] Registered %s (type: %s, priority: %s, callable: %t)", key, info.Metadata.Type, info.Metadata.Priority, info.Processor != nil)

	return nil
}

func (r *ProcessorRegistry) setOwnerType(key, ownerType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if info, ok := r.processors[key]; ok {
		info.OwnerType = ownerType
	}
}

// Resolve returns a copy of the entry for key. Keys that are unknown or
// still missing their callable report false.
func (r *ProcessorRegistry) Resolve(key string) (ProcessorInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.processors[key]
	if !ok || info.Processor == nil {
		return ProcessorInfo{}, false
	}
	return *info, true
}

// Keys returns all registered keys in lexical order.
func (r *ProcessorRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.processors))
	for key := range r.processors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// List returns copies of all entries ordered by key.
func (r *ProcessorRegistry) List() []ProcessorInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ProcessorInfo, 0, len(r.processors))
	for _, info := range r.processors {
		infos = append(infos, *info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos
}

func (r *ProcessorRegistry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{Total: len(r.processors), ByType: make(map[string]int)}
	for _, info := range r.processors {
		jobType := string(info.Metadata.Type)
		if jobType == "" {
			jobType = "unknown"
		}
		stats.ByType[jobType]++
	}
	return stats
}

// Clear drops every entry. Only tests should need this.
func (r *ProcessorRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processors = make(map[string]*ProcessorInfo)
}
