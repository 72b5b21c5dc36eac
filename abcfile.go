package avm2

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/saferwall/avm2/log"
)

// Options configures how a Module is parsed and how it and its VM log.
// The zero value is a usable default, matching saferwall-pe's Options
// pattern (file.go).
type Options struct {
	// StrictBounds names the stack/scope depth checking of §3 invariant 5.
	// Neither ParseModule nor NewVM reads it: operand and scope stacks are
	// not checked against max_stack/max_scope_depth whichever way it is set.
	StrictBounds bool

	// LazyInitialize mirrors the DO_ABC tag's LAZY_INITIALIZE flag (§6):
	// when true, callers must not auto-run the entry point script.
	LazyInitialize bool

	// Logger overrides the default filtered-stdout logger.
	Logger log.Logger
}

func (o *Options) helper() *log.Helper {
	if o == nil || o.Logger == nil {
		return log.NewHelper(log.NewFilter(log.NewStdLogger(os.Stdout), log.FilterLevel(log.LevelError)))
	}
	return log.NewHelper(o.Logger)
}

// Module is a fully-parsed ABC file: the typed in-memory representation
// produced by the ABC Parser (§3, §4.B). Code slices inside MethodBodies
// borrow from the buffer this Module was parsed from; the buffer must
// outlive the Module (§5, §9).
type Module struct {
	MinorVersion uint16
	MajorVersion uint16

	ConstantPool ConstantPool
	Methods      []MethodInfo
	Metadata     []MetadataInfo
	Instances    []InstanceInfo
	Classes      []ClassInfo
	Scripts      []ScriptInfo
	MethodBodies []MethodBodyInfo

	// Anomalies accumulates recoverable oddities noticed while parsing
	// (a method with more than one body, instance and class counts that
	// differ) without failing the parse.
	// Adapted from saferwall-pe's File.Anomalies (helper.go/anomaly.go).
	Anomalies []string

	opts   *Options
	logger *log.Helper

	// closer is non-nil when the Module owns a memory-mapped file (Open),
	// and must be released by Close.
	closer func() error
}

// Open memory-maps the ABC body at path and parses it, matching
// saferwall-pe's File.New (file.go) — avoiding a full read/copy of large
// modules.
func Open(path string, opts *Options) (*Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	m, err := ParseModule(data, opts)
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, err
	}
	m.closer = func() error {
		if uerr := data.Unmap(); uerr != nil {
			f.Close()
			return uerr
		}
		return f.Close()
	}
	return m, nil
}

// Close releases resources acquired by Open. It is a no-op for Modules
// built with ParseModule.
func (m *Module) Close() error {
	if m.closer != nil {
		return m.closer()
	}
	return nil
}

// ParseModule parses an in-memory ABC body (§4.B). The body begins with
// the two version u16s, as delivered by a DO_ABC tag (§6).
func ParseModule(data []byte, opts *Options) (*Module, error) {
	m := &Module{opts: opts, logger: opts.helper()}
	r := NewReader(data)

	var err error
	if m.MinorVersion, err = r.U16(); err != nil {
		return nil, fmt.Errorf("minor_version: %w", err)
	}
	if m.MajorVersion, err = r.U16(); err != nil {
		return nil, fmt.Errorf("major_version: %w", err)
	}
	if m.ConstantPool, err = readConstantPool(r); err != nil {
		return nil, fmt.Errorf("constant_pool: %w", err)
	}
	if m.Methods, err = readList(r, readMethodInfo); err != nil {
		return nil, fmt.Errorf("methods: %w", err)
	}
	if m.Metadata, err = readList(r, readMetadataInfo); err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	classCount, err := r.U30()
	if err != nil {
		return nil, fmt.Errorf("class_count: %w", err)
	}
	m.Instances = make([]InstanceInfo, classCount)
	for i := range m.Instances {
		if m.Instances[i], err = readInstanceInfo(r); err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
	}
	m.Classes = make([]ClassInfo, classCount)
	for i := range m.Classes {
		if m.Classes[i], err = readClassInfo(r); err != nil {
			return nil, fmt.Errorf("class %d: %w", i, err)
		}
	}
	if m.Scripts, err = readList(r, readScriptInfo); err != nil {
		return nil, fmt.Errorf("scripts: %w", err)
	}
	if m.MethodBodies, err = readList(r, readMethodBodyInfo); err != nil {
		return nil, fmt.Errorf("method_bodies: %w", err)
	}

	m.collectAnomalies()
	return m, nil
}

// collectAnomalies records recoverable oddities, mirroring
// saferwall-pe's File.Parse/GetAnomalies pattern of logging but not
// failing on suspicious-but-survivable structure.
func (m *Module) collectAnomalies() {
	seen := make(map[uint32]bool, len(m.MethodBodies))
	for _, body := range m.MethodBodies {
		if seen[body.Method] {
			m.Anomalies = append(m.Anomalies, fmt.Sprintf("method %d has more than one body", body.Method))
			m.logger.Warnf("method %d has more than one body", body.Method)
		}
		seen[body.Method] = true
	}
	if len(m.Instances) != len(m.Classes) {
		m.Anomalies = append(m.Anomalies, "instances/classes count mismatch")
		m.logger.Errorf("instances (%d) and classes (%d) count mismatch", len(m.Instances), len(m.Classes))
	}
}
