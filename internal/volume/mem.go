package volume

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Mem is an in-memory volume. It counts open handles so callers can check
// that every handle is released, and it can inject failures per path.
type Mem struct {
	name string

	mu       sync.Mutex
	nodes    map[string]*memNode
	open     int
	closeErr int
	fail     map[string]error
	hook     func(op, path string)
}

type memNode struct {
	attrs    Attributes
	data     []byte
	children []string
}

// Failure injection points for Mem.Fail
const (
	OpOpenDirectory = "opendir"
	OpReadDirectory = "readdir"
	OpOpenFile      = "open"
	OpSize          = "size"
	OpRead          = "read"
)

// NewMem returns an empty in-memory volume with a root directory
func NewMem(name string) *Mem {
	return &Mem{
		name:  name,
		nodes: map[string]*memNode{"/": {attrs: AttrDirectory}},
		fail:  make(map[string]error),
	}
}

func (m *Mem) Name() string { return m.name }

// Mkdir creates a directory and any missing parents
func (m *Mem) Mkdir(path string, attrs Attributes) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(dirKey(path), &memNode{attrs: attrs | AttrDirectory})
}

// WriteFile creates or replaces a file and any missing parent directories
func (m *Mem) WriteFile(path string, data []byte, attrs Attributes) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.add(fileKey(path), &memNode{attrs: attrs &^ AttrDirectory, data: buf})
}

// Fail makes op on path return err until cleared with a nil err
func (m *Mem) Fail(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := op + ":" + path
	if err == nil {
		delete(m.fail, key)
		return
	}
	m.fail[key] = err
}

// SetHook installs fn, called before each operation with its path
func (m *Mem) SetHook(fn func(op, path string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hook = fn
}

// OpenHandles returns the number of handles not yet closed
func (m *Mem) OpenHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// DoubleCloses returns how many Close calls hit an already closed handle
func (m *Mem) DoubleCloses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeErr
}

func (m *Mem) add(key string, node *memNode) {
	if existing, ok := m.nodes[key]; ok {
		node.children = existing.children
		m.nodes[key] = node
		return
	}
	parent := dirKey(Parent(key))
	if _, ok := m.nodes[parent]; !ok {
		m.add(parent, &memNode{attrs: AttrDirectory})
	}
	m.nodes[parent].children = append(m.nodes[parent].children, key)
	m.nodes[key] = node
}

func dirKey(path string) string {
	cleaned, err := Clean(path)
	if err != nil {
		panic(fmt.Sprintf("volume: bad path %q", path))
	}
	if !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}
	return cleaned
}

func fileKey(path string) string {
	cleaned, err := Clean(path)
	if err != nil {
		panic(fmt.Sprintf("volume: bad path %q", path))
	}
	return strings.TrimSuffix(cleaned, "/")
}

func baseName(key string) string {
	trimmed := strings.TrimSuffix(key, "/")
	return trimmed[strings.LastIndex(trimmed, "/")+1:]
}

// before runs the hook outside the lock and returns any injected failure
func (m *Mem) before(op, path string) error {
	m.mu.Lock()
	hook := m.hook
	m.mu.Unlock()
	if hook != nil {
		hook(op, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fail[op+":"+path]
}

func (m *Mem) OpenDirectory(path string) (Directory, error) {
	if _, err := Clean(path); err != nil {
		return nil, err
	}
	key := dirKey(path)
	if err := m.before(OpOpenDirectory, key); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	node, ok := m.nodes[key]
	if !ok {
		if _, isFile := m.nodes[fileKey(path)]; isFile {
			return nil, fmt.Errorf("%s: %w", path, ErrNotDirectory)
		}
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	m.open++
	return &memDirectory{vol: m, key: key, children: append([]string(nil), node.children...)}, nil
}

func (m *Mem) OpenFile(path string, mode OpenMode) (File, error) {
	if mode&(OpenWrite|OpenCreate) != 0 {
		return nil, ErrReadOnly
	}
	if _, err := Clean(path); err != nil {
		return nil, err
	}
	key := fileKey(path)
	if err := m.before(OpOpenFile, key); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	node, ok := m.nodes[key]
	if !ok {
		if _, isDir := m.nodes[dirKey(path)]; isDir {
			return nil, fmt.Errorf("%s: %w", path, ErrIsDirectory)
		}
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	m.open++
	return &memFile{vol: m, key: key, data: node.data}, nil
}

func (m *Mem) release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open--
	return nil
}

func (m *Mem) closedTwice() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeErr++
	return ErrClosed
}

type memDirectory struct {
	vol      *Mem
	key      string
	children []string
	pos      int
	closed   bool
}

func (d *memDirectory) Read(max int) ([]Entry, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if err := d.vol.before(OpReadDirectory, d.key); err != nil {
		return nil, err
	}
	if max <= 0 || d.pos >= len(d.children) {
		return nil, nil
	}
	end := d.pos + max
	if end > len(d.children) {
		end = len(d.children)
	}

	d.vol.mu.Lock()
	defer d.vol.mu.Unlock()
	entries := make([]Entry, 0, end-d.pos)
	for _, key := range d.children[d.pos:end] {
		node := d.vol.nodes[key]
		entries = append(entries, Entry{Name: baseName(key), Attributes: node.attrs})
	}
	d.pos = end
	return entries, nil
}

func (d *memDirectory) Close() error {
	if d.closed {
		return d.vol.closedTwice()
	}
	d.closed = true
	return d.vol.release()
}

type memFile struct {
	vol    *Mem
	key    string
	data   []byte
	closed bool
}

func (f *memFile) Size() (int64, error) {
	if f.closed {
		return 0, ErrClosed
	}
	if err := f.vol.before(OpSize, f.key); err != nil {
		return 0, err
	}
	return int64(len(f.data)), nil
}

func (f *memFile) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	if err := f.vol.before(OpRead, f.key); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, fmt.Errorf("%s: negative offset %d", f.key, off)
	}
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *memFile) Close() error {
	if f.closed {
		return f.vol.closedTwice()
	}
	f.closed = true
	return f.vol.release()
}
