package burn

import (
	"os"
	"sync"
)

// Output streams a rendered video. Close is idempotent and removes every
// file the burn created.
type Output struct {
	Name string
	Size int64

	file *os.File
	dir  string

	mu       sync.Mutex
	hooks    []func()
	once     sync.Once
	closeErr error
}

// Read implements io.Reader.
func (o *Output) Read(p []byte) (int, error) {
	return o.file.Read(p)
}

// OnClose registers fn to run when the output is closed. Hooks run once, in
// registration order, after the files are removed.
func (o *Output) OnClose(fn func()) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hooks = append(o.hooks, fn)
}

// Close releases the stream, deletes the work directory, and runs hooks.
func (o *Output) Close() error {
	o.once.Do(func() {
		o.closeErr = o.file.Close()
		if err := os.RemoveAll(o.dir); err != nil && o.closeErr == nil {
			o.closeErr = err
		}
		o.mu.Lock()
		hooks := o.hooks
		o.hooks = nil
		o.mu.Unlock()
		for _, hook := range hooks {
			hook()
		}
	})
	return o.closeErr
}
