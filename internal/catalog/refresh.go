package catalog

// Refresh is a coalescing refetch signal: any number of Signal calls before
// the watcher wakes up produce one reload.
type Refresh struct {
	ch chan struct{}
}

func NewRefresh() *Refresh {
	return &Refresh{ch: make(chan struct{}, 1)}
}

func (r *Refresh) Signal() {
	select {
	case r.ch <- struct{}{}:
	default:
	}
}

func (r *Refresh) C() <-chan struct{} { return r.ch }
