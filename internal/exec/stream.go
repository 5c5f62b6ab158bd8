package exec

// Stream is the execution context's ordered asynchronous work queue.
// Operations submitted to a stream run one at a time in submission order;
// Sync blocks until everything submitted so far has completed. Plan
// transfers are issued on the stream fire-and-forget and fenced by a later
// Sync before compute starts.
type Stream struct {
	ops  chan func()
	done chan struct{}
}

// NewStream creates a stream and starts its worker.
func NewStream() *Stream {
	s := &Stream{
		ops:  make(chan func(), 16),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Stream) run() {
	defer close(s.done)
	for op := range s.ops {
		op()
	}
}

// Submit enqueues op without waiting for it to run.
func (s *Stream) Submit(op func()) {
	s.ops <- op
}

// Sync blocks until every previously submitted operation has completed.
func (s *Stream) Sync() {
	fence := make(chan struct{})
	s.ops <- func() { close(fence) }
	<-fence
}

// Close drains the stream and stops its worker.
func (s *Stream) Close() {
	close(s.ops)
	<-s.done
}
