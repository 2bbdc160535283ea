package analyser

import "sync"

// sampleRing is a thread-safe circular buffer of mono samples. The audio
// goroutine writes; the frame loop reads the most recent window.
type sampleRing struct {
	mu   sync.Mutex
	buf  []float32
	w    int // write position
	fill int
}

func newSampleRing(size int) *sampleRing {
	return &sampleRing{buf: make([]float32, size)}
}

func (r *sampleRing) write(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.buf)
	if len(samples) > n {
		samples = samples[len(samples)-n:]
	}
	for _, s := range samples {
		r.buf[r.w] = s
		r.w = (r.w + 1) % n
	}
	r.fill += len(samples)
	if r.fill > n {
		r.fill = n
	}
}

// latest copies the most recent len(dst) samples into dst, oldest first.
// When fewer have been written the front of dst is zero-filled.
func (r *sampleRing) latest(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.buf)
	want := len(dst)
	have := r.fill
	if have > want {
		have = want
	}
	pad := want - have
	for i := 0; i < pad; i++ {
		dst[i] = 0
	}
	start := (r.w - have + n) % n
	for i := 0; i < have; i++ {
		dst[pad+i] = r.buf[(start+i)%n]
	}
}

func (r *sampleRing) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w = 0
	r.fill = 0
}
