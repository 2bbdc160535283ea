package analyser

import "math"

// fftPlan holds the bit-reversal order and twiddle factors for a fixed
// power-of-two transform size.
type fftPlan struct {
	n       int
	reverse []int
	cos     []float64
	sin     []float64
}

func newFFTPlan(n int) *fftPlan {
	p := &fftPlan{
		n:       n,
		reverse: make([]int, n),
		cos:     make([]float64, n/2),
		sin:     make([]float64, n/2),
	}
	bits := 0
	for 1<<bits < n {
		bits++
	}
	for i := range p.reverse {
		r := 0
		for b := 0; b < bits; b++ {
			if i&(1<<b) != 0 {
				r |= 1 << (bits - 1 - b)
			}
		}
		p.reverse[i] = r
	}
	for k := range p.cos {
		angle := -2 * math.Pi * float64(k) / float64(n)
		p.cos[k] = math.Cos(angle)
		p.sin[k] = math.Sin(angle)
	}
	return p
}

// transform runs an in-place radix-2 Cooley-Tukey FFT.
func (p *fftPlan) transform(re, im []float64) {
	n := p.n
	for i, j := range p.reverse {
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		stride := n / size
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				wr, wi := p.cos[k*stride], p.sin[k*stride]
				a := start + k
				b := a + half
				tr := wr*re[b] - wi*im[b]
				ti := wr*im[b] + wi*re[b]
				re[b] = re[a] - tr
				im[b] = im[a] - ti
				re[a] += tr
				im[a] += ti
			}
		}
	}
}
