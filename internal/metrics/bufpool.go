// Buffer pool for metric text generation, avoiding an allocation on every
// scrape. Adapted from the buffer-pool half of a VictoriaMetrics importer's
// read-file buffer pool; the file-reading half has no use in this domain (the
// simulator does not read /proc files for its own sake) and was dropped.

package metrics

import "bytes"

const BufPoolMaxSizeUnbound = 0

type BufPool struct {
	pool        []*bytes.Buffer
	maxPoolSize int
}

func NewBufPool(maxPoolSize int) *BufPool {
	return &BufPool{
		pool:        make([]*bytes.Buffer, 0),
		maxPoolSize: maxPoolSize,
	}
}

func (p *BufPool) GetBuf() *bytes.Buffer {
	n := len(p.pool)
	if n > 0 {
		buf := p.pool[n-1]
		p.pool = p.pool[:n-1]
		buf.Reset()
		return buf
	}
	return &bytes.Buffer{}
}

func (p *BufPool) ReturnBuf(b *bytes.Buffer) {
	if b == nil {
		return
	}
	if p.maxPoolSize > 0 && len(p.pool) >= p.maxPoolSize {
		return
	}
	p.pool = append(p.pool, b)
}
