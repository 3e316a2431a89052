package tokenizer

import (
	"sync"
)

// chunkPool is a sync.Pool for the per-tokenizer chunk buffers.
// One buffer is checked out per parse operation and returned on Close,
// so independent tokenizers never share a buffer.
var chunkPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, defaultChunkSize)
		return &b
	},
}

// fieldPool is a sync.Pool for field accumulators used while assembling
// the current field's text.
var fieldPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 256)
		return &b
	},
}

// getChunkBuffer gets a chunk buffer of at least size bytes from the pool,
// allocating a fresh one when the pooled buffer is too small.
func getChunkBuffer(size int) []byte {
	p := chunkPool.Get().(*[]byte)
	buf := *p
	if cap(buf) < size {
		return make([]byte, size)
	}
	return buf[:size]
}

// putChunkBuffer returns a chunk buffer to the pool.
func putChunkBuffer(buf []byte) {
	if buf == nil {
		return
	}
	chunkPool.Put(&buf)
}

// getFieldBuffer gets a field accumulator from the pool with length 0.
func getFieldBuffer() []byte {
	p := fieldPool.Get().(*[]byte)
	return (*p)[:0]
}

// putFieldBuffer returns a field accumulator to the pool.
// Oversized accumulators are dropped so one huge field does not pin memory.
func putFieldBuffer(buf []byte) {
	const maxCapacity = 64 * 1024
	if buf == nil || cap(buf) > maxCapacity {
		return
	}
	buf = buf[:0]
	fieldPool.Put(&buf)
}
