package engine

import "github.com/arloliu/zbewalgo/format"

// Workspace is the working memory of one worker: three staging buffers for
// the double-buffered pipeline and the scratch words of the algorithms.
type Workspace struct {
	bufs    [3][]byte
	scratch []uint16
}

// NewWorkspace allocates a workspace with scratchWords algorithm scratch
// words, usually compress.Registry.MaxScratchWords.
func NewWorkspace(scratchWords int) *Workspace {
	ws := &Workspace{scratch: make([]uint16, scratchWords)}
	for i := range ws.bufs {
		ws.bufs[i] = make([]byte, format.BufferSize)
	}

	return ws
}

// Size returns the workspace size in bytes.
func (ws *Workspace) Size() int {
	n := 2 * len(ws.scratch)
	for _, b := range ws.bufs {
		n += len(b)
	}

	return n
}
