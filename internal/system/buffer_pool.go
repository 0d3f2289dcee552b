package system

import (
	"image"
	"sync"
)

// ImagePool recycles *image.RGBA buffers keyed by their bounds. A nil pool
// is valid and simply allocates.
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	if p == nil {
		return image.NewRGBA(rect)
	}

	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

// Put returns img for reuse. Images of a size never requested are dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if p == nil || img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
