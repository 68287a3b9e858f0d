package core

const AVG_COUNT uint8 = 30

// FrameMetrics keeps a rolling frame-time average and a frames-per-second
// counter that refreshes once per accumulated second.
type FrameMetrics struct {
	frameAVGCounter    uint8
	msTimes            [AVG_COUNT]float64
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

func NewFrameMetrics() *FrameMetrics {
	return &FrameMetrics{}
}

// Update records one frame. It returns true when the FPS value was refreshed
// during this call.
func (m *FrameMetrics) Update(frameElapsedSeconds float64) bool {
	// Calculate frame ms average
	frameMS := frameElapsedSeconds * 1000.0
	m.msTimes[m.frameAVGCounter] = frameMS
	if m.frameAVGCounter == AVG_COUNT-1 {
		var sum float64
		for i := uint8(0); i < AVG_COUNT; i++ {
			sum += m.msTimes[i]
		}
		m.msAvg = sum / float64(AVG_COUNT)
	}
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT

	// Count all frames.
	m.frames++

	// Calculate frames per second.
	refreshed := false
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
		refreshed = true
	}
	return refreshed
}

func (m *FrameMetrics) FPS() float64 {
	return m.fps
}

// FrameTime returns the average frame time in milliseconds over the last
// AVG_COUNT frames.
func (m *FrameMetrics) FrameTime() float64 {
	return m.msAvg
}

func (m *FrameMetrics) Frame() (float64, float64) {
	return m.fps, m.msAvg
}
