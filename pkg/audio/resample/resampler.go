// ABOUTME: Linear resampler for converting audio sample rates
// ABOUTME: Interpolates interleaved int16 PCM between arbitrary rates
package resample

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a resampler for interleaved int16 PCM
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts input samples to the output rate, writing into output.
// Both slices hold interleaved samples. Returns the number of output
// samples written.
func (r *Resampler) Resample(input []int16, output []int16) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		inputPos := r.position
		inputIdx := int(inputPos)

		// Interpolation needs the frame after inputIdx
		if inputIdx >= inputFrames-1 {
			break
		}

		frac := inputPos - float64(inputIdx)

		for ch := 0; ch < r.channels; ch++ {
			s1 := float64(input[inputIdx*r.channels+ch])
			s2 := float64(input[(inputIdx+1)*r.channels+ch])
			output[outIdx*r.channels+ch] = int16(s1*(1.0-frac) + s2*frac)
		}

		outIdx++
		r.position += r.ratio
	}

	// Keep only the fractional part for the next chunk
	r.position -= float64(int(r.position))

	return outIdx * r.channels
}

// OutputLen returns how many output samples a chunk of input samples yields
func (r *Resampler) OutputLen(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames) / r.ratio)
	return outputFrames * r.channels
}

// Reset clears the interpolation position
func (r *Resampler) Reset() {
	r.position = 0.0
}
