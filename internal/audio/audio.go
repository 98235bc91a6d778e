// Package audio moves APU samples from the sample queue to the host: live
// playback through oto and WAV capture through go-audio.
package audio

// Source is the consumer side of the APU sample queue.
type Source interface {
	Drain(dst []float32) int
}

// Sink receives drained samples.
type Sink interface {
	WriteSamples(samples []float32) error
}

// Pump drains src once into buf and hands the samples to every sink. It
// returns the number of samples moved and the first sink error.
func Pump(src Source, buf []float32, sinks ...Sink) (int, error) {
	n := src.Drain(buf)
	if n == 0 {
		return 0, nil
	}
	var firstErr error
	for _, s := range sinks {
		if err := s.WriteSamples(buf[:n]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return n, firstErr
}
