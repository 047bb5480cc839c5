package usecase

import (
	"context"
	"math/cmplx"
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/janiluuk/defora/domain"
	"github.com/janiluuk/defora/domain/repositories"
)

// normalizationEpsilon guards the min-max division. A band whose energy
// range is below it is treated as flat and pinned to 0.5.
const normalizationEpsilon = 1e-10

// ModulationService turns a mono waveform into frame-indexed parameter
// schedules and can replay them live against the mediator.
type ModulationService struct {
	logger *zap.Logger
}

// NewModulationService creates a modulation service.
func NewModulationService(logger *zap.Logger) *ModulationService {
	return &ModulationService{logger: logger}
}

// ComputeModulations analyzes the waveform at the animation frame rate and
// returns one value series per mapped parameter.
//
// Each frame window is zero-padded to a fixed length so every frame shares
// the same spectral resolution. Band energy is the mean magnitude over the
// bins falling in [FreqMin, FreqMax); the per-band series is then min-max
// normalized to [0,1] and scaled into the mapping's output range.
func (s *ModulationService) ComputeModulations(audio []float64, sampleRate, fps int, mappings []domain.BandMapping) (domain.Schedule, error) {
	if fps <= 0 {
		return nil, domain.ErrInvalidFPS
	}

	samplesPerFrame := sampleRate / fps
	if samplesPerFrame < 1 {
		samplesPerFrame = 1
	}
	frameCount := (len(audio) + samplesPerFrame - 1) / samplesPerFrame

	fft := fourier.NewFFT(samplesPerFrame)
	binCount := samplesPerFrame/2 + 1
	freqs := make([]float64, binCount)
	for i := range freqs {
		freqs[i] = fft.Freq(i) * float64(sampleRate)
	}

	// Resolve each band's bin set once; windows never change size.
	bandBins := make([][]int, len(mappings))
	for mi, m := range mappings {
		for bin, f := range freqs {
			if f >= m.FreqMin && f < m.FreqMax {
				bandBins[mi] = append(bandBins[mi], bin)
			}
		}
	}

	energies := make([][]float64, len(mappings))
	for mi := range energies {
		energies[mi] = make([]float64, 0, frameCount)
	}

	window := make([]float64, samplesPerFrame)
	coeffs := make([]complex128, binCount)
	magnitudes := make([]float64, binCount)

	for frame := 0; frame < frameCount; frame++ {
		start := frame * samplesPerFrame
		end := start + samplesPerFrame
		if end > len(audio) {
			end = len(audio)
		}
		n := copy(window, audio[start:end])
		for i := n; i < samplesPerFrame; i++ {
			window[i] = 0
		}

		coeffs = fft.Coefficients(coeffs, window)
		for i, c := range coeffs {
			magnitudes[i] = cmplx.Abs(c)
		}

		for mi := range mappings {
			bins := bandBins[mi]
			energy := 0.0
			if len(bins) > 0 {
				for _, bin := range bins {
					energy += magnitudes[bin]
				}
				energy /= float64(len(bins))
			}
			energies[mi] = append(energies[mi], energy)
		}
	}

	schedule := make(domain.Schedule, len(mappings))
	for mi, m := range mappings {
		schedule[m.Param] = mapToRange(normalizeSeries(energies[mi]), m.OutMin, m.OutMax)
	}
	return schedule, nil
}

// normalizeSeries rescales a series to [0,1] by its own min and max. A flat
// series becomes a constant 0.5 instead of dividing by a near-zero range.
func normalizeSeries(series []float64) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	min, max := series[0], series[0]
	for _, v := range series[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max-min < normalizationEpsilon {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, v := range series {
		out[i] = (v - min) / (max - min)
	}
	return out
}

func mapToRange(normalized []float64, outMin, outMax float64) []float64 {
	out := make([]float64, len(normalized))
	for i, norm := range normalized {
		out[i] = outMin + norm*(outMax-outMin)
	}
	return out
}

// Stream replays a schedule against the mediator at the given frame rate:
// one write per parameter per frame, then a 1/fps sleep. No drift correction
// is applied; per-call protocol overhead accumulates and that is accepted.
// Failed writes are logged and skipped so one bad write does not halt the
// stream. Cancellation is checked between frames.
func (s *ModulationService) Stream(ctx context.Context, schedule domain.Schedule, fps int, mediator repositories.Mediator) error {
	if fps <= 0 {
		return domain.ErrInvalidFPS
	}

	params := make([]string, 0, len(schedule))
	for param := range schedule {
		params = append(params, param)
	}
	sort.Strings(params)

	frameTime := time.Second / time.Duration(fps)
	frameCount := schedule.FrameCount()
	for frame := 0; frame < frameCount; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for _, param := range params {
			series := schedule[param]
			if frame >= len(series) {
				continue
			}
			if _, err := mediator.Write(ctx, param, series[frame]); err != nil {
				s.logger.Warn("live write failed",
					zap.String("param", param),
					zap.Int("frame", frame),
					zap.Error(err))
			}
		}
		time.Sleep(frameTime)
	}
	return nil
}
