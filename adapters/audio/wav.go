package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/janiluuk/defora/domain"
)

// framesToRead is the PCM chunk size per decoder pass.
const framesToRead = 8192

// LoadMono decodes a WAV file into mono float64 samples in [-1, 1] and
// returns them with the sample rate. Multi-channel audio is averaged down to
// one channel. Formats other than WAV need an external decoder and are
// reported as a capability problem, not a data problem.
func LoadMono(path string) ([]float64, int, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".wav" && ext != ".wave" {
		return nil, 0, fmt.Errorf("%w: %q (convert to wav, e.g. ffmpeg -i in%s out.wav)",
			domain.ErrNoDecoder, ext, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrCorruptedAudio, path)
	}

	channels := int(decoder.NumChans)
	if channels < 1 {
		channels = 1
	}
	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	peak := float64(int64(1) << (bitDepth - 1))

	var samples []float64
	buf := &audio.IntBuffer{Data: make([]int, framesToRead*channels), Format: &audio.Format{}}
	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", domain.ErrCorruptedAudio, err)
		}
		if n == 0 {
			break
		}
		for i := 0; i+channels <= n; i += channels {
			sum := 0.0
			for ch := 0; ch < channels; ch++ {
				sum += float64(buf.Data[i+ch])
			}
			samples = append(samples, sum/float64(channels)/peak)
		}
	}

	return samples, int(decoder.SampleRate), nil
}
