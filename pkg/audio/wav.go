package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const (
	beepSampleRate = 44100
	beepFrequency  = 880
	beepDuration   = 0.25 // seconds per beep
	beepCount      = 3
)

// wavFormat holds WAV file format information
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// parseWAV decodes a PCM WAV file and returns its format together with the
// samples converted to 16-bit little-endian, the only layout the player feeds
// to oto.
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		if err := decoder.Err(); err != nil {
			return nil, nil, fmt.Errorf("invalid WAV file: %w", err)
		}
		return nil, nil, errors.New("invalid WAV file")
	}
	if decoder.WavAudioFormat != 1 {
		return nil, nil, fmt.Errorf("unsupported audio format %d", decoder.WavAudioFormat)
	}

	format := &wavFormat{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   int(decoder.BitDepth),
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("read PCM data: %w", err)
	}
	if len(buf.Data) == 0 {
		return nil, nil, errors.New("missing PCM data")
	}

	pcm := make([]byte, 2*len(buf.Data))
	for i, v := range buf.Data {
		s, err := toInt16(v, format.BitDepth)
		if err != nil {
			return nil, nil, err
		}
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(s))
	}
	return format, pcm, nil
}

func toInt16(v, bitDepth int) (int16, error) {
	switch bitDepth {
	case 8:
		// 8-bit samples are unsigned
		return int16((v - 128) << 8), nil
	case 16:
		return int16(v), nil
	case 24:
		return int16(v >> 8), nil
	case 32:
		return int16(v >> 16), nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
}

// encodeWAV wraps 16-bit PCM samples in a WAV container
func encodeWAV(samples []int, sampleRate, channels int) ([]byte, error) {
	// The encoder seeks back to patch chunk sizes, so it needs a file
	file, err := afero.NewMemMapFs().Create("cue.wav")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	enc := wav.NewEncoder(file, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Data:           samples,
		Format:         &goaudio.Format{SampleRate: sampleRate, NumChannels: channels},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write to WAV encoder: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(file)
}

// beepSamples synthesizes count sine beeps separated by silence of the same length
func beepSamples(freq float64, seconds float64, count, sampleRate int) []int {
	n := int(seconds * float64(sampleRate))
	samples := make([]int, 0, n*count*2)
	for c := 0; c < count; c++ {
		for i := 0; i < n; i++ {
			// Short linear fade to avoid clicks at the edges
			env := math.Min(1, math.Min(float64(i), float64(n-i))/200)
			v := math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)) * env * 0.6
			samples = append(samples, int(v*math.MaxInt16))
		}
		samples = append(samples, make([]int, n)...)
	}
	return samples
}

func defaultBeep() []byte {
	data, err := encodeWAV(beepSamples(beepFrequency, beepDuration, beepCount, beepSampleRate), beepSampleRate, 1)
	if err != nil {
		// Only an in-memory write can fail here
		panic(err)
	}
	return data
}
