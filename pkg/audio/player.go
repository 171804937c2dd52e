package audio

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/borgmon/desk-alarm/pkg/logger"
	"github.com/ebitengine/oto/v3"
)

// The oto context can only be created once per process
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool
)

// initAudioContext initializes the global audio context once
func initAudioContext(format *wavFormat, log *slog.Logger) {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Warn("Failed to initialize audio context", logger.Err(err))
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
		log.Info("Audio context initialized", "sample_rate", format.SampleRate, "channels", format.Channels)
	})
}

// Player plays a WAV cue through oto and rings the terminal bell when audio is
// unavailable.
type Player struct {
	wavData []byte
	logger  *slog.Logger

	// Bell receives "\a" when playback fails
	Bell io.Writer

	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
	wg       sync.WaitGroup
}

// NewPlayer loads file as the cue. An empty or unreadable file falls back to
// the built-in beep.
func NewPlayer(file string, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "audio")

	wavData := defaultBeep()
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Warn("Failed to read sound file, using built-in beep", "file", file, logger.Err(err))
		} else {
			wavData = data
		}
	}

	return &Player{
		wavData:  wavData,
		logger:   log,
		Bell:     os.Stdout,
		stopChan: make(chan struct{}),
	}
}

// Play starts the cue in the background and returns immediately
func (p *Player) Play() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Sound playback panicked", "panic", r)
				p.ring()
			}
		}()
		if err := p.play(); err != nil {
			p.logger.Warn("Could not play sound", logger.Err(err))
			p.ring()
		}
	}()
}

func (p *Player) play() error {
	format, audioData, err := parseWAV(p.wavData)
	if err != nil {
		return fmt.Errorf("failed to parse WAV: %w", err)
	}

	initAudioContext(format, p.logger)
	if !audioCtxReady || globalAudioCtx == nil {
		return fmt.Errorf("audio context not ready")
	}

	player := globalAudioCtx.NewPlayer(bytes.NewReader(audioData))
	defer func() {
		if err := player.Close(); err != nil {
			p.logger.Warn("Failed to close audio player", logger.Err(err))
		}
	}()

	// Play starts playing the sound and returns without waiting
	player.Play()

	for player.IsPlaying() {
		select {
		case <-p.stopChan:
			player.Pause()
			return nil
		case <-time.After(10 * time.Millisecond):
		}
	}
	return nil
}

func (p *Player) ring() {
	if p.Bell != nil {
		fmt.Fprint(p.Bell, "\a")
	}
}

// Stop interrupts playing cues, waits for them to finish and ignores later
// calls to Play.
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.stopChan)
	}
	p.mu.Unlock()

	p.wg.Wait()
}
