package sound

import (
	"Stopwatch/internal/config"
	"Stopwatch/internal/logging"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTone_LengthMatchesDuration(t *testing.T) {
	sr := beep.SampleRate(1000)
	buffer := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	buffer.Append(tone(sr, 100, 250*time.Millisecond))

	require.Equal(t, 250, buffer.Len())
}

func TestTone_FadesOut(t *testing.T) {
	sr := beep.SampleRate(8000)
	s := tone(sr, 440, 100*time.Millisecond)

	samples := make([][2]float64, sr.N(100*time.Millisecond))
	n, ok := s.Stream(samples)
	require.True(t, ok)
	require.Equal(t, len(samples), n)

	for _, sample := range samples {
		assert.LessOrEqual(t, sample[0], 0.3)
		assert.GreaterOrEqual(t, sample[0], -0.3)
	}

	_, ok = s.Stream(samples)
	require.False(t, ok, "streamer must be drained after its duration")
}

func TestLoadBuffers_SynthesizesAllEffects(t *testing.T) {
	buffers, err := loadBuffers(defaultFormat, "")
	require.NoError(t, err)

	for _, effect := range []Effect{EffectStart, EffectPause, EffectReset} {
		require.Contains(t, buffers, effect)
		require.Positive(t, buffers[effect].Len())
	}
}

func TestLoadBuffers_MissingFile(t *testing.T) {
	_, err := loadBuffers(defaultFormat, filepath.Join(t.TempDir(), "nope.wav"))
	require.Error(t, err)
}

func TestLoadBuffers_DecodesWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "click.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	format := beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, tone(format.SampleRate, 500, 50*time.Millisecond), format))
	require.NoError(t, f.Close())

	buffers, err := loadBuffers(defaultFormat, path)
	require.NoError(t, err)
	require.Positive(t, buffers[EffectStart].Len())
	require.Same(t, buffers[EffectStart], buffers[EffectReset])
}

func TestPlayer_DisabledIsSilent(t *testing.T) {
	p := NewPlayer(config.SoundConfig{Enabled: false}, logging.Discard())

	require.NotPanics(t, func() { p.Play(EffectStart) })
	require.False(t, p.Enabled())
	require.Nil(t, p.buffers, "nothing is loaded while sound is off")
}

func TestPlayer_ApplyDropsBuffersOnFileChange(t *testing.T) {
	p := NewPlayer(config.SoundConfig{}, logging.Discard())
	buffers, err := loadBuffers(defaultFormat, "")
	require.NoError(t, err)
	p.buffers = buffers

	p.Apply(config.SoundConfig{Enabled: true, Volume: -2})
	require.NotNil(t, p.buffers)
	require.True(t, p.Enabled())

	p.Apply(config.SoundConfig{Enabled: true, File: "other.wav"})
	require.Nil(t, p.buffers)
}
