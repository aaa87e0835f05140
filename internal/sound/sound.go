package sound

import (
	"Stopwatch/internal/config"
	"Stopwatch/internal/logging"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

type Effect int

const (
	EffectStart Effect = iota
	EffectPause
	EffectReset
)

// 合成提示音的参数
var tones = map[Effect]struct {
	freq     float64
	duration time.Duration
}{
	EffectStart: {freq: 880, duration: 90 * time.Millisecond},
	EffectPause: {freq: 660, duration: 90 * time.Millisecond},
	EffectReset: {freq: 440, duration: 140 * time.Millisecond},
}

var defaultFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

// Player 在状态切换时播放提示音。音频设备初始化失败后自动关闭声音
type Player struct {
	logger *log.Logger

	mu      sync.Mutex
	enabled bool
	volume  float64
	file    string
	buffers map[Effect]*beep.Buffer

	initOnce sync.Once
	initErr  error
}

func NewPlayer(cfg config.SoundConfig, logger *log.Logger) *Player {
	if logger == nil {
		logger = logging.Discard()
	}
	p := &Player{logger: logger}
	p.Apply(cfg)
	return p
}

// Apply 应用新的声音配置，文件变化时下次播放前重新加载
func (p *Player) Apply(cfg config.SoundConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cfg.File != p.file {
		p.buffers = nil
	}
	p.enabled = cfg.Enabled
	p.volume = cfg.Volume
	p.file = cfg.File
}

func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Play 异步播放，不会阻塞界面线程
func (p *Player) Play(effect Effect) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return
	}

	p.initOnce.Do(func() {
		p.initErr = speaker.Init(defaultFormat.SampleRate, defaultFormat.SampleRate.N(time.Second/10))
	})
	if p.initErr != nil {
		p.logger.Warn("audio unavailable, sound disabled", "error", p.initErr)
		p.enabled = false
		return
	}

	if p.buffers == nil {
		buffers, err := loadBuffers(defaultFormat, p.file)
		if err != nil {
			p.logger.Warn("failed to load sound, falling back to tones", "file", p.file, "error", err)
			buffers, _ = loadBuffers(defaultFormat, "")
		}
		p.buffers = buffers
	}

	buffer, ok := p.buffers[effect]
	if !ok {
		return
	}

	// 创建音量控制器
	speaker.Play(&effects.Volume{
		Streamer: buffer.Streamer(0, buffer.Len()),
		Base:     2,
		Volume:   p.volume,
		Silent:   p.volume <= -10,
	})
}

// loadBuffers 为每种提示准备缓冲。file 非空时所有提示都使用该 wav 文件
func loadBuffers(format beep.Format, file string) (map[Effect]*beep.Buffer, error) {
	buffers := make(map[Effect]*beep.Buffer, len(tones))

	if file != "" {
		buffer, err := decodeFile(format, file)
		if err != nil {
			return nil, err
		}
		for effect := range tones {
			buffers[effect] = buffer
		}
		return buffers, nil
	}

	for effect, t := range tones {
		buffer := beep.NewBuffer(format)
		buffer.Append(tone(format.SampleRate, t.freq, t.duration))
		buffers[effect] = buffer
	}
	return buffers, nil
}

func decodeFile(format beep.Format, path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound %s: %w", path, err)
	}
	defer f.Close()

	streamer, fileFormat, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sound %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if fileFormat.SampleRate != format.SampleRate {
		s = beep.Resample(4, fileFormat.SampleRate, format.SampleRate, streamer)
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(s)
	return buffer, nil
}

// tone 生成带淡出的正弦波
func tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	total := sr.N(d)
	pos := 0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			fade := 1 - float64(pos)/float64(total)
			v := 0.3 * fade * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}
