package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// 监听配置变化
type ConfigChangeCallback func(*Config)

// WatchConfig 监听配置文件，文件被写入后重新加载并回调。
// 监听的是所在目录，编辑器用替换方式保存时也能收到事件。
// 回调和 onError 都在监听 goroutine 上执行
func (m *Manager) WatchConfig(ctx context.Context, callback ConfigChangeCallback, onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}

	dir := filepath.Dir(m.configPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(m.configPath)

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := m.loadConfig(); err != nil {
					if onError != nil {
						onError(err)
					}
					continue
				}
				if callback != nil {
					callback(m.GetConfig())
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}
			}
		}
	}()

	return nil
}
