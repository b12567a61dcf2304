package settings

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/trickstertwo/relog"
)

// Watch re-runs r's stored configuration callback whenever the viper-backed
// config file changes on disk. Viper re-reads the file before notifying, so
// a logger installed with Configure(v) picks up the new contents. Reload
// failures go to onErr; pass nil to drop them.
//
// Watching holds no reference back from r, and a frozen logger simply
// reports ErrFrozen on every change.
func Watch(v *viper.Viper, r *relog.Reloadable, onErr func(error)) {
	v.OnConfigChange(func(fsnotify.Event) {
		if err := r.Reload(nil); err != nil && onErr != nil {
			onErr(err)
		}
	})
	v.WatchConfig()
}
