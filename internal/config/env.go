package config

import (
	"strings"

	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// envKeys lists every nested key so AutomaticEnv can see it during Unmarshal
var envKeys = []string{
	"source.type",
	"source.url",
	"source.api_key",
	"source.region_code",
	"source.safe_search",
	"source.page_size",
	"source.requests_per_second",
	"store.type",
	"store.path",
	"store.redis_url",
	"library.max_saved",
	"search.history_size",
	"player.command",
	"logging.file",
	"logging.level",
}

func bindEnv(v *viper.Viper) {
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
}
