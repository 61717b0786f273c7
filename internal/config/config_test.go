package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func validConfig() *Config {
	return &Config{
		Caption: CaptionConfig{
			BaseURL:        "https://abc.ngrok-free.app",
			CopyAckDelay:   2 * time.Second,
			MaxUploadBytes: 10 << 20,
		},
		Session: SessionConfig{TTL: 30 * time.Minute, MaxSessions: 1024},
		Server:  ServerConfig{Host: "0.0.0.0", Port: 7080, Mode: "release"},
	}
}

func TestConfig_Validate(t *testing.T) {
	Convey("Config.Validate", t, func() {
		So(validConfig().Validate(), ShouldBeNil)
		So(validConfig().ValidateServer(), ShouldBeNil)

		Convey("缺少 base_url", func() {
			cfg := validConfig()
			cfg.Caption.BaseURL = "  "
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("base_url 不是 http(s)", func() {
			cfg := validConfig()
			cfg.Caption.BaseURL = "localhost:8000"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("复制提示时长必须为正", func() {
			cfg := validConfig()
			cfg.Caption.CopyAckDelay = 0
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("上传上限必须为正", func() {
			cfg := validConfig()
			cfg.Caption.MaxUploadBytes = 0
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("serve 校验端口和模式", func() {
			cfg := validConfig()
			cfg.Server.Port = 70000
			So(cfg.Validate(), ShouldBeNil)
			So(cfg.ValidateServer(), ShouldNotBeNil)

			cfg = validConfig()
			cfg.Server.Mode = "prod"
			So(cfg.ValidateServer(), ShouldNotBeNil)
		})
	})
}
