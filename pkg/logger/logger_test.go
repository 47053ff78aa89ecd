package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/cantonese-split/pkg/logger"
)

var _ = Describe("Logger", func() {
	Describe("ParseLevel", func() {
		DescribeTable("maps level names",
			func(name string, want slog.Level) {
				Expect(logger.ParseLevel(name)).To(Equal(want))
			},
			Entry("debug", "debug", slog.LevelDebug),
			Entry("info", "info", slog.LevelInfo),
			Entry("warn", "warn", slog.LevelWarn),
			Entry("error", "error", slog.LevelError),
			Entry("upper case", "DEBUG", slog.LevelDebug),
			Entry("unknown", "trace", slog.LevelInfo),
		)
	})

	Describe("New", func() {
		It("respects the level", func() {
			log := logger.New("warn", false, "dev")
			Expect(log.Enabled(context.Background(), slog.LevelInfo)).To(BeFalse())
			Expect(log.Enabled(context.Background(), slog.LevelWarn)).To(BeTrue())
		})
	})

	Describe("NewWithWriter", func() {
		var buf *bytes.Buffer

		BeforeEach(func() {
			buf = &bytes.Buffer{}
		})

		It("writes JSON in prod", func() {
			log := logger.NewWithWriter(buf, "info", false, "prod")
			log.Info("ready", slog.Int("workers", 4))

			var line map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &line)).To(Succeed())
			Expect(line).To(HaveKeyWithValue("msg", "ready"))
			Expect(line).To(HaveKeyWithValue("environment", "prod"))
			Expect(line).To(HaveKeyWithValue("workers", BeNumerically("==", 4)))
		})

		It("writes text outside prod", func() {
			log := logger.NewWithWriter(buf, "info", false, "dev")
			log.Info("ready")

			Expect(buf.String()).To(ContainSubstring("msg=ready"))
			Expect(buf.String()).To(ContainSubstring("environment=dev"))
		})

		It("drops records below the level", func() {
			log := logger.NewWithWriter(buf, "error", false, "dev")
			log.Warn("ignored")

			Expect(buf.Len()).To(BeZero())
		})
	})
})
