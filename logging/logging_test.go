package logging_test

import (
	"bytes"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vmsim/logging"
)

var _ = Describe("Logging", func() {
	DescribeTable("ParseLevel",
		func(name string, want slog.Level) {
			level, err := logging.ParseLevel(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(level).To(Equal(want))
		},
		Entry("debug", "debug", slog.LevelDebug),
		Entry("upper case", "INFO", slog.LevelInfo),
		Entry("empty", "", slog.LevelInfo),
		Entry("warning alias", "warning", slog.LevelWarn),
		Entry("error", "error", slog.LevelError),
	)

	It("should fall back to info on unknown levels", func() {
		level, err := logging.ParseLevel("verbose")
		Expect(err).To(HaveOccurred())
		Expect(level).To(Equal(slog.LevelInfo))
	})

	It("should filter below the configured level and tag the component", func() {
		var buf bytes.Buffer
		logger := logging.New(&buf, slog.LevelWarn, "vmsim")

		logger.Info("hidden")
		logger.Warn("shown", "frame", 2)

		Expect(buf.String()).NotTo(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring("msg=shown"))
		Expect(buf.String()).To(ContainSubstring("component=vmsim"))
		Expect(buf.String()).To(ContainSubstring("frame=2"))
	})
})
