package config_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vmsim/config"
)

func kindOf(err error) config.ErrorKind {
	var cfgErr *config.ConfigError
	Expect(errors.As(err, &cfgErr)).To(BeTrue())
	return cfgErr.Kind
}

var _ = Describe("Parse", func() {
	It("should accept the default sequence", func() {
		v, err := config.Parse(4, config.DefaultSequence)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.FrameCount).To(Equal(4))
		Expect(v.Sequence).To(Equal([]int{1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5}))
	})

	It("should trim whitespace around tokens", func() {
		v, err := config.Parse(1, "  7 ,8,  9  ")
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Sequence).To(Equal([]int{7, 8, 9}))
	})

	It("should treat an empty string as an empty sequence", func() {
		v, err := config.Parse(2, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Sequence).NotTo(BeNil())
		Expect(v.Sequence).To(BeEmpty())

		v, err = config.Parse(2, "   ")
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Sequence).To(BeEmpty())
	})

	It("should reject a zero frame count", func() {
		_, err := config.Parse(0, "1, 2")
		Expect(err).To(MatchError(config.ErrInvalidConfig))
		Expect(kindOf(err)).To(Equal(config.NonPositiveFrameCount))
	})

	It("should reject a negative frame count before looking at the sequence", func() {
		_, err := config.Parse(-1, "x")
		Expect(kindOf(err)).To(Equal(config.NonPositiveFrameCount))
	})

	It("should reject a non-integer token", func() {
		_, err := config.Parse(3, "1, two, 3")
		Expect(kindOf(err)).To(Equal(config.MalformedToken))

		var cfgErr *config.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(cfgErr.Position).To(Equal(1))
		Expect(cfgErr.Token).To(Equal("two"))
	})

	It("should reject an empty token between commas", func() {
		_, err := config.Parse(3, "1,,3")
		Expect(kindOf(err)).To(Equal(config.MalformedToken))
	})

	It("should reject a negative page", func() {
		_, err := config.Parse(3, "1, -2, 3")
		Expect(kindOf(err)).To(Equal(config.NegativePage))
		Expect(errors.Is(err, &config.ConfigError{Kind: config.NegativePage})).To(BeTrue())
		Expect(errors.Is(err, &config.ConfigError{Kind: config.MalformedToken})).To(BeFalse())
		Expect(err.Error()).To(ContainSubstring("cannot be negative"))
	})

	It("should report malformed tokens ahead of negative pages", func() {
		_, err := config.Parse(3, "-1, x")
		Expect(kindOf(err)).To(Equal(config.MalformedToken))
	})
})

var _ = Describe("FormatSequence", func() {
	It("should produce text that parses back to the same pages", func() {
		pages := []int{3, 0, 12}
		text := config.FormatSequence(pages)
		Expect(text).To(Equal("3, 0, 12"))

		parsed, err := config.ParseSequence(text)
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(Equal(pages))
	})

	It("should format an empty sequence as an empty string", func() {
		Expect(config.FormatSequence(nil)).To(BeEmpty())
	})
})
