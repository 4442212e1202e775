package pipeline_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/transpal/transpal-bot/core/pipeline"
)

var _ = Describe("error taxonomy", func() {
	It("matches wrapped errors by kind", func() {
		cause := errors.New("dial tcp: connection refused")
		err := fmt.Errorf("stage failed: %w", &pipeline.AcquisitionError{URL: "https://x", Err: cause})

		var acqErr *pipeline.AcquisitionError
		Expect(errors.As(err, &acqErr)).To(BeTrue())
		Expect(errors.Is(err, cause)).To(BeTrue())
	})

	It("includes the decoder output in transcode errors", func() {
		err := &pipeline.TranscodeError{Output: "moov atom not found", Err: errors.New("exit status 1")}
		Expect(err.Error()).To(ContainSubstring("moov atom not found"))
		Expect(err.Error()).To(ContainSubstring("exit status 1"))
	})

	It("names the failing stage in backend errors", func() {
		err := &pipeline.BackendError{Stage: "transcribe", Err: errors.New("429 too many requests")}
		Expect(err.Error()).To(HavePrefix("transcribe backend"))
	})

	It("detects validation errors through wrapping", func() {
		err := fmt.Errorf("handling event: %w", &pipeline.ValidationError{Reason: "no files"})
		Expect(pipeline.IsValidation(err)).To(BeTrue())
		Expect(pipeline.IsValidation(errors.New("other"))).To(BeFalse())
	})
})
