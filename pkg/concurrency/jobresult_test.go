package concurrency_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/transpal/transpal-bot/pkg/concurrency"
)

var _ = Describe("JobResult", func() {
	It("delivers a result across goroutines", func() {
		jr, wjr := NewJobResult[string]()

		go func() {
			time.Sleep(50 * time.Millisecond)
			wjr.SetResult("turns", nil)
		}()

		res, err := jr.Wait(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(res).ToNot(BeNil())
		Expect(*res).To(Equal("turns"))
	})

	It("delivers an error across goroutines", func() {
		jr, wjr := NewJobResult[string]()

		go func() {
			wjr.SetResult("", fmt.Errorf("backend exploded"))
		}()

		_, err := jr.Wait(context.Background())
		Expect(err).To(MatchError("backend exploded"))
	})

	It("respects context expiry while waiting", func() {
		jr, _ := NewJobResult[string]()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := jr.Wait(ctx)
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})

	It("resolves only once", func() {
		jr, wjr := NewJobResult[int]()
		wjr.SetResult(1, nil)
		wjr.SetResult(2, nil)

		res, err := jr.Wait(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(*res).To(Equal(1))
	})

	It("keeps delivering after the first Wait", func() {
		jr, wjr := NewJobResult[int]()
		wjr.SetResult(42, nil)

		for i := 0; i < 3; i++ {
			res, err := jr.Wait(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(*res).To(Equal(42))
		}
	})
})
