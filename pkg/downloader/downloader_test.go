package downloader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/transpal/transpal-bot/pkg/downloader"
)

var _ = Describe("HTTPFetcher", func() {
	var fetcher *downloader.HTTPFetcher

	BeforeEach(func() {
		fetcher = &downloader.HTTPFetcher{}
	})

	It("downloads the whole body with a bearer credential", func() {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte("media-bytes"))
		}))
		defer server.Close()

		body, err := fetcher.Fetch(context.Background(), server.URL, "xoxb-token")
		Expect(err).ToNot(HaveOccurred())
		Expect(body).To(Equal([]byte("media-bytes")))
		Expect(gotAuth).To(Equal("Bearer xoxb-token"))
	})

	It("sends no authorization header without a credential", func() {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
		}))
		defer server.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL, "")
		Expect(err).ToNot(HaveOccurred())
		Expect(gotAuth).To(BeEmpty())
	})

	It("treats non-2xx responses as failures", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL, "tok")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("404"))
	})

	It("reads file:// urls from the local filesystem", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "input.mp3")
		Expect(os.WriteFile(path, []byte("local-bytes"), 0o600)).To(Succeed())

		body, err := fetcher.Fetch(context.Background(), downloader.LocalPrefix+path, "ignored")
		Expect(err).ToNot(HaveOccurred())
		Expect(body).To(Equal([]byte("local-bytes")))
	})

	It("fails on cancelled contexts", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := fetcher.Fetch(ctx, server.URL, "")
		Expect(err).To(HaveOccurred())
	})
})
