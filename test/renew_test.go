// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

//go:build e2e

package test

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("Renew Command", func() {
	var host *Host

	BeforeEach(func() {
		host = NewHost()
	})

	Context("when renewing a deployed identity", func() {
		var oldPubLine string

		BeforeEach(func() {
			session := host.Execute("init", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			pub, err := os.ReadFile(filepath.Join(host.StoreDir, "example.com.pub"))
			Expect(err).NotTo(HaveOccurred())
			oldPubLine = strings.TrimSpace(string(pub))
		})

		It("should replace the deployed key with a fresh one", func() {
			session := host.Execute("renew", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			newPub, err := os.ReadFile(filepath.Join(host.StoreDir, "example.com.pub"))
			Expect(err).NotTo(HaveOccurred())
			newPubLine := strings.TrimSpace(string(newPub))
			Expect(newPubLine).NotTo(Equal(oldPubLine))

			content := host.ReadAuthorizedKeys()
			Expect(content).NotTo(ContainSubstring(oldPubLine), "old key must be revoked")
			Expect(content).To(ContainSubstring(newPubLine), "new key must be deployed")
		})

		It("should journal the revoke and the deploy", func() {
			session := host.Execute("renew", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			session = host.Execute("history", "-o", "yaml")
			Eventually(session, 10*time.Second).Should(gexec.Exit(0))
			out := string(session.Out.Contents())
			Expect(out).To(ContainSubstring("action: revoke"))
			Expect(out).To(ContainSubstring("action: deploy"))
		})
	})

	Context("when the identity was never initialized", func() {
		It("should fail in the revoke phase and generate nothing", func() {
			session := host.Execute("renew", "example.com")
			Eventually(session, 10*time.Second).Should(gexec.Exit(1))
			Expect(string(session.Err.Contents())).To(ContainSubstring("revoke phase failed"))

			Expect(filepath.Join(host.StoreDir, "example.com")).NotTo(BeAnExistingFile())
			Expect(filepath.Join(host.StoreDir, "example.com.pub")).NotTo(BeAnExistingFile())
		})
	})
})
