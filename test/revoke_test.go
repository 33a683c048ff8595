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

var _ = Describe("Revoke Command", func() {
	var host *Host

	BeforeEach(func() {
		host = NewHost()
	})

	Context("when a deployed identity exists", func() {
		var pubLine string

		BeforeEach(func() {
			session := host.Execute("init", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			pub, err := os.ReadFile(filepath.Join(host.StoreDir, "example.com.pub"))
			Expect(err).NotTo(HaveOccurred())
			pubLine = strings.TrimSpace(string(pub))
			Expect(host.ReadAuthorizedKeys()).To(ContainSubstring(pubLine))
		})

		It("should remove the key from the remote authorized_keys", func() {
			session := host.Execute("revoke", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			Expect(host.ReadAuthorizedKeys()).NotTo(ContainSubstring(pubLine))
		})

		It("should only remove the matching key", func() {
			otherHost := NewHost()
			// Deploy a second identity to the same fake authorized_keys.
			otherHost.AuthorizedKeys = host.AuthorizedKeys
			session := otherHost.Execute("init", "other.net")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			otherPub, err := os.ReadFile(filepath.Join(otherHost.StoreDir, "other.net.pub"))
			Expect(err).NotTo(HaveOccurred())

			session = host.Execute("revoke", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			content := host.ReadAuthorizedKeys()
			Expect(content).NotTo(ContainSubstring(pubLine))
			Expect(content).To(ContainSubstring(strings.TrimSpace(string(otherPub))))
		})

		It("should delete the local files with --delete-identity-file", func() {
			session := host.Execute("revoke", "example.com", "--delete-identity-file")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			Expect(filepath.Join(host.StoreDir, "example.com")).NotTo(BeAnExistingFile())
			Expect(filepath.Join(host.StoreDir, "example.com.pub")).NotTo(BeAnExistingFile())
		})

		It("should keep the local files by default", func() {
			session := host.Execute("revoke", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			Expect(filepath.Join(host.StoreDir, "example.com")).To(BeAnExistingFile())
			Expect(filepath.Join(host.StoreDir, "example.com.pub")).To(BeAnExistingFile())
		})
	})

	Context("when the key was never deployed", func() {
		It("should succeed as a no-op", func() {
			// init against a throwaway authorized_keys, then point the host
			// somewhere empty so the remote side has no matching line.
			session := host.Execute("init", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))
			Expect(os.Remove(host.AuthorizedKeys)).To(Succeed())

			session = host.Execute("revoke", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))
		})
	})

	Context("when the local public key is missing", func() {
		It("should fail before any remote action", func() {
			session := host.Execute("revoke", "example.com")
			Eventually(session, 10*time.Second).Should(gexec.Exit(1))

			_, err := os.Stat(host.SSHLog)
			Expect(os.IsNotExist(err)).To(BeTrue(), "no ssh invocation expected")
		})
	})
})
