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

var _ = Describe("Init Command", func() {
	var host *Host

	BeforeEach(func() {
		host = NewHost()
	})

	Context("when initializing a new identity", func() {
		It("should create both key files and deploy the public key", func() {
			session := host.Execute("init", "alice@example.com", "-c", "a@b")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			privPath := filepath.Join(host.StoreDir, "example.com")
			pubPath := privPath + ".pub"
			Expect(privPath).To(BeAnExistingFile())
			Expect(pubPath).To(BeAnExistingFile())

			By("Hardening the private key permissions")
			info, err := os.Stat(privPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

			By("Appending the public key to the remote authorized_keys")
			pub, err := os.ReadFile(pubPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(host.ReadAuthorizedKeys()).To(ContainSubstring(strings.TrimSpace(string(pub))))

			By("Passing the full target and port to the deploy utility")
			deployLog, err := os.ReadFile(host.DeployLog)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(deployLog)).To(ContainSubstring("alice@example.com"))
			Expect(string(deployLog)).To(ContainSubstring("-p 22"))
		})

		It("should honor a custom port", func() {
			session := host.Execute("init", "example.com", "-p", "2222")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			deployLog, err := os.ReadFile(host.DeployLog)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(deployLog)).To(ContainSubstring("-p 2222"))
		})

		It("should record the deployment in the journal", func() {
			session := host.Execute("init", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			session = host.Execute("history", "-o", "yaml")
			Eventually(session, 10*time.Second).Should(gexec.Exit(0))
			Expect(string(session.Out.Contents())).To(ContainSubstring("action: deploy"))
		})
	})

	Context("when the identity already exists", func() {
		BeforeEach(func() {
			session := host.Execute("init", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))
		})

		It("should fail without --force and leave the files unchanged", func() {
			privPath := filepath.Join(host.StoreDir, "example.com")
			before, err := os.ReadFile(privPath)
			Expect(err).NotTo(HaveOccurred())

			session := host.Execute("init", "example.com")
			Eventually(session, 30*time.Second).Should(gexec.Exit(1))
			Expect(string(session.Err.Contents())).To(ContainSubstring("already exists"))

			after, err := os.ReadFile(privPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})

		It("should overwrite with --force", func() {
			privPath := filepath.Join(host.StoreDir, "example.com")
			before, err := os.ReadFile(privPath)
			Expect(err).NotTo(HaveOccurred())

			session := host.Execute("init", "example.com", "--force")
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			after, err := os.ReadFile(privPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).NotTo(Equal(before))
		})
	})

	Context("when the target is malformed", func() {
		It("should fail with a clear error and touch nothing", func() {
			session := host.Execute("init", "a@b@c")
			Eventually(session, 10*time.Second).Should(gexec.Exit(1))
			Expect(string(session.Err.Contents())).To(ContainSubstring("invalid target"))

			entries, err := os.ReadDir(host.StoreDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})
	})
})
