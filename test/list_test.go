// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

//go:build e2e

package test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("List Command", func() {
	var host *Host

	BeforeEach(func() {
		host = NewHost()
	})

	It("should report an empty store", func() {
		session := host.Execute("list")
		Eventually(session, 10*time.Second).Should(gexec.Exit(0))
		Expect(string(session.Out.Contents())).To(ContainSubstring("No identities found"))
	})

	It("should list an initialized identity with its fingerprint", func() {
		session := host.Execute("init", "example.com", "-c", "a@b")
		Eventually(session, 30*time.Second).Should(gexec.Exit(0))

		session = host.Execute("list")
		Eventually(session, 10*time.Second).Should(gexec.Exit(0))
		out := string(session.Out.Contents())
		Expect(out).To(ContainSubstring("example.com"))
		Expect(out).To(ContainSubstring("SHA256:"))
		Expect(out).To(ContainSubstring("a@b"))
	})

	It("should support JSON output", func() {
		session := host.Execute("init", "example.com")
		Eventually(session, 30*time.Second).Should(gexec.Exit(0))

		session = host.Execute("list", "-o", "json")
		Eventually(session, 10*time.Second).Should(gexec.Exit(0))
		Expect(string(session.Out.Contents())).To(ContainSubstring(`"name": "example.com"`))
	})
})
