/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat_test

import (
	"context"
	"testing"
	"time"

	. "github.com/btnmasher/trovochat"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDispatcherSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dispatcher Suite")
}

var _ = Describe("Dispatcher", func() {
	var dispatcher *Dispatcher

	BeforeEach(func() {
		dispatcher = NewDispatcher(0, nil)
	})

	Describe("subscribing and publishing", func() {
		Context("when a subscriber exists for the published kind", func() {
			It("delivers the message", func() {
				sink, unsubscribe := Subscribe[Ping](dispatcher)
				defer unsubscribe()

				dispatcher.Publish(Ping{})

				Eventually(sink).Should(Receive())
			})
		})

		Context("when no subscriber exists for the kind", func() {
			It("drops the message without blocking", func() {
				Expect(func() { dispatcher.Publish(Pong{}) }).ShouldNot(Panic())
			})
		})

		Context("ordering per subscriber", func() {
			It("delivers two messages of the same kind in publish order", func() {
				sink, unsubscribe := Subscribe[Join](dispatcher)
				defer unsubscribe()

				dispatcher.Publish(Join{Channel: "#first"})
				dispatcher.Publish(Join{Channel: "#second"})

				var first, second Join
				Eventually(sink).Should(Receive(&first))
				Eventually(sink).Should(Receive(&second))
				Expect(first.Channel).To(Equal("#first"))
				Expect(second.Channel).To(Equal("#second"))
			})
		})
	})

	Describe("WaitFor", func() {
		It("resolves once a matching message is published", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			result := make(chan Reconnect, 1)
			go func() {
				v, err := WaitFor[Reconnect](ctx, dispatcher)
				Expect(err).NotTo(HaveOccurred())
				result <- v
			}()

			Eventually(func() bool {
				dispatcher.Publish(Reconnect{})
				select {
				case <-result:
					return true
				default:
					return false
				}
			}, time.Second).Should(BeTrue())
		})

		It("returns the context error if nothing is published", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()

			_, err := WaitFor[Reconnect](ctx, dispatcher)
			Expect(err).To(MatchError(context.DeadlineExceeded))
		})
	})

	Describe("Clear", func() {
		It("closes every outstanding subscriber channel", func() {
			sink, _ := Subscribe[Ping](dispatcher)
			dispatcher.Clear()
			Eventually(sink).Should(BeClosed())
		})
	})
})
