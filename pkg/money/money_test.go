package money_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/pkg/money"
)

func TestMoney(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Money Suite")
}

var _ = Describe("Formatter", func() {
	It("defaults to the rupee symbol", func() {
		Expect(money.NewFormatter("").Format(12)).To(Equal("₹12.00"))
	})

	It("rounds to two decimals", func() {
		f := money.NewFormatter("$")
		Expect(f.Format(10.005)).To(Equal("$10.01"))
		Expect(f.Format(0.1 + 0.2)).To(Equal("$0.30"))
		Expect(f.Format(1250.5)).To(Equal("$1250.50"))
	})
})
