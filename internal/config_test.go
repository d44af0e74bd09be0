package internal_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

var _ = Describe("Config", func() {
	It("should accept the defaults", func() {
		Expect(internal.DefaultConfig().Validate()).To(Succeed())
	})

	It("should read overrides from the environment", func() {
		GinkgoT().Setenv("STORAGE_DRIVER", "memory")
		GinkgoT().Setenv("STORAGE_QUOTA_BYTES", "1024")
		GinkgoT().Setenv("LOG_FORMAT", "json")

		cfg := internal.LoadConfigFromEnv()
		Expect(cfg.Storage.Driver).To(Equal(internal.StorageDriverMemory))
		Expect(cfg.Storage.QuotaBytes).To(BeEquivalentTo(1024))
		Expect(cfg.Observability.Logging.Format).To(Equal("json"))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should collect every problem", func() {
		cfg := internal.DefaultConfig()
		cfg.Storage.Driver = "mongo"
		cfg.Observability.Logging.Level = "loud"

		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("storage config")))
		Expect(err).To(MatchError(ContainSubstring("logging config")))
	})

	It("should require a source for SQL drivers", func() {
		cfg := internal.DefaultConfig()
		cfg.Storage.Source = ""
		Expect(cfg.Validate()).ToNot(Succeed())
	})
})

var _ = Describe("AppError", func() {
	It("should match sentinels by code", func() {
		err := internal.NewConflictError("Category \"Food\" is busy", internal.ErrCodeCategoryInUse)
		Expect(err).To(MatchError(internal.ErrCategoryInUse))
		Expect(err).ToNot(MatchError(internal.ErrDuplicateName))
	})

	It("should join field messages in the detailed message", func() {
		err := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "amount", Message: "amount must be positive"},
				{Field: "date", Message: "date cannot be in the future"},
			}})
		Expect(err.GetDetailedMessage()).To(Equal("amount must be positive; date cannot be in the future"))
	})
})
