package service

import (
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/stautonico/banking-simulator/internal/credential"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// decimalEq matches a decimal argument by value, ignoring its exponent.
func decimalEq(s string) any {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(got decimal.Decimal) bool {
		return got.Equal(want)
	})
}

// sequence returns a generator that cycles through numbers.
func sequence(numbers ...int64) NumberGenerator {
	i := 0
	return func() (int64, error) {
		n := numbers[i%len(numbers)]
		i++
		return n, nil
	}
}

// plainHasher keeps tests fast; bcrypt itself is covered in the credential package.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (plainHasher) Compare(hash, password string) error {
	if strings.TrimPrefix(hash, "plain:") != password {
		return credential.ErrMismatch
	}
	return nil
}
