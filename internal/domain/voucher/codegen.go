package voucher

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/valepresente/backend/internal/domain/shared"
)

// codeAlphabet excludes characters that are easy to misread on a printed
// voucher (O, 0, I, 1, L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// CodePrefix is the public prefix on every voucher code
const CodePrefix = "VP"

const (
	codeGroupLen = 4
	tokenFields  = 3
)

// Token parsing errors
var (
	ErrMalformedToken = shared.NewDomainError("MALFORMED_TOKEN", "Voucher token is malformed")
)

// CodeGenerator produces candidate voucher codes. Generated codes are not
// guaranteed unique; callers must rely on the storage uniqueness constraint.
type CodeGenerator interface {
	GenerateCode() (string, error)
}

// RandomCodeGenerator generates codes like VP-8X29-KLM4 from a cryptographic
// randomness source.
type RandomCodeGenerator struct{}

// NewRandomCodeGenerator creates the default code generator
func NewRandomCodeGenerator() *RandomCodeGenerator {
	return &RandomCodeGenerator{}
}

// GenerateCode returns a candidate code in the form VP-XXXX-XXXX
func (g *RandomCodeGenerator) GenerateCode() (string, error) {
	first, err := randomGroup(codeGroupLen)
	if err != nil {
		return "", err
	}
	second, err := randomGroup(codeGroupLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", CodePrefix, first, second), nil
}

// randomGroup draws n characters from the alphabet with rejection sampling
// so that every character is equally likely.
func randomGroup(n int) (string, error) {
	// largest multiple of len(codeAlphabet) below 256
	max := byte(256 - 256%len(codeAlphabet))

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("voucher: read randomness: %w", err)
		}
		for _, b := range buf {
			if b >= max {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// BuildToken assembles the scannable voucher token. The amount is always
// rendered with exactly two decimal places so the token is byte-stable for
// the same voucher.
func BuildToken(code string, storeID string, amount decimal.Decimal) string {
	return strings.Join([]string{code, storeID, amount.StringFixed(2)}, "|")
}

// ParseToken splits a scanned token back into its fields
func ParseToken(token string) (code string, storeID string, amount decimal.Decimal, err error) {
	parts := strings.Split(token, "|")
	if len(parts) != tokenFields {
		return "", "", decimal.Zero, ErrMalformedToken
	}
	code, storeID = parts[0], parts[1]
	if code == "" || storeID == "" {
		return "", "", decimal.Zero, ErrMalformedToken
	}
	amount, aerr := decimal.NewFromString(parts[2])
	if aerr != nil {
		return "", "", decimal.Zero, ErrMalformedToken
	}
	return code, storeID, amount, nil
}
