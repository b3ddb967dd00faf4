package scoring

import "github.com/shopspring/decimal"

// tokenRate is the fixed conversion rate: 1000 points = 1 token.
var tokenRate = decimal.New(1, -3)

// TokenPrecision is the number of decimal places a token amount carries.
const TokenPrecision = 3

// ToTokens converts a point total to a token amount using decimal
// arithmetic. Rounding (half away from zero) happens once, at the end;
// intermediate values are exact.
func ToTokens(points int64) decimal.Decimal {
	return decimal.NewFromInt(points).Mul(tokenRate).Round(TokenPrecision)
}
