package output

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "¥0", FormatCurrency(decimal.Zero))
	assert.Equal(t, "¥123", FormatCurrency(decimal.NewFromInt(123)))
	assert.Equal(t, "¥1,234", FormatCurrency(decimal.NewFromInt(1234)))
	assert.Equal(t, "¥98,800,000", FormatCurrency(decimal.NewFromInt(98_800_000)))
	assert.Equal(t, "-¥2,400,000", FormatCurrency(decimal.NewFromInt(-2_400_000)))
	assert.Equal(t, "¥1,235", FormatCurrency(decimal.NewFromFloat(1234.6)), "rounds to whole yen")
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "84.0%", FormatPercentage(decimal.NewFromInt(84)))
	assert.Equal(t, "12.5%", FormatPercentage(decimal.NewFromFloat(12.5)))
}
