package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFxConvertXOFToUSD(t *testing.T) {
	fx := NewFxTable()
	require.NoError(t, fx.Set("XOF", "USD", "0.0016"))

	value, rate, ok := fx.Convert(10000, "XOF", "USD")
	require.True(t, ok)
	assert.Equal(t, "16", value.String())
	assert.Equal(t, "0.0016", rate.String())
}

func TestFxConvertRoundsToCents(t *testing.T) {
	fx := NewFxTable()
	require.NoError(t, fx.Set("XOF", "USD", "0.0016"))

	value, _, ok := fx.Convert(12345, "XOF", "USD")
	require.True(t, ok)
	assert.Equal(t, "19.75", value.StringFixed(2))
}

func TestFxConvertMissingRate(t *testing.T) {
	fx := NewFxTable()
	_, _, ok := fx.Convert(10000, "XOF", "GBP")
	assert.False(t, ok)
}

func TestFxRejectsMalformedRate(t *testing.T) {
	fx := NewFxTable()
	assert.Error(t, fx.Set("XOF", "USD", "not-a-rate"))
}

func TestMajorValueMinorUnitCurrency(t *testing.T) {
	assert.Equal(t, "19.99", majorValue(1999, "USD").StringFixed(2))
}

func TestMajorValueZeroDecimalCurrency(t *testing.T) {
	// XOF has no minor unit: the stored amount already is the major value.
	assert.Equal(t, "15000", majorValue(15000, "XOF").String())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "15000", formatAmount(majorValue(15000, "XOF"), "XOF"))
	assert.Equal(t, "19.99", formatAmount(majorValue(1999, "USD"), "USD"))
}
