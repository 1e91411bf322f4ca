package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoneyRoundsToPesewas(t *testing.T) {
	m, err := ParseMoney("3.505")
	require.NoError(t, err)
	assert.Equal(t, "3.51", m.String())

	m, err = ParseMoney("3")
	require.NoError(t, err)
	assert.Equal(t, "3.00", m.String())

	_, err = ParseMoney("three")
	assert.Error(t, err)
}

func TestArithmeticIsExact(t *testing.T) {
	balance := MustMoney("25.40")
	after := balance.Sub(MustMoney("3.50"))
	assert.Equal(t, "21.90", after.String())

	// 0.1 + 0.2 must not drift like a float would.
	assert.True(t, MustMoney("0.10").Add(MustMoney("0.20")).Equal(MustMoney("0.30")))

	assert.Equal(t, "7.00", MustMoney("3.50").Times(2).String())
	assert.Equal(t, "15.00", MustMoney("100").Percent(decimal.NewFromInt(15)).String())
	assert.Equal(t, "3.33", MustMoney("10.00").Split(3).String())
}

func TestComparisons(t *testing.T) {
	a, b := MustMoney("2.00"), MustMoney("2.50")
	assert.True(t, a.LessThan(b))
	assert.True(t, b.GreaterThan(a))
	assert.Equal(t, -1, a.Cmp(b))
	assert.True(t, Zero.IsZero())
	assert.True(t, a.Sub(b).IsNegative())
	assert.True(t, a.IsPositive())
}

func TestMoneyJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{MustMoney("3.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"3.50"}`, string(out))

	var in struct {
		A Money  `json:"a"`
		B Money  `json:"b"`
		C *Money `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1.25","b":2.5,"c":null}`), &in))
	assert.Equal(t, "1.25", in.A.String())
	assert.Equal(t, "2.50", in.B.String())
	assert.Nil(t, in.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"abc"}`), &in))
}

func TestMoneySQL(t *testing.T) {
	v, err := MustMoney("21.9").Value()
	require.NoError(t, err)
	assert.Equal(t, "21.90", v)

	var m Money
	require.NoError(t, m.Scan([]byte("25.40")))
	assert.Equal(t, "25.40", m.String())
	require.NoError(t, m.Scan("0.5"))
	assert.Equal(t, "0.50", m.String())
}
