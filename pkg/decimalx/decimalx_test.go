package decimalx

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	testCases := []struct {
		name string
		ds   []decimal.Decimal
		want string
	}{
		{name: "empty", ds: nil, want: "0"},
		{name: "single", ds: []decimal.Decimal{MustFromString("3.5")}, want: "3.5"},
		{
			name: "four prices",
			ds: []decimal.Decimal{
				MustFromString("100"),
				MustFromString("110"),
				MustFromString("95"),
				MustFromString("105"),
			},
			want: "102.5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, MustFromString(tc.want).Equal(Mean(tc.ds...)), Mean(tc.ds...).String())
		})
	}
}

func TestHighestLowest(t *testing.T) {
	ds := []decimal.Decimal{
		MustFromString("4"),
		MustFromString("9.25"),
		MustFromString("-1"),
		MustFromString("7"),
	}
	assert.True(t, MustFromString("9.25").Equal(Highest(ds)))
	assert.True(t, MustFromString("-1").Equal(Lowest(ds)))
	assert.True(t, Highest(nil).IsZero())
	assert.True(t, Lowest(nil).IsZero())
}
