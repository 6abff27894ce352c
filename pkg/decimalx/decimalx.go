package decimalx

import "github.com/shopspring/decimal"

var Hundred = decimal.NewFromInt(100)

func MustFromString(s string) decimal.Decimal {
	res, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return res
}

// Mean returns the arithmetic mean of ds, zero for an empty input.
func Mean(ds ...decimal.Decimal) decimal.Decimal {
	if len(ds) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, ds...).Div(decimal.NewFromInt(int64(len(ds))))
}

// Highest 返回最大值, 空切片返回 0
func Highest(ds []decimal.Decimal) decimal.Decimal {
	if len(ds) == 0 {
		return decimal.Zero
	}
	return decimal.Max(ds[0], ds[1:]...)
}

// Lowest 返回最小值, 空切片返回 0
func Lowest(ds []decimal.Decimal) decimal.Decimal {
	if len(ds) == 0 {
		return decimal.Zero
	}
	return decimal.Min(ds[0], ds[1:]...)
}
