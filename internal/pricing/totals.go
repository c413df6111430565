// Package pricing 购物车金额计算：购物车状态与商品价格的纯函数，
// 内部以精确 decimal 累加，仅在展示/序列化时四舍五入到分
package pricing

import "github.com/shopspring/decimal"

// Line 参与计价的一行：实时单价与数量
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals 计价结果
type Totals struct {
	Subtotal  decimal.Decimal
	ItemCount int
}

// ComputeTotals 计算小计与件数，无副作用，可任意次调用
func ComputeTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	itemCount := 0

	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		itemCount += line.Quantity
	}

	return Totals{Subtotal: subtotal, ItemCount: itemCount}
}

// SubtotalDisplay 返回四舍五入到两位小数的小计字符串
func (t Totals) SubtotalDisplay() string {
	return t.Subtotal.StringFixed(2)
}
