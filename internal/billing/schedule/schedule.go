// Package schedule 计费周期展开：把合同商务条款摊成一串离散的计费期间。
// 纯函数，不碰数据库。
package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period 一个计费期间
type Period struct {
	Start  time.Time
	End    time.Time // 买断场景无结束日，保持零值
	Months int
	Amount decimal.Decimal
}

// AddMonths 日历加月。月末溢出时钳到目标月最后一天
// （1/31 + 1 个月 = 2/28 或 2/29），与标准日历语义一致。
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(firstOfTarget); d > last {
		d = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}

// SubtractDays 日历减天
func SubtractDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, -n)
}

// daysInMonth 当月天数（下月第 0 天即本月最后一天）
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// GenerateLeasing 把 (起始日, 月租, 周期月数, 总月数) 展开为按时间顺序、
// 首尾相接、无重叠无缝隙的计费期间序列。
//
// totalMonths 整除不尽时，余数单独成最后一个短期间；金额 = 月租 × 期间月数，
// 全序列金额合计精确等于 月租 × 总月数。
// totalMonths <= 0 返回空序列（调用方保证只在租金、期限均有效时才调用）。
func GenerateLeasing(start time.Time, monthlyRent decimal.Decimal, cycleMonths, totalMonths int) []Period {
	if cycleMonths < 1 || totalMonths <= 0 {
		return nil
	}

	fullCycles := totalMonths / cycleMonths
	remainder := totalMonths % cycleMonths

	periods := make([]Period, 0, fullCycles+1)
	cur := start
	emit := func(months int) {
		next := AddMonths(cur, months)
		periods = append(periods, Period{
			Start:  cur,
			End:    SubtractDays(next, 1),
			Months: months,
			Amount: monthlyRent.Mul(decimal.NewFromInt(int64(months))),
		})
		// 下一期从结束日次日起算
		cur = next
	}

	for i := 0; i < fullCycles; i++ {
		emit(cycleMonths)
	}
	if remainder > 0 {
		emit(remainder)
	}
	return periods
}

// GenerateBuyout 买断的退化形态：恰好一个期间，成交日起算、全额、无结束日。
func GenerateBuyout(dealDate time.Time, dealAmount decimal.Decimal) Period {
	return Period{Start: dealDate, Amount: dealAmount}
}
