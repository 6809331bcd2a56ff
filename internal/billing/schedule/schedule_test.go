package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		in   time.Time
		n    int
		want time.Time
	}{
		{date(2024, time.January, 31), 1, date(2024, time.February, 29)}, // 闰年
		{date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{date(2024, time.March, 31), 1, date(2024, time.April, 30)},
		{date(2024, time.January, 15), 1, date(2024, time.February, 15)},
		{date(2024, time.November, 30), 3, date(2025, time.February, 28)},
		{date(2024, time.January, 1), 12, date(2025, time.January, 1)},
	}
	for _, c := range cases {
		if got := AddMonths(c.in, c.n); !got.Equal(c.want) {
			t.Fatalf("AddMonths(%v, %d) = %v, want %v", c.in, c.n, got, c.want)
		}
	}
}

func TestSubtractDays(t *testing.T) {
	if got := SubtractDays(date(2024, time.March, 1), 1); !got.Equal(date(2024, time.February, 29)) {
		t.Fatalf("SubtractDays: got %v", got)
	}
}

func TestGenerateLeasingSplitsTrailingShortPeriod(t *testing.T) {
	// 月租 1000、周期 3 个月、总期限 10 个月 → 3,3,3,1 四段，金额 3000,3000,3000,1000
	periods := GenerateLeasing(date(2024, time.January, 1), decimal.NewFromInt(1000), 3, 10)
	if len(periods) != 4 {
		t.Fatalf("expected 4 periods got %d", len(periods))
	}
	wantMonths := []int{3, 3, 3, 1}
	wantAmounts := []int64{3000, 3000, 3000, 1000}
	for i, p := range periods {
		if p.Months != wantMonths[i] {
			t.Fatalf("period %d months = %d, want %d", i, p.Months, wantMonths[i])
		}
		if !p.Amount.Equal(decimal.NewFromInt(wantAmounts[i])) {
			t.Fatalf("period %d amount = %s, want %d", i, p.Amount, wantAmounts[i])
		}
	}
	// 首段 1/1–3/31，次段从 4/1 起
	if !periods[0].End.Equal(date(2024, time.March, 31)) {
		t.Fatalf("first period end = %v", periods[0].End)
	}
	if !periods[1].Start.Equal(date(2024, time.April, 1)) {
		t.Fatalf("second period start = %v", periods[1].Start)
	}
	// 最后短段覆盖第 10 个月：10/1–10/31
	last := periods[3]
	if !last.Start.Equal(date(2024, time.October, 1)) || !last.End.Equal(date(2024, time.October, 31)) {
		t.Fatalf("remainder period = %v ~ %v", last.Start, last.End)
	}
}

func TestGenerateLeasingContiguousAndGapless(t *testing.T) {
	starts := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 31), // 月末钳制路径
		date(2023, time.July, 15),
	}
	for _, start := range starts {
		for _, cycle := range []int{1, 2, 3, 5, 12} {
			for _, total := range []int{1, 6, 10, 12, 25} {
				periods := GenerateLeasing(start, decimal.NewFromInt(100), cycle, total)

				wantCount := total / cycle
				if total%cycle > 0 {
					wantCount++
				}
				if len(periods) != wantCount {
					t.Fatalf("cycle=%d total=%d: got %d periods want %d", cycle, total, len(periods), wantCount)
				}

				sum := decimal.Zero
				monthSum := 0
				for i, p := range periods {
					sum = sum.Add(p.Amount)
					monthSum += p.Months
					if i > 0 {
						// 上一期结束日的次日 = 本期起始日
						prevEnd := periods[i-1].End
						if !p.Start.Equal(prevEnd.AddDate(0, 0, 1)) {
							t.Fatalf("cycle=%d total=%d: gap between period %d end %v and period %d start %v",
								cycle, total, i-1, prevEnd, i, p.Start)
						}
					}
					if !p.End.After(p.Start) && !p.End.Equal(p.Start) {
						t.Fatalf("period %d ends %v before it starts %v", i, p.End, p.Start)
					}
				}
				if monthSum != total {
					t.Fatalf("cycle=%d total=%d: months sum %d", cycle, total, monthSum)
				}
				if !sum.Equal(decimal.NewFromInt(int64(100 * total))) {
					t.Fatalf("cycle=%d total=%d: amount sum %s want %d", cycle, total, sum, 100*total)
				}
				if !periods[0].Start.Equal(start) {
					t.Fatalf("first period starts %v want %v", periods[0].Start, start)
				}
			}
		}
	}
}

func TestGenerateLeasingCycleLongerThanDuration(t *testing.T) {
	// 周期 12 > 总期限 5：零个整周期，恰好一个覆盖全期限的余数段
	periods := GenerateLeasing(date(2024, time.February, 1), decimal.NewFromInt(500), 12, 5)
	if len(periods) != 1 {
		t.Fatalf("expected 1 period got %d", len(periods))
	}
	p := periods[0]
	if p.Months != 5 || !p.Amount.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("period = %+v", p)
	}
	if !p.End.Equal(date(2024, time.June, 30)) {
		t.Fatalf("end = %v", p.End)
	}
}

func TestGenerateLeasingZeroDuration(t *testing.T) {
	if got := GenerateLeasing(date(2024, time.January, 1), decimal.NewFromInt(1000), 3, 0); len(got) != 0 {
		t.Fatalf("expected empty sequence got %d", len(got))
	}
}

func TestGenerateLeasingExactSumNoDrift(t *testing.T) {
	// 非整数月租也不允许出现舍入漂移
	rent := decimal.RequireFromString("1234.56")
	periods := GenerateLeasing(date(2024, time.January, 1), rent, 7, 23)
	sum := decimal.Zero
	for _, p := range periods {
		sum = sum.Add(p.Amount)
	}
	if want := rent.Mul(decimal.NewFromInt(23)); !sum.Equal(want) {
		t.Fatalf("sum %s != %s", sum, want)
	}
}

func TestGenerateBuyoutSinglePeriod(t *testing.T) {
	p := GenerateBuyout(date(2024, time.May, 20), decimal.NewFromInt(88000))
	if !p.Start.Equal(date(2024, time.May, 20)) {
		t.Fatalf("start = %v", p.Start)
	}
	if !p.End.IsZero() {
		t.Fatalf("buyout period must not carry an end date, got %v", p.End)
	}
	if !p.Amount.Equal(decimal.NewFromInt(88000)) {
		t.Fatalf("amount = %s", p.Amount)
	}
}
