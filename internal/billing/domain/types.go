package domain

// ContractStatus 合同状态 (active/paused)
type ContractStatus string

const (
	StatusActive ContractStatus = "active"
	StatusPaused ContractStatus = "paused"
)

// PaymentStatus 收款状态 (未收/已收)
type PaymentStatus string

const (
	PaymentUncollected PaymentStatus = "uncollected"
	PaymentCollected   PaymentStatus = "collected"
)

// IsValid 校验收款状态合法性
func (p PaymentStatus) IsValid() bool {
	return p == PaymentUncollected || p == PaymentCollected
}

// PayableSide 合同上两笔独立的应付：销售方 / 维修方
type PayableSide string

const (
	SideSales   PayableSide = "sales"
	SideService PayableSide = "service"
)

func (s PayableSide) IsValid() bool {
	return s == SideSales || s == SideService
}
