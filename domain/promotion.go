package domain

// PromotionCode is a registry entry. Code is stored normalised (upper case).
type PromotionCode struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discount_percent"`
}

func (p PromotionCode) IsValid() bool {
	return p.Code != "" && p.DiscountPercent >= 0 && p.DiscountPercent <= 100
}
