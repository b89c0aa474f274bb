package product

// IncreasePrices 按百分比调整所有商品价格：price += price * percent / 100
// 先校验全部商品，任一失败则不修改任何商品
func IncreasePrices(products []*Product, percent float64) error {
	if percent < -100 {
		return newValidationError("percent", ErrInvalidPercentage)
	}

	prices := make([]float64, len(products))
	for i, p := range products {
		prices[i] = p.price + p.price*percent/100
		if err := validate(p.id, p.name, prices[i]); err != nil {
			return err
		}
	}

	for i, p := range products {
		if err := p.ChangePrice(prices[i]); err != nil {
			return err
		}
	}
	return nil
}
