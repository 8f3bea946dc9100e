// Package billing turns unlock codes and verified payments into signed PRO tokens.
package billing

import "github.com/de-tools/relationship-roi/pkg/models/domain"

var products = map[domain.ProductID]domain.Product{
	domain.ProductProMonthly:   {ID: domain.ProductProMonthly, Plan: domain.PlanPro, AmountWon: 9900, ExpiryDays: 30},
	domain.ProductProYearly:    {ID: domain.ProductProYearly, Plan: domain.PlanPro, AmountWon: 99000, ExpiryDays: 365},
	domain.ProductPlusLifetime: {ID: domain.ProductPlusLifetime, Plan: domain.PlanPlus, AmountWon: 4900, ExpiryDays: 3650},
}

func ProductFor(id string) (domain.Product, bool) {
	p, ok := products[domain.ProductID(id)]
	return p, ok
}
